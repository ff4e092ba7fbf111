package crhs

import (
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
)

// Absorb eliminates every path inconsistent with a known linear
// dependency d among this equation's labels. The
// caller is responsible for having established that d really is such
// a dependency, typically via SOC.FindDependency; Absorb itself
// re-derives which of the current labels combine to d (by RREF over
// the label matrix) purely to find which levels participate, and
// returns ErrNotADependency if d is not in their span.
//
// Procedure:
//  1. Swap the participating levels to the top of the equation, in
//     ascending original order.
//  2. Walk the top block tracking, per distinct incoming state, the
//     running XOR of the edge bits taken across it (a node reached
//     with two different running parities is split in two — this is
//     the "worst-case doubling" the correctness notes call out).
//     Any continuation whose final parity is 1 instead of 0 is
//     replaced with a dangling edge.
//  3. When d is the zero form, the last participating level now
//     discriminates nothing — every surviving node keeps exactly one
//     live edge, the one whose bit the parity above forces — so it is
//     contracted away, shrinking the equation by one level per
//     absorbed dependency. For a non-zero d that level's bit still
//     carries d, so the level is kept.
//  4. Nodes left with both edges dangling are spliced out, cascading
//     upward, and anything no longer reachable from the source is
//     dropped.
//
// Absorb snapshots the equation first and restores it verbatim if it
// returns an error.
func (eq *Equation) Absorb(d gf2.Form) error {
	snapshot := eq.Clone()

	labels := eq.Labels()
	rr := gf2.RREF(labels)

	var participation gf2.Form
	if d.IsZero() {
		// The zero form is the common case of two labels (already
		// identical, e.g. after Join) cancelling outright; any
		// non-trivial dependency RREF turned up witnesses it.
		if len(rr.Dependencies) == 0 {
			eq.restoreFrom(snapshot)
			return ErrNotADependency
		}
		participation = rr.Dependencies[0]
	} else {
		reduced, rowCombo := gf2.Reduce(d, rr.Rows)
		if !reduced.IsZero() {
			eq.restoreFrom(snapshot)
			return ErrNotADependency
		}
		participation = gf2.NewForm(len(eq.levels))
		for j := range rr.Combo {
			if rowCombo.Bit(gf2.VarID(j)) == 1 {
				participation = gf2.Add(participation, rr.Combo[j])
			}
		}
	}

	var participants []*level.Level
	for i, lv := range eq.levels {
		if participation.Bit(gf2.VarID(i)) == 1 {
			participants = append(participants, lv)
		}
	}
	if len(participants) == 0 {
		eq.restoreFrom(snapshot)
		return ErrNotADependency
	}

	indexOf := func(target *level.Level) int {
		for i, lv := range eq.levels {
			if lv == target {
				return i
			}
		}
		return -1
	}
	for slot, p := range participants {
		idx := indexOf(p)
		for idx > slot {
			if err := eq.Swap(idx - 1); err != nil {
				eq.restoreFrom(snapshot)
				return err
			}
			idx--
		}
	}

	if eq.source.Kind != level.ToNext {
		// No path reaches level 0 at all; every constraint holds vacuously.
		return nil
	}
	eq.absorbWalk(len(participants))
	if d.IsZero() {
		eq.contractForcedLevel(len(participants) - 1)
	}
	eq.pruneDanglingCascade()
	eq.pruneUnreachable()

	if len(eq.levels) == 0 {
		var collapsed *Equation
		if eq.source.Kind == level.ToSink {
			collapsed = NewTrivialEquation(eq.varWidth)
		} else {
			collapsed = NewUnsatEquation(eq.varWidth)
		}
		eq.source = collapsed.source
		eq.levels = collapsed.levels
	}
	return nil
}

// contractForcedLevel splices out the level at idx after absorbWalk
// has left every one of its nodes with at most one live outgoing
// edge: the level's bit is forced by the parity accumulated above it,
// so the level no longer discriminates anything the remaining
// participating labels don't already imply (that implication is
// exactly the dependency being absorbed). Removing it is what makes
// absorption productive — the label multiset loses the dependent row,
// so a later dependency search won't rediscover the same one.
func (eq *Equation) contractForcedLevel(idx int) {
	lv := eq.levels[idx]
	targets := make(map[level.NodeIndex]level.NodeRef, lv.NodeCount())
	for _, ni := range lv.Nodes() {
		n, _ := lv.Node(ni)
		switch {
		case n.Edge1.Kind == level.Dangling:
			targets[ni] = n.Edge0
		case n.Edge0.Kind == level.Dangling:
			targets[ni] = n.Edge1
		default:
			// Unreachable after absorbWalk; kept total so a misuse
			// shows up as pruned paths, not corruption.
			targets[ni] = level.DanglingRef()
		}
	}

	if idx == 0 {
		if eq.source.Kind == level.ToNext {
			if t, ok := targets[eq.source.Target]; ok {
				eq.source = t
			}
		}
	} else {
		prev := eq.levels[idx-1]
		prev.ReplaceEdgesThroughCollapse(targets)
		remap := prev.Rebuild()
		eq.propagateRemap(idx-2, remap)
	}

	eq.levels = append(eq.levels[:idx], eq.levels[idx+1:]...)
	for j := idx; j < len(eq.levels); j++ {
		eq.levels[j].SetPosition(j)
	}
}

type absorbState struct {
	idx    level.NodeIndex
	parity byte
}

// absorbWalk rebuilds levels 0..k-1 (now the participating levels,
// swapped to the top) as a product of each original node with the
// running parity of participating-level bits taken to reach it, and
// sets the conflicting edge out of each product node to dangling
// where continuing would make the overall parity 1.
func (eq *Equation) absorbWalk(k int) {
	oldLevels := make([]*level.Level, k)
	copy(oldLevels, eq.levels[:k])

	newLevels := make([]*level.Level, k)
	for j := 0; j < k; j++ {
		newLevels[j], _ = level.New(j, oldLevels[j].Label())
	}

	memo := make([]map[absorbState]level.NodeIndex, k)
	for j := range memo {
		memo[j] = make(map[absorbState]level.NodeIndex)
	}

	var build func(j int, st absorbState) level.NodeIndex
	build = func(j int, st absorbState) level.NodeIndex {
		if idx, ok := memo[j][st]; ok {
			return idx
		}
		n, ok := oldLevels[j].Node(st.idx)
		if !ok {
			return 0
		}

		resolve := func(bit byte, child level.NodeRef) level.NodeRef {
			parity := st.parity ^ bit
			if j == k-1 {
				if parity != 0 {
					return level.DanglingRef()
				}
				return child
			}
			if child.Kind != level.ToNext {
				return child
			}
			return level.ToNextRef(build(j+1, absorbState{idx: child.Target, parity: parity}))
		}

		e0 := resolve(0, n.Edge0)
		e1 := resolve(1, n.Edge1)
		// isTerminal is passed true unconditionally: a node with both
		// edges dangling here is an expected transient produced by step
		// 2, cleaned up by the pruning pass that follows.
		idx, _ := newLevels[j].InsertNode(e0, e1, true)
		memo[j][st] = idx
		return idx
	}

	rootIdx := build(0, absorbState{idx: eq.source.Target, parity: 0})
	eq.source = level.ToNextRef(rootIdx)

	tail := make([]*level.Level, len(eq.levels)-k)
	copy(tail, eq.levels[k:])
	eq.levels = append(newLevels, tail...)
}

// pruneDanglingCascade removes nodes whose both edges are dangling,
// redirecting their predecessors' edges to dangling in turn and
// re-establishing maximal sharing up the chain. If level 0's sole
// node ends up with both edges dangling, the whole equation becomes
// unsatisfiable.
func (eq *Equation) pruneDanglingCascade() {
	for i := len(eq.levels) - 1; i >= 1; i-- {
		lv := eq.levels[i]
		dead := lv.DanglingPredecessors()
		if len(dead) == 0 {
			continue
		}
		targets := make(map[level.NodeIndex]level.NodeRef, len(dead))
		for _, d := range dead {
			targets[d] = level.DanglingRef()
		}
		prev := eq.levels[i-1]
		prev.ReplaceEdgesThroughCollapse(targets)
		for _, d := range dead {
			lv.DropNode(d)
		}
		remap := prev.Rebuild()
		eq.propagateRemap(i-2, remap)
	}

	lv0 := eq.levels[0]
	dead := lv0.DanglingPredecessors()
	if len(dead) == 0 {
		return
	}
	deadSet := make(map[level.NodeIndex]bool, len(dead))
	for _, d := range dead {
		deadSet[d] = true
	}
	if eq.source.Kind == level.ToNext && deadSet[eq.source.Target] {
		eq.source = level.DanglingRef()
	}
	for _, d := range dead {
		lv0.DropNode(d)
	}
}

// pruneUnreachable drops every node no longer reachable from the
// source, a standalone forward mark-and-sweep independent of the
// incoming-edge bookkeeping pruneDanglingCascade performs.
func (eq *Equation) pruneUnreachable() {
	reachable := make([]map[level.NodeIndex]bool, len(eq.levels))
	for i := range reachable {
		reachable[i] = make(map[level.NodeIndex]bool)
	}

	var mark func(ref level.NodeRef, i int)
	mark = func(ref level.NodeRef, i int) {
		if ref.Kind != level.ToNext || i >= len(eq.levels) {
			return
		}
		if reachable[i][ref.Target] {
			return
		}
		reachable[i][ref.Target] = true
		n, ok := eq.levels[i].Node(ref.Target)
		if !ok {
			return
		}
		mark(n.Edge0, i+1)
		mark(n.Edge1, i+1)
	}
	mark(eq.source, 0)

	for i, lv := range eq.levels {
		for _, idx := range lv.Nodes() {
			if !reachable[i][idx] {
				_ = lv.DropNode(idx)
			}
		}
	}
}

package crhs

import (
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
)

// Fix substitutes a known value for v into every level whose label
// names it. A level untouched by v is left exactly as it
// was.
//
// For a level whose label still names other variables once v is
// removed, the label shrinks in place; substituting 1 additionally
// flips which edge each node takes, since the level's discriminant is
// the XOR of every named variable and v's known value of 1 inverts
// the parity of what remains. Substituting 0 changes only the label.
//
// For a level whose label names only v, fixing it makes the level's
// discriminant a known constant: the level is spliced out entirely,
// and the level above (or the equation's source, if v fell out of
// level 0) is redirected straight to whichever edge that constant
// selects. If every level collapses this way, the equation becomes
// the canonical trivial or unsat equation depending on which side of
// the sink the collapse landed on.
//
// Fix snapshots the equation first and restores it verbatim if it
// returns an error.
func (eq *Equation) Fix(v gf2.VarID, bit byte) error {
	if bit != 0 && bit != 1 {
		return ErrBadBit
	}
	snapshot := eq.Clone()
	found := false

	idx := 0
	for idx < len(eq.levels) {
		lv := eq.levels[idx]
		label := lv.Label()
		if label.Bit(v) == 0 {
			idx++
			continue
		}
		found = true

		rest := label.Clone()
		rest.Clear(v)
		if !rest.IsZero() {
			lv.SetLabel(rest)
			if bit == 1 {
				lv.FlipAllEdges()
			}
			idx++
			continue
		}

		eq.collapseLevel(idx, bit)
	}

	if !found {
		eq.restoreFrom(snapshot)
		return ErrVarNotPresent
	}

	if len(eq.levels) > 0 {
		// A collapse that landed on a dangling edge can strand nodes
		// above it; restore invariant (1) eagerly, as absorb does.
		eq.pruneDanglingCascade()
		eq.pruneUnreachable()
	}

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

// collapseLevel removes the level at idx, whose label has become the
// known constant bit, splicing whatever edge that constant selects on
// each of the level's nodes through to the predecessor (or the
// equation's source, for idx == 0).
func (eq *Equation) collapseLevel(idx int, bit byte) {
	lv := eq.levels[idx]
	targets := make(map[level.NodeIndex]level.NodeRef, lv.NodeCount())
	for _, ni := range lv.Nodes() {
		n, _ := lv.Node(ni)
		if bit == 0 {
			targets[ni] = n.Edge0
		} else {
			targets[ni] = n.Edge1
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

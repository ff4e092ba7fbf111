package crhs

import (
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
)

// Join glues two equations that both carry a level labeled shared
// into one equation whose relation is the conjunction of theirs
//. The shared level appears once in the result, so the
// level count of the result is a.LevelCount() + b.LevelCount() - 1.
//
// Neither input is mutated: Join works on clones, bubbles a's shared
// level to the bottom and b's to the top by adjacent swaps, then
// merges the two aligned levels. A path through the merged level must
// both complete a (the a-side edge reached the sink) and continue
// into b (the b-side root's edge for the same bit), so the merged
// node's edge for bit x is b's continuation when a accepted on x and
// dangling otherwise.
//
// Join never loses solutions; it may well produce an unsatisfiable
// equation, which is a valid result, not an error.
func Join(a, b *Equation, shared gf2.Form) (*Equation, error) {
	if a.varWidth != b.varWidth {
		return nil, ErrWidthMismatch
	}
	// An unsat operand makes the conjunction unsat outright; skip the
	// surgery rather than glue onto a graph with no accepting path.
	// Checked before the label lookup because an equation that went
	// unsat under earlier fixes may have lost the shared level.
	if a.IsUnsat() || b.IsUnsat() {
		return NewUnsatEquation(a.varWidth), nil
	}

	idxA := levelIndexOf(a, shared)
	idxB := levelIndexOf(b, shared)
	if idxA < 0 || idxB < 0 {
		return nil, ErrNoSharedLabel
	}

	a2 := a.Clone()
	b2 := b.Clone()
	for i := idxA; i < len(a2.levels)-1; i++ {
		if err := a2.Swap(i); err != nil {
			return nil, err
		}
	}
	for i := idxB; i > 0; i-- {
		if err := b2.Swap(i - 1); err != nil {
			return nil, err
		}
	}

	n1 := len(a2.levels)
	n2 := len(b2.levels)
	// Invariant (1) keeps every level-0 node on a source-to-sink path,
	// and the source is a single edge, so b2's top level has exactly
	// one live node: the root the merged level continues into.
	root, ok := b2.levels[0].Node(b2.source.Target)
	if !ok {
		return NewUnsatEquation(a.varWidth), nil
	}

	terminal := n2 == 1
	merged, err := level.New(n1-1, shared)
	if err != nil {
		return nil, err
	}

	last := a2.levels[n1-1]
	targets := make(map[level.NodeIndex]level.NodeRef, last.NodeCount())
	for _, ni := range last.Nodes() {
		an, _ := last.Node(ni)
		e0 := continueInto(an.Edge0, root.Edge0)
		e1 := continueInto(an.Edge1, root.Edge1)
		ref, err := insertOrDangle(merged, e0, e1, terminal)
		if err != nil {
			return nil, err
		}
		targets[ni] = ref
	}

	source := a2.source
	if n1 == 1 {
		if source.Kind == level.ToNext {
			if t, hit := targets[source.Target]; hit {
				source = t
			} else {
				source = level.DanglingRef()
			}
		}
	} else {
		prev := a2.levels[n1-2]
		prev.ReplaceEdgesThroughCollapse(targets)
		remap := prev.Rebuild()
		a2.propagateRemap(n1-3, remap)
		source = a2.source
	}

	levels := make([]*level.Level, 0, n1+n2-1)
	levels = append(levels, a2.levels[:n1-1]...)
	levels = append(levels, merged)
	levels = append(levels, b2.levels[1:]...)
	for i, lv := range levels {
		lv.SetPosition(i)
	}

	out := &Equation{varWidth: a.varWidth, source: source, levels: levels}
	out.pruneDanglingCascade()
	out.pruneUnreachable()
	return out, nil
}

// continueInto resolves one bit of a merged node: aEdge is the a-side
// shared-level edge (ToSink when a accepts on this bit), bEdge the
// b-side root's continuation for the same bit.
func continueInto(aEdge, bEdge level.NodeRef) level.NodeRef {
	if aEdge.Kind != level.ToSink {
		return level.DanglingRef()
	}
	return bEdge
}

// levelIndexOf returns the position of the first level of eq labeled
// exactly f, or -1.
func levelIndexOf(eq *Equation, f gf2.Form) int {
	for i, lv := range eq.levels {
		if lv.Label().Equal(f) {
			return i
		}
	}
	return -1
}

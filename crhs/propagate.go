package crhs

import "github.com/Simula-UiB/CRHS/level"

// propagateRemap redirects every edge that used to target one of
// remap's keys (live nodes on the level just above levelIdx) to its
// mapped value instead, then re-establishes maximal sharing on that
// level. If re-establishing sharing merges further nodes, the merge
// is propagated one level further up in turn — this is how a single
// local edit (Swap/Fix/Absorb collapsing or relocating nodes) stays
// consistent with the "no two nodes share an edge pair" invariant
// across the whole equation, not just the level it touched directly.
//
// levelIdx == -1 addresses the source edge, which has no predecessor
// of its own and therefore never needs further propagation.
func (eq *Equation) propagateRemap(levelIdx int, remap map[level.NodeIndex]level.NodeIndex) {
	if len(remap) == 0 {
		return
	}
	if levelIdx < 0 {
		if eq.source.Kind == level.ToNext {
			if nu, ok := remap[eq.source.Target]; ok {
				eq.source.Target = nu
			}
		}
		return
	}
	lv := eq.levels[levelIdx]
	for old, nu := range remap {
		lv.Redirect(old, nu)
	}
	next := lv.Rebuild()
	eq.propagateRemap(levelIdx-1, next)
}

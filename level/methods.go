package level

// InsertNode inserts a node with the given outgoing edges, returning
// the existing index if a node with the same edge pair is already
// live on this level (maximal sharing), or a fresh index otherwise.
//
// isTerminal must be true only for the last level before the sink;
// inserting a node with both edges dangling on any other level
// returns ErrBothDangling.
//
// Complexity: O(1) amortized (map lookup/insert).
func (lv *Level) InsertNode(e0, e1 NodeRef, isTerminal bool) (NodeIndex, error) {
	n := Node{Edge0: e0, Edge1: e1}
	if !isTerminal && n.bothDangling() {
		return 0, ErrBothDangling
	}
	if i, ok := lv.index[n]; ok {
		return i, nil
	}

	var idx NodeIndex
	if len(lv.free) > 0 {
		idx = lv.free[len(lv.free)-1]
		lv.free = lv.free[:len(lv.free)-1]
		lv.nodes[idx] = n
		lv.live[idx] = true
	} else {
		idx = NodeIndex(len(lv.nodes))
		lv.nodes = append(lv.nodes, n)
		lv.live = append(lv.live, true)
	}
	lv.index[n] = idx
	return idx, nil
}

// DropNode removes node i from this level. Edges on the previous
// level that pointed at i become the caller's responsibility to
// retarget (via Redirect on the previous level) before or after this
// call; DropNode itself only reclaims i's slot on this level.
//
// Complexity: O(1).
func (lv *Level) DropNode(i NodeIndex) error {
	if int(i) < 0 || int(i) >= len(lv.nodes) || !lv.live[i] {
		return ErrNodeNotFound
	}
	delete(lv.index, lv.nodes[i])
	lv.live[i] = false
	lv.free = append(lv.free, i)
	return nil
}

// Redirect rewrites every edge on this level (treated as the level
// preceding the one that dropped old) that pointed at old to point at
// new instead. Precondition, enforced by the caller: old must have no
// remaining in-edges once this returns, so it can be safely dropped
// from the successor level.
//
// Redirect can produce duplicate edge pairs on this level; call
// Rebuild afterwards to re-establish maximal sharing.
//
// Complexity: O(live node count).
func (lv *Level) Redirect(old, new NodeIndex) {
	for i, ok := range lv.live {
		if !ok {
			continue
		}
		n := &lv.nodes[i]
		changed := false
		if n.Edge0.Kind == ToNext && n.Edge0.Target == old {
			n.Edge0.Target = new
			changed = true
		}
		if n.Edge1.Kind == ToNext && n.Edge1.Target == old {
			n.Edge1.Target = new
			changed = true
		}
		if changed {
			// the map entry for this node's old edge pair is now stale;
			// Rebuild is responsible for restoring map consistency.
			delete(lv.index, lv.nodes[i])
		}
	}
}

// Rebuild re-establishes maximal sharing after external edits (e.g. a
// sequence of Redirect calls) may have left duplicate edge pairs live
// on this level. It returns a remap from every dropped duplicate's old
// index to the index of the node it was merged into, so the caller
// can Redirect the level above in turn.
//
// Complexity: O(live node count).
func (lv *Level) Rebuild() map[NodeIndex]NodeIndex {
	remap := make(map[NodeIndex]NodeIndex)
	seen := make(map[Node]NodeIndex, len(lv.nodes))
	for i, ok := range lv.live {
		if !ok {
			continue
		}
		idx := NodeIndex(i)
		n := lv.nodes[i]
		if existing, dup := seen[n]; dup {
			lv.live[i] = false
			lv.free = append(lv.free, idx)
			remap[idx] = existing
			continue
		}
		seen[n] = idx
	}
	lv.index = seen
	return remap
}

// DanglingPredecessors returns the live node indices on this level
// whose both edges are dangling, i.e. every path through them is
// already known to fail. Used by absorb's bottom-up pruning pass.
func (lv *Level) DanglingPredecessors() []NodeIndex {
	var out []NodeIndex
	for i, ok := range lv.live {
		if ok && lv.nodes[i].bothDangling() {
			out = append(out, NodeIndex(i))
		}
	}
	return out
}

// FlipAllEdges swaps Edge0 and Edge1 on every live node. Used by
// crhs.Equation.Fix when substituting a 1 for a variable inverts the
// parity of what remains of this level's label. A uniform flip of
// every node can never introduce a duplicate edge pair that wasn't
// already a duplicate before the flip, so maximal sharing is
// preserved without a Rebuild pass.
func (lv *Level) FlipAllEdges() {
	seen := make(map[Node]NodeIndex, len(lv.index))
	for i, ok := range lv.live {
		if !ok {
			continue
		}
		n := &lv.nodes[i]
		n.Edge0, n.Edge1 = n.Edge1, n.Edge0
		seen[*n] = NodeIndex(i)
	}
	lv.index = seen
}

// ReplaceEdgesThroughCollapse rewrites every edge on this level that
// targeted one of targets' keys to the mapped NodeRef instead — which
// may itself be Dangling, ToSink, or ToNext into a different level
// entirely. Used when the level immediately below this one has been
// removed (crhs.Equation.Fix collapsing a now-constant label) and
// this level's edges must "skip over" it directly to whatever the
// removed level's surviving edge pointed at.
//
// Like Redirect, this can introduce duplicate edge pairs; call
// Rebuild afterwards.
func (lv *Level) ReplaceEdgesThroughCollapse(targets map[NodeIndex]NodeRef) {
	for i, ok := range lv.live {
		if !ok {
			continue
		}
		n := &lv.nodes[i]
		changed := false
		if n.Edge0.Kind == ToNext {
			if t, hit := targets[n.Edge0.Target]; hit {
				n.Edge0 = t
				changed = true
			}
		}
		if n.Edge1.Kind == ToNext {
			if t, hit := targets[n.Edge1.Target]; hit {
				n.Edge1 = t
				changed = true
			}
		}
		if changed {
			delete(lv.index, lv.nodes[i])
		}
	}
}

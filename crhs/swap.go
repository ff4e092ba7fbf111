package crhs

import (
	"github.com/Simula-UiB/CRHS/level"
)

// Swap exchanges levels i and i+1, preserving the equation's
// represented relation. For each node on level i,
// Swap looks at its four grandchildren on the level below i+1 and
// rebuilds the two levels so the question previously asked second
// (level i+1's label) is asked first.
//
// Cost is bounded by the product of the two levels' node counts.
//
// Swap snapshots the equation first and restores it verbatim if it
// returns an error, so a cancelled or failed swap never leaves the
// equation in a partially rewritten state.
func (eq *Equation) Swap(i int) error {
	if i < 0 || i+1 >= len(eq.levels) {
		return ErrLevelIndexOutOfRange
	}
	snapshot := eq.Clone()

	oldTop := eq.levels[i]
	oldBottom := eq.levels[i+1]
	bottomTerminal := i+1 == len(eq.levels)-1

	// Labels are copied straight from already-validated levels, so
	// they are guaranteed non-zero and level.New cannot fail here.
	newTop, _ := level.New(i, oldBottom.Label())
	newBottom, _ := level.New(i+1, oldTop.Label())

	remap := make(map[level.NodeIndex]level.NodeIndex, oldTop.NodeCount())
	for _, j := range oldTop.Nodes() {
		n, _ := oldTop.Node(j)

		g00, g01 := grandchildren(oldBottom, n.Edge0)
		g10, g11 := grandchildren(oldBottom, n.Edge1)

		edge0, err := insertOrDangle(newBottom, g00, g10, bottomTerminal)
		if err != nil {
			eq.restoreFrom(snapshot)
			return err
		}
		edge1, err := insertOrDangle(newBottom, g01, g11, bottomTerminal)
		if err != nil {
			eq.restoreFrom(snapshot)
			return err
		}

		newIdx, err := newTop.InsertNode(edge0, edge1, false)
		if err != nil {
			eq.restoreFrom(snapshot)
			return err
		}
		remap[j] = newIdx
	}

	eq.levels[i] = newTop
	eq.levels[i+1] = newBottom
	eq.propagateRemap(i-1, remap)
	return nil
}

// grandchildren returns the two edges reachable from parent by first
// taking edge, then (if it led to a live node on bottom) taking that
// node's own 0-edge and 1-edge. If edge dangles, both grandchildren
// dangle too.
func grandchildren(bottom *level.Level, edge level.NodeRef) (level.NodeRef, level.NodeRef) {
	if edge.Kind != level.ToNext {
		return level.DanglingRef(), level.DanglingRef()
	}
	n, ok := bottom.Node(edge.Target)
	if !ok {
		return level.DanglingRef(), level.DanglingRef()
	}
	return n.Edge0, n.Edge1
}

// insertOrDangle inserts a node with edges (e0, e1) on lv unless both
// dangle and lv is not terminal, in which case a node with both edges
// dangling would violate the level invariant — instead the
// caller's edge into this branch is itself made to dangle directly.
func insertOrDangle(lv *level.Level, e0, e1 level.NodeRef, terminal bool) (level.NodeRef, error) {
	bothDangle := e0.Kind == level.Dangling && e1.Kind == level.Dangling
	if bothDangle && !terminal {
		return level.DanglingRef(), nil
	}
	idx, err := lv.InsertNode(e0, e1, terminal)
	if err != nil {
		return level.NodeRef{}, err
	}
	return level.ToNextRef(idx), nil
}

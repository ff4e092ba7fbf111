package crhs

import "github.com/Simula-UiB/CRHS/level"

// IsTrivial reports whether this equation is the canonical trivial
// equation: one level, zero-form label, single node whose 0-edge
// reaches the sink and whose 1-edge dangles.
func (eq *Equation) IsTrivial() bool {
	if len(eq.levels) != 1 {
		return false
	}
	lv := eq.levels[0]
	if !lv.Label().IsZero() || lv.NodeCount() != 1 {
		return false
	}
	idx := lv.Nodes()[0]
	n, _ := lv.Node(idx)
	if n.Edge0.Kind != level.ToSink || n.Edge1.Kind != level.Dangling {
		return false
	}
	return eq.source.Kind == level.ToNext && eq.source.Target == idx
}

// IsUnsat reports whether this equation has no source-to-sink path at
// all. Once an equation is unsat, so is the whole SOC that contains it.
//
// Complexity: O(total node count).
func (eq *Equation) IsUnsat() bool {
	paths, _ := eq.EnumeratePaths(1)
	return len(paths) == 0
}

// EnumeratePaths walks every source-to-sink path and returns each as
// an Assignment of the bit taken at each level, in level order. If
// limit > 0 and more than limit accepting paths exist, enumeration
// stops early and the second return value is true.
//
// Complexity: O(min(limit, accepting path count) * level count), plus
// the cost of any dead-end branches explored before a limit cutoff —
// bounded overall by total node count since maximal sharing keeps
// each node's two branches from being re-explored more than once.
func (eq *Equation) EnumeratePaths(limit int) ([]Assignment, bool) {
	var results []Assignment
	truncated := false

	var walk func(ref level.NodeRef, levelIdx int, bits []byte)
	walk = func(ref level.NodeRef, levelIdx int, bits []byte) {
		if truncated {
			return
		}
		switch ref.Kind {
		case level.Dangling:
			return
		case level.ToSink:
			if limit > 0 && len(results) >= limit {
				truncated = true
				return
			}
			cp := make([]byte, len(bits))
			copy(cp, bits)
			results = append(results, Assignment{Bits: cp})
			return
		case level.ToNext:
			lv := eq.levels[levelIdx]
			n, ok := lv.Node(ref.Target)
			if !ok {
				return
			}
			walk(n.Edge0, levelIdx+1, append(bits, 0))
			walk(n.Edge1, levelIdx+1, append(bits, 1))
		}
	}
	walk(eq.source, 0, make([]byte, 0, len(eq.levels)))
	return results, truncated
}

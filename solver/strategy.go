package solver

import (
	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/soc"
)

// NoDrop is the lossless strategy: it never discards a non-trivial
// equation, so the solution set is preserved exactly (modulo absorbed
// dependencies, which are true by construction). On large systems it
// may exhaust memory; that is the documented trade-off.
//
// Scan order per step: drop a trivial equation, fix a forced
// variable, absorb a discovered dependency, then join a pair sharing
// a label. Local, shrinking steps run before joins so joins operate
// on equations already reduced as far as cheap reasoning carries.
type NoDrop struct{}

// Step implements Strategy.
func (NoDrop) Step(s *soc.SOC) (Step, bool) {
	if st, ok := localStep(s); ok {
		return st, true
	}
	if h1, h2, label, ok := s.SharedLabelPair(); ok {
		return JoinPair{H1: h1, H2: h2, Label: label}, true
	}
	return nil, false
}

// DropLookahead behaves like NoDrop until a join's projected node
// count exceeds Budget; it then drops the bulkier operand instead of
// joining. Dropping an equation widens the solution set — the
// strategy trades exactness for boundedness, which is the right trade
// for sponge preimage search where any surviving candidate can be
// verified against the target afterwards.
type DropLookahead struct {
	// Budget caps the projected node count of a join. Zero or negative
	// disables shedding, making the strategy equivalent to NoDrop.
	Budget int
}

// Step implements Strategy.
func (d DropLookahead) Step(s *soc.SOC) (Step, bool) {
	if st, ok := localStep(s); ok {
		return st, true
	}
	if h1, h2, label, ok := s.SharedLabelPair(); ok {
		if d.Budget > 0 && projectedJoinNodes(s, h1, h2) > d.Budget {
			return Drop{H: bulkier(s, h1, h2)}, true
		}
		return JoinPair{H1: h1, H2: h2, Label: label}, true
	}
	return nil, false
}

// BestEffort wraps Inner (NoDrop when nil) and declares itself done
// as soon as Deadline fires, leaving the SOC wherever the completed
// steps carried it. Solve then enumerates whatever the partial solve
// pinned down.
type BestEffort struct {
	Inner    Strategy
	Deadline Deadline
}

// Step implements Strategy.
func (b BestEffort) Step(s *soc.SOC) (Step, bool) {
	if b.Deadline != nil && b.Deadline() {
		return nil, false
	}
	inner := b.Inner
	if inner == nil {
		inner = NoDrop{}
	}
	return inner.Step(s)
}

// localStep finds a step that shrinks a single equation without
// touching any other: dropping a trivial one, fixing a variable some
// equation forces outright, or absorbing an internal dependency.
func localStep(s *soc.SOC) (Step, bool) {
	for _, h := range s.Handles() {
		eq, _ := s.Equation(h)
		if eq.IsTrivial() {
			return Drop{H: h}, true
		}
	}
	for _, h := range s.Handles() {
		if v, b, ok := forcedVariable(s, h); ok {
			return Fix{V: v, B: b}, true
		}
	}
	for _, h := range s.Handles() {
		if d, ok := s.FindDependency(h); ok {
			return Absorb{H: h, D: d}, true
		}
	}
	return nil, false
}

// forcedVariable reports a variable whose value equation h pins down
// outright: every label is a single variable and exactly one
// accepting path survives, so the bit taken at each level is that
// variable's only possible value. This is how known inputs propagate
// through a fully fixed cipher without a single join.
func forcedVariable(s *soc.SOC, h soc.Handle) (gf2.VarID, byte, bool) {
	eq, ok := s.Equation(h)
	if !ok {
		return 0, 0, false
	}
	labels := eq.Labels()
	for _, l := range labels {
		if l.Weight() != 1 {
			return 0, 0, false
		}
	}
	paths, truncated := eq.EnumeratePaths(2)
	if truncated || len(paths) != 1 {
		return 0, 0, false
	}
	return labels[0].Vars()[0], paths[0].Bits[0], true
}

// projectedJoinNodes bounds the immediate size of joining h1 and h2:
// the glue itself never multiplies nodes, it concatenates the two
// graphs minus the shared level, so the sum of the operands' node
// counts is the projection. Absorptions that follow can still double
// an equation in the worst case; the budget is a lookahead, not a
// guarantee.
func projectedJoinNodes(s *soc.SOC, h1, h2 soc.Handle) int {
	a, _ := s.Equation(h1)
	b, _ := s.Equation(h2)
	return nodeTotal(a) + nodeTotal(b)
}

// bulkier returns whichever operand carries more nodes.
func bulkier(s *soc.SOC, h1, h2 soc.Handle) soc.Handle {
	a, _ := s.Equation(h1)
	b, _ := s.Equation(h2)
	if nodeTotal(a) >= nodeTotal(b) {
		return h1
	}
	return h2
}

// nodeTotal counts the live nodes across all levels of eq.
func nodeTotal(eq *crhs.Equation) int {
	n := 0
	for _, lv := range eq.Levels() {
		n += lv.NodeCount()
	}
	return n
}

package crhs

import (
	"errors"

	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
)

// Sentinel errors for equation-level operations.
var (
	// ErrNoLevels indicates an attempt to build an Equation with zero levels.
	ErrNoLevels = errors.New("crhs: equation must have at least one level")

	// ErrBadPositions indicates the supplied levels are not numbered 0..n-1 in order.
	ErrBadPositions = errors.New("crhs: levels must be positioned 0..n-1 in order")

	// ErrBadEdgeKind indicates a node uses an edge kind that is invalid for its level
	// (ToSink off a non-terminal level, or ToNext off the terminal level).
	ErrBadEdgeKind = errors.New("crhs: edge kind invalid for this level")

	// ErrDanglingTarget indicates a ToNext edge targets a node index that is not live
	// on the next level.
	ErrDanglingTarget = errors.New("crhs: edge targets a non-existent node")

	// ErrLevelIndexOutOfRange indicates Swap addressed a level position that does not exist.
	ErrLevelIndexOutOfRange = errors.New("crhs: level index out of range")

	// ErrNotAdjacent indicates Swap was asked to exchange a level with something other
	// than its immediate successor.
	ErrNotAdjacent = errors.New("crhs: swap requires adjacent levels")

	// ErrVarNotPresent indicates Fix was asked to substitute a variable that does not
	// occur in any label of this equation.
	ErrVarNotPresent = errors.New("crhs: variable does not occur in this equation")

	// ErrBadBit indicates Fix was asked to substitute a value other than 0 or 1.
	ErrBadBit = errors.New("crhs: fix bit must be 0 or 1")

	// ErrNotADependency indicates Absorb was given a form that is not expressible
	// as a non-trivial XOR of this equation's current labels.
	ErrNotADependency = errors.New("crhs: form is not a dependency of this equation's labels")

	// ErrNoSharedLabel indicates Join was given two equations with no level
	// labeled by the requested form on both sides.
	ErrNoSharedLabel = errors.New("crhs: equations do not share a level with this label")

	// ErrWidthMismatch indicates two equations over different variable universes
	// were combined.
	ErrWidthMismatch = errors.New("crhs: equations are defined over different variable universes")
)

// Assignment is one accepting source-to-sink path, expressed as the
// bit taken at each level in order.
type Assignment struct {
	Bits []byte // Bits[i] is the edge bit taken at Levels()[i]
}

// Equation is a CRHS equation: an ordered sequence of levels between
// a single source and a single sink.
//
// The source carries a single unconditional edge into the root node
// of Levels()[0]; it sits above the first level and tests no label of
// its own. Every level's own nodes test that level's
// label, per the usual two-edge Node contract; since only the source
// can reach level 0, level 0 has at most one live node in a maximally
// shared equation.
type Equation struct {
	varWidth int
	source   level.NodeRef // unconditional edge into levels[0]'s root
	levels   []*level.Level
}

// NewEquation assembles an Equation from already-populated levels and
// a source edge, validating the structural invariants:
// levels are numbered 0..n-1 in order, only the last level's nodes may
// use ToSink, only non-last levels' nodes may use ToNext, and every
// ToNext edge targets a live node on the next level.
//
// Complexity: O(total node count).
func NewEquation(varWidth int, levels []*level.Level, source level.NodeRef) (*Equation, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	for i, lv := range levels {
		if lv.Position() != i {
			return nil, ErrBadPositions
		}
	}
	for i, lv := range levels {
		terminal := i == len(levels)-1
		var next *level.Level
		if !terminal {
			next = levels[i+1]
		}
		for _, idx := range lv.Nodes() {
			n, _ := lv.Node(idx)
			if err := validateEdge(n.Edge0, terminal, next); err != nil {
				return nil, err
			}
			if err := validateEdge(n.Edge1, terminal, next); err != nil {
				return nil, err
			}
		}
	}
	// The source always feeds into levels[0], which is never "terminal"
	// from the source's point of view even when it is the equation's
	// only level: the sink sits below the last level, never directly
	// below the source.
	if err := validateEdge(source, false, levels[0]); err != nil {
		return nil, err
	}

	return &Equation{varWidth: varWidth, source: source, levels: levels}, nil
}

func validateEdge(e level.NodeRef, terminal bool, next *level.Level) error {
	switch e.Kind {
	case level.Dangling:
		return nil
	case level.ToSink:
		if !terminal {
			return ErrBadEdgeKind
		}
		return nil
	case level.ToNext:
		if terminal {
			return ErrBadEdgeKind
		}
		if _, ok := next.Node(e.Target); !ok {
			return ErrDanglingTarget
		}
		return nil
	default:
		return ErrBadEdgeKind
	}
}

// VarWidth returns the size of the variable universe this equation is defined over.
func (eq *Equation) VarWidth() int { return eq.varWidth }

// LevelCount returns the number of levels in this equation.
func (eq *Equation) LevelCount() int { return len(eq.levels) }

// Level returns the level at position i.
func (eq *Equation) Level(i int) *level.Level { return eq.levels[i] }

// Levels returns the ordered slice of levels. Callers must not mutate
// the returned slice's backing array directly; use the Equation's
// transform methods instead.
func (eq *Equation) Levels() []*level.Level { return eq.levels }

// Source returns the equation's single source edge.
func (eq *Equation) Source() level.NodeRef { return eq.source }

// Labels returns every level's label, in level order.
func (eq *Equation) Labels() []gf2.Form {
	out := make([]gf2.Form, len(eq.levels))
	for i, lv := range eq.levels {
		out[i] = lv.Label()
	}
	return out
}

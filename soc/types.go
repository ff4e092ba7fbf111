package soc

import (
	"errors"

	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/gf2"
)

// Sentinel errors for SOC operations.
var (
	// ErrNilEquation indicates Insert was handed a nil equation.
	ErrNilEquation = errors.New("soc: equation is nil")

	// ErrWidthMismatch indicates an equation over a different variable
	// universe than the SOC's.
	ErrWidthMismatch = errors.New("soc: equation width does not match the SOC's variable universe")

	// ErrUnknownHandle indicates an operation referenced a handle that is
	// not (or no longer) present.
	ErrUnknownHandle = errors.New("soc: unknown equation handle")

	// ErrSameHandle indicates Join was asked to glue an equation to itself.
	ErrSameHandle = errors.New("soc: join requires two distinct equations")

	// ErrAlreadyFixed indicates FixVariable was called twice for the same
	// variable with conflicting bits. Refixing to the same bit is a no-op.
	ErrAlreadyFixed = errors.New("soc: variable already fixed to the other bit")
)

// Handle names one equation within a SOC. Handles are stable for the
// lifetime of the equation: transforms in place never change a
// handle. A handle is retired when its equation leaves the SOC:
// consumed by Join (which consumes both operands), removed by Drop,
// or discarded by FixVariable or Absorb.
type Handle uint64

// SOC is a System of CRHS equations sharing one variable universe.
// It lives for a single solve and is not safe for concurrent use;
// independent solves run on independent SOCs.
type SOC struct {
	varWidth int
	next     Handle
	eqs      map[Handle]*crhs.Equation
	index    map[gf2.VarID]map[Handle]struct{}
	fixed    map[gf2.VarID]byte
	unsat    bool
}

// New returns an empty SOC over the variable universe [0, varWidth).
func New(varWidth int) *SOC {
	return &SOC{
		varWidth: varWidth,
		next:     1,
		eqs:      make(map[Handle]*crhs.Equation),
		index:    make(map[gf2.VarID]map[Handle]struct{}),
		fixed:    make(map[gf2.VarID]byte),
	}
}

// VarWidth reports the size of the shared variable universe.
func (s *SOC) VarWidth() int { return s.varWidth }

// Len reports the number of equations currently held.
func (s *SOC) Len() int { return len(s.eqs) }

// Unsat reports whether the conjunction has been found empty. Sticky:
// once set by any transform it never clears (unsatisfiability short-circuits).
func (s *SOC) Unsat() bool { return s.unsat }

// Equation returns the equation behind h, if h is live. The returned
// pointer is the SOC's own: callers inspect it but mutate only
// through the SOC's transform wrappers.
func (s *SOC) Equation(h Handle) (*crhs.Equation, bool) {
	eq, ok := s.eqs[h]
	return eq, ok
}

// Fixed returns a copy of the variable values fixed so far.
func (s *SOC) Fixed() map[gf2.VarID]byte {
	out := make(map[gf2.VarID]byte, len(s.fixed))
	for v, b := range s.fixed {
		out[v] = b
	}
	return out
}

package solver

import (
	"errors"

	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/soc"
)

// Sentinel errors for solver execution.
var (
	// ErrCancelled is returned when the caller's deadline fired between
	// steps. The SOC is left in a valid intermediate state: the original
	// relation intersected with every absorption completed so far.
	ErrCancelled = errors.New("solver: deadline reached")

	// ErrResourceExhausted is returned when the next join the strategy
	// wants would exceed the configured node budget and the strategy has
	// no lossy fallback. The caller recovers by re-solving under
	// DropLookahead or a larger budget; the SOC is still valid.
	ErrResourceExhausted = errors.New("solver: node budget exceeded")

	// ErrNilStrategy is returned when Solve is configured without a strategy.
	ErrNilStrategy = errors.New("solver: strategy is nil")

	// ErrUnknownStep is returned when a strategy emits a Step type the
	// solver does not recognize.
	ErrUnknownStep = errors.New("solver: unknown step type")
)

// Deadline reports whether the caller's time or work budget is spent.
// Solve consults it between primitive steps only, so a
// Deadline implementation may be as cheap or as stateful as it likes.
type Deadline func() bool

// Trace observes each step as it is applied. Installed with WithTrace;
// the solver stays decoupled from any logging library this way.
type Trace func(Step)

// Step is one primitive solver action. The closed set of
// implementations is JoinPair, Absorb, Swap, Fix, and Drop.
type Step interface{ isStep() }

// JoinPair glues equations H1 and H2 on a level both label Label.
type JoinPair struct {
	H1, H2 soc.Handle
	Label  gf2.Form
}

// Absorb applies the dependency D to equation H.
type Absorb struct {
	H soc.Handle
	D gf2.Form
}

// Swap exchanges levels I and I+1 of equation H.
type Swap struct {
	H soc.Handle
	I int
}

// Fix substitutes V := B throughout the SOC.
type Fix struct {
	V gf2.VarID
	B byte
}

// Drop discards equation H. Strategies emit it for trivially
// satisfied equations, and DropLookahead also for equations shed to
// stay within its node budget.
type Drop struct {
	H soc.Handle
}

func (JoinPair) isStep() {}
func (Absorb) isStep()   {}
func (Swap) isStep()     {}
func (Fix) isStep()      {}
func (Drop) isStep()     {}

// Strategy picks the next primitive step for a SOC, or reports that
// it is done (ok == false). Step must not mutate the SOC itself; all
// mutation happens when Solve applies the returned step.
type Strategy interface {
	Step(s *soc.SOC) (step Step, ok bool)
}

// Solution assigns a bit to every variable an equation (or a fixing)
// constrains. Variables absent from the map are unconstrained.
type Solution map[gf2.VarID]byte

// Result is the outcome of a solve.
type Result struct {
	// Unsat is true when the SOC's intersection is empty. This is a
	// normal result, not an error.
	Unsat bool

	// Partial is true when the deadline fired before the strategy
	// declared itself done, or when a join was refused for exceeding
	// the node budget; Solutions is then empty.
	Partial bool

	// Solutions enumerates the satisfying assignments, each including
	// every variable fixed during the solve. Bounded by the configured
	// solution limit.
	Solutions []Solution

	// Truncated is true when enumeration stopped at the solution limit.
	Truncated bool

	// Steps counts the primitive steps applied.
	Steps int
}

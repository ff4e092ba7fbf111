package solver

import "context"

// DefaultSolutionLimit bounds enumeration when the caller does not
// choose a limit. Affine solution spaces grow as powers of two, so an
// uncapped enumeration of an underconstrained SOC is rarely what a
// caller wants.
const DefaultSolutionLimit = 1024

// Config holds the solve parameters. Construct with NewConfig and the
// With... options.
type Config struct {
	// Strategy picks each step. Defaults to NoDrop.
	Strategy Strategy

	// Deadline, when non-nil, is checked between primitive steps.
	Deadline Deadline

	// Trace, when non-nil, observes each applied step.
	Trace Trace

	// Budget, when > 0, caps the projected node count of any join. A
	// join the strategy requests beyond it surfaces as
	// ErrResourceExhausted unless the strategy sheds work itself.
	Budget int

	// SolutionLimit caps the number of enumerated solutions.
	SolutionLimit int
}

// Option configures a solve via functional arguments.
type Option func(*Config)

// NewConfig returns a Config with defaults applied, then each option
// in order.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		Strategy:      NoDrop{},
		SolutionLimit: DefaultSolutionLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithStrategy selects the strategy. A nil strategy is ignored.
func WithStrategy(st Strategy) Option {
	return func(c *Config) {
		if st != nil {
			c.Strategy = st
		}
	}
}

// WithDeadline installs a deadline predicate. If one is already
// installed the two are combined: the deadline fires when either does.
func WithDeadline(d Deadline) Option {
	return func(c *Config) {
		if d == nil {
			return
		}
		if prev := c.Deadline; prev != nil {
			c.Deadline = func() bool { return prev() || d() }
			return
		}
		c.Deadline = d
	}
}

// WithContext derives a deadline from ctx's cancellation.
func WithContext(ctx context.Context) Option {
	if ctx == nil {
		return func(*Config) {}
	}
	return WithDeadline(func() bool { return ctx.Err() != nil })
}

// WithTrace installs a step observer.
func WithTrace(t Trace) Option {
	return func(c *Config) { c.Trace = t }
}

// WithBudget caps the projected node count of any join. Values <= 0
// disable the cap.
func WithBudget(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Budget = n
		}
	}
}

// WithSolutionLimit caps enumeration. Values <= 0 are ignored.
func WithSolutionLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SolutionLimit = n
		}
	}
}

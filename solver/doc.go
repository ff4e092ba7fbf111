// Package solver sequences the CRHS transform kernels over a SOC
// until it reaches a solved form, then enumerates the surviving
// solutions.
//
// A Strategy decides which primitive step to take next — join two
// equations sharing a label, absorb a discovered dependency, fix a
// forced variable, drop a trivially satisfied equation — and Solve
// applies the steps, checking the caller's deadline between steps
// only, never inside a node walk. Three strategies ship: NoDrop
// (lossless, may exhaust memory), DropLookahead (bounded by a node
// budget, sheds constraints when a join would blow past it), and
// BestEffort (wraps another strategy under a deadline).
package solver

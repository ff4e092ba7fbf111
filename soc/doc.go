// Package soc implements the System of CRHS equations: a collection
// of crhs.Equation values over one shared variable universe,
// representing the conjunction of each equation's relation.
//
// The SOC owns the cross-equation bookkeeping the kernels themselves
// stay ignorant of: stable equation handles, the inverted index from
// variable to the equations whose labels name it, the record of
// variables fixed so far, and the sticky unsatisfiability flag — once
// any one equation loses its last source-to-sink path, the whole
// conjunction is empty. Transforms on member equations go through the
// SOC's wrappers (Swap, Absorb, FixVariable, Join) so the index never drifts
// from the labels actually present.
package soc

// Package crhs implements the CRHS equation: a decision-diagram-like
// graph whose levels carry GF(2) linear forms and whose single
// accepting terminal is the sink implicit in every ToSink edge.
//
// An Equation owns an ordered sequence of *level.Level values plus a
// single source node above the first level. It exposes the three
// correctness-critical transforms — Fix, Swap, Absorb — plus terminal
// inspection (IsTrivial, IsUnsat, EnumeratePaths). Equations never
// share nodes or levels with one another; package soc composes many
// Equations and owns cross-equation operations (Join, variable
// fixing across the whole collection, dependency search).
package crhs

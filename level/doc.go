// Package level implements one depth of a CRHS equation: a set of
// nodes sharing a single linear-form label, each node with a 0-edge
// and a 1-edge that either lead to a node on the next level, lead
// straight to the sink, or dangle (no completion).
//
// Level enforces, on its own, the two structural invariants that do
// not require looking at a neighboring level: no two nodes share an
// identical edge pair (maximal sharing), and node indices stay stable
// across edits except where InsertNode/DropNode/Rebuild explicitly
// say otherwise. Package crhs composes Levels into equations and owns
// every invariant that spans more than one level.
package level

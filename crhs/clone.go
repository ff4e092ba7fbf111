package crhs

import "github.com/Simula-UiB/CRHS/level"

// Clone returns an independent deep copy of eq. Swap, Fix, and Absorb
// each clone the equation before mutating it and restore that snapshot
// if they return an error, so a failed transform leaves the equation
// as it was: all or nothing at the equation level.
func (eq *Equation) Clone() *Equation {
	out := &Equation{
		varWidth: eq.varWidth,
		source:   eq.source,
		levels:   make([]*level.Level, len(eq.levels)),
	}
	for i, lv := range eq.levels {
		out.levels[i] = lv.Clone()
	}
	return out
}

// restoreFrom overwrites eq's mutable fields with snapshot's, used to
// roll back a transform that failed part-way without handing callers a
// different *Equation pointer.
func (eq *Equation) restoreFrom(snapshot *Equation) {
	eq.source = snapshot.source
	eq.levels = snapshot.levels
}

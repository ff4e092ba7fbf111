// Package crhs (module github.com/Simula-UiB/CRHS) performs algebraic
// cryptanalysis of SPN ciphers and sponge hashes by encoding their
// round structure as a System of Compressed Right-Hand Side equations
// over GF(2) and solving it.
//
// What lives where:
//
//	gf2/       — dense linear forms over GF(2); XOR, RREF, reduction
//	level/     — one depth of a CRHS equation: a labeled node layer
//	crhs/      — the CRHS equation and its transform kernels:
//	             Swap, Fix, Absorb (linear absorption), Join
//	soc/       — the equation system: handles, the variable index,
//	             cross-equation fixing and dependency search
//	solver/    — strategies (NoDrop, DropLookahead, BestEffort) and
//	             the step loop that drives a SOC to solved form
//	producer/  — the cipher/sponge boundary: truth-table relations
//	             lifted to equations (present, skinny, keccaksponge)
//	bddfile/   — the .bdd persistence format
//
// A typical solve builds a SOC from a producer's round relations,
// applies the known fixings (plaintext, ciphertext, key guesses,
// hash targets), and runs the solver:
//
//	p := present.New(2)
//	s, _ := producer.BuildSOC(p)
//	_ = p.BaseFixings().Merge(p.FixKey(key)).Merge(p.FixPlaintext(pt)).Apply(s)
//	res, _ := solver.Solve(s)
//
// Everything is single-threaded within one solve; independent solves
// share no state and may run on separate goroutines.
package crhs

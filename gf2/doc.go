// Package gf2 provides dense linear-algebra primitives over GF(2):
// fixed-width linear forms (bit-vectors interpreted as an XOR of
// variables) and the row-reduction kernels the solver needs to find
// and eliminate linear dependencies among them.
//
// A Form never carries a constant term; a producer that needs one
// dedicates a variable id to an always-1 signal instead.
//
// All operations in this package are total: there is no invalid Form
// and no operation here returns an error.
package gf2

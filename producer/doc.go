// Package producer is the boundary between concrete ciphers or
// sponges and the CRHS core. A producer describes its round structure
// as truth-table relations over the shared variable universe; the
// core lifts each relation to one CRHS equation and never learns what
// cipher it came from.
//
// Known variable values — plaintext, ciphertext, key guesses, hash
// targets — arrive as a Fixings map; an unknown bit is simply absent
// from the map. MalformedInput-class errors (table width mismatches,
// out-of-range variables) are raised here at the boundary, never from
// the core algorithms.
package producer

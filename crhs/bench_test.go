package crhs

import (
	"testing"

	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
)

// benchChain builds a depth-n equation of two-node levels, labels
// v0..v(n-1), accepting exactly the all-equal assignments.
func benchChain(b *testing.B, n int) *Equation {
	b.Helper()
	levels := make([]*level.Level, n)
	var next0, next1 level.NodeRef
	for i := n - 1; i >= 1; i-- {
		lv, err := level.New(i, gf2.FormFromVars(n, gf2.VarID(i)))
		if err != nil {
			b.Fatal(err)
		}
		terminal := i == n-1
		if terminal {
			next0, next1 = level.SinkRef(), level.SinkRef()
		}
		a, err := lv.InsertNode(next0, level.DanglingRef(), terminal)
		if err != nil {
			b.Fatal(err)
		}
		c, err := lv.InsertNode(level.DanglingRef(), next1, terminal)
		if err != nil {
			b.Fatal(err)
		}
		next0, next1 = level.ToNextRef(a), level.ToNextRef(c)
		levels[i] = lv
	}
	// Level 0 keeps a single root so the source has one entry point.
	root, err := level.New(0, gf2.FormFromVars(n, 0))
	if err != nil {
		b.Fatal(err)
	}
	ri, err := root.InsertNode(next0, next1, false)
	if err != nil {
		b.Fatal(err)
	}
	levels[0] = root
	eq, err := NewEquation(n, levels, level.ToNextRef(ri))
	if err != nil {
		b.Fatal(err)
	}
	return eq
}

func BenchmarkSwap(b *testing.B) {
	eq := benchChain(b, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := eq.Swap(7); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEnumeratePaths(b *testing.B) {
	eq := benchChain(b, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eq.EnumeratePaths(4)
	}
}

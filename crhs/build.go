package crhs

import "github.com/Simula-UiB/CRHS/level"

// NewTrivialEquation builds the canonical trivial equation:
// one level with the zero-form label and a single node whose 1-edge
// dangles and 0-edge reaches the sink directly. It accepts every
// assignment unconditionally and is the identity element solver.Solve
// drops on sight.
func NewTrivialEquation(varWidth int) *Equation {
	lv := level.NewTrivialSink(varWidth)
	idx, err := lv.InsertNode(level.SinkRef(), level.DanglingRef(), true)
	if err != nil {
		panic("crhs: NewTrivialEquation: " + err.Error())
	}
	eq, err := NewEquation(varWidth, []*level.Level{lv}, level.ToNextRef(idx))
	if err != nil {
		panic("crhs: NewTrivialEquation: " + err.Error())
	}
	return eq
}

// NewUnsatEquation builds the canonical unsatisfiable equation: one
// level whose single node dangles on both edges. No source-to-sink
// path exists, so IsUnsat reports true.
func NewUnsatEquation(varWidth int) *Equation {
	lv := level.NewTrivialSink(varWidth)
	idx, err := lv.InsertNode(level.DanglingRef(), level.DanglingRef(), true)
	if err != nil {
		panic("crhs: NewUnsatEquation: " + err.Error())
	}
	eq, err := NewEquation(varWidth, []*level.Level{lv}, level.ToNextRef(idx))
	if err != nil {
		panic("crhs: NewUnsatEquation: " + err.Error())
	}
	return eq
}

package soc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simula-UiB/CRHS/crhs"
	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
)

// equalityChain builds a 2-level equation over a width-variable
// universe representing top == bottom, the workhorse shape of these
// tests.
func equalityChain(t *testing.T, width int, top, bottom gf2.VarID) *crhs.Equation {
	t.Helper()
	lv1, err := level.New(1, gf2.FormFromVars(width, bottom))
	require.NoError(t, err)
	a, err := lv1.InsertNode(level.SinkRef(), level.DanglingRef(), true)
	require.NoError(t, err)
	b, err := lv1.InsertNode(level.DanglingRef(), level.SinkRef(), true)
	require.NoError(t, err)

	lv0, err := level.New(0, gf2.FormFromVars(width, top))
	require.NoError(t, err)
	root, err := lv0.InsertNode(level.ToNextRef(a), level.ToNextRef(b), false)
	require.NoError(t, err)

	eq, err := crhs.NewEquation(width, []*level.Level{lv0, lv1}, level.ToNextRef(root))
	require.NoError(t, err)
	return eq
}

func TestInsert_UpdatesIndex(t *testing.T) {
	s := New(3)
	h, err := s.Insert(equalityChain(t, 3, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, []Handle{h}, s.EquationsWith(0))
	assert.Equal(t, []Handle{h}, s.EquationsWith(1))
	assert.Empty(t, s.EquationsWith(2))
}

func TestInsert_RejectsNilAndWrongWidth(t *testing.T) {
	s := New(3)
	_, err := s.Insert(nil)
	assert.ErrorIs(t, err, ErrNilEquation)

	_, err = s.Insert(equalityChain(t, 2, 0, 1))
	assert.ErrorIs(t, err, ErrWidthMismatch)
}

func TestDrop_RemovesIndexEntries(t *testing.T) {
	s := New(3)
	h1, err := s.Insert(equalityChain(t, 3, 0, 1))
	require.NoError(t, err)
	h2, err := s.Insert(equalityChain(t, 3, 1, 2))
	require.NoError(t, err)

	require.NoError(t, s.Drop(h1))
	assert.Empty(t, s.EquationsWith(0))
	assert.Equal(t, []Handle{h2}, s.EquationsWith(1))
	assert.ErrorIs(t, s.Drop(h1), ErrUnknownHandle)
}

func TestFixVariable_PropagatesAndRecords(t *testing.T) {
	s := New(3)
	h1, err := s.Insert(equalityChain(t, 3, 0, 1)) // v0 == v1
	require.NoError(t, err)
	_, err = s.Insert(equalityChain(t, 3, 1, 2)) // v1 == v2
	require.NoError(t, err)

	dropped, err := s.FixVariable(0, 1)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, map[gf2.VarID]byte{0: 1}, s.Fixed())

	// h1 collapsed to a single level labeled {v1}; the index must no
	// longer list v0 anywhere.
	assert.Empty(t, s.EquationsWith(0))
	eq1, ok := s.Equation(h1)
	require.True(t, ok)
	assert.Equal(t, 1, eq1.LevelCount())
	assert.Equal(t, gf2.FormFromVars(3, 1), eq1.Level(0).Label())
}

func TestFixVariable_DropsCollapsedTrivial(t *testing.T) {
	s := New(2)
	h, err := s.Insert(equalityChain(t, 2, 0, 1))
	require.NoError(t, err)

	_, err = s.FixVariable(0, 0)
	require.NoError(t, err)
	dropped, err := s.FixVariable(1, 0)
	require.NoError(t, err)

	assert.Equal(t, []Handle{h}, dropped)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Unsat())
}

func TestFixVariable_ContradictionGoesUnsat(t *testing.T) {
	s := New(2)
	_, err := s.Insert(equalityChain(t, 2, 0, 1)) // v0 == v1
	require.NoError(t, err)

	_, err = s.FixVariable(0, 0)
	require.NoError(t, err)
	_, err = s.FixVariable(1, 1)
	require.NoError(t, err)
	assert.True(t, s.Unsat())
}

func TestFixVariable_RefixRules(t *testing.T) {
	s := New(2)
	_, err := s.FixVariable(0, 1)
	require.NoError(t, err)

	_, err = s.FixVariable(0, 1)
	assert.NoError(t, err)
	_, err = s.FixVariable(0, 0)
	assert.ErrorIs(t, err, ErrAlreadyFixed)
}

func TestJoin_RetiresOperandsAndIndexesResult(t *testing.T) {
	s := New(3)
	h1, err := s.Insert(equalityChain(t, 3, 0, 1))
	require.NoError(t, err)
	h2, err := s.Insert(equalityChain(t, 3, 1, 2))
	require.NoError(t, err)

	h3, err := s.Join(h1, h2, gf2.FormFromVars(3, 1))
	require.NoError(t, err)

	_, ok := s.Equation(h1)
	assert.False(t, ok)
	_, ok = s.Equation(h2)
	assert.False(t, ok)
	assert.Equal(t, []Handle{h3}, s.EquationsWith(0))
	assert.Equal(t, []Handle{h3}, s.EquationsWith(1))
	assert.Equal(t, []Handle{h3}, s.EquationsWith(2))

	eq, ok := s.Equation(h3)
	require.True(t, ok)
	paths, _ := eq.EnumeratePaths(0)
	assert.Len(t, paths, 2)
}

func TestJoin_RejectsSelfAndUnknown(t *testing.T) {
	s := New(3)
	h, err := s.Insert(equalityChain(t, 3, 0, 1))
	require.NoError(t, err)

	_, err = s.Join(h, h, gf2.FormFromVars(3, 1))
	assert.ErrorIs(t, err, ErrSameHandle)
	_, err = s.Join(h, Handle(99), gf2.FormFromVars(3, 1))
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestFindDependency_AfterJoin(t *testing.T) {
	s := New(2)
	h1, err := s.Insert(equalityChain(t, 2, 0, 1))
	require.NoError(t, err)
	h2, err := s.Insert(equalityChain(t, 2, 1, 0))
	require.NoError(t, err)

	_, ok := s.FindDependency(h1)
	assert.False(t, ok)

	h3, err := s.Join(h1, h2, gf2.FormFromVars(2, 1))
	require.NoError(t, err)

	d, ok := s.FindDependency(h3)
	require.True(t, ok)
	assert.True(t, d.IsZero())

	require.NoError(t, s.Absorb(h3, d))
	_, ok = s.FindDependency(h3)
	assert.False(t, ok)
}

func TestSharedLabelPair(t *testing.T) {
	s := New(4)
	h1, err := s.Insert(equalityChain(t, 4, 0, 1))
	require.NoError(t, err)
	_, err = s.Insert(equalityChain(t, 4, 2, 3))
	require.NoError(t, err)

	_, _, _, ok := s.SharedLabelPair()
	assert.False(t, ok)

	h3, err := s.Insert(equalityChain(t, 4, 1, 2))
	require.NoError(t, err)

	a, b, label, ok := s.SharedLabelPair()
	require.True(t, ok)
	assert.Equal(t, h1, a)
	assert.Equal(t, h3, b)
	assert.Equal(t, gf2.FormFromVars(4, 1), label)
}

func TestAbsorb_KeepsNonTrivialResult(t *testing.T) {
	// A single level labeled {v0} duplicated: joining the chain v0==v1
	// with v1==v0 leaves v0==v1 information spread over three levels;
	// absorbing the duplicate-label dependency keeps the
	// equation non-trivial, so it must still be present.
	s := New(2)
	h1, err := s.Insert(equalityChain(t, 2, 0, 1))
	require.NoError(t, err)
	h2, err := s.Insert(equalityChain(t, 2, 1, 0))
	require.NoError(t, err)
	h3, err := s.Join(h1, h2, gf2.FormFromVars(2, 1))
	require.NoError(t, err)

	require.NoError(t, s.Absorb(h3, gf2.NewForm(2)))
	_, ok := s.Equation(h3)
	assert.True(t, ok)
	assert.False(t, s.Unsat())
}

func TestUnsat_IsSticky(t *testing.T) {
	s := New(1)
	_, err := s.Insert(crhs.NewUnsatEquation(1))
	require.NoError(t, err)
	assert.True(t, s.Unsat())
}

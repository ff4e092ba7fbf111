package crhs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simula-UiB/CRHS/gf2"
	"github.com/Simula-UiB/CRHS/level"
)

// buildEqualityChain builds a 2-level equation over a width-variable
// universe, levels labeled {top} and {bottom}, representing the
// constraint top == bottom.
func buildEqualityChain(t *testing.T, width int, top, bottom gf2.VarID) *Equation {
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

	eq, err := NewEquation(width, []*level.Level{lv0, lv1}, level.ToNextRef(root))
	require.NoError(t, err)
	return eq
}

func TestJoin_ChainsEqualityConstraints(t *testing.T) {
	a := buildEqualityChain(t, 3, 0, 1) // v0 == v1
	b := buildEqualityChain(t, 3, 1, 2) // v1 == v2

	joined, err := Join(a, b, gf2.FormFromVars(3, 1))
	require.NoError(t, err)

	// Levels from a above the shared level, the merged shared level,
	// levels from b below: {v0}, {v1}, {v2}.
	require.Equal(t, 3, joined.LevelCount())
	assert.Equal(t, gf2.FormFromVars(3, 0), joined.Level(0).Label())
	assert.Equal(t, gf2.FormFromVars(3, 1), joined.Level(1).Label())
	assert.Equal(t, gf2.FormFromVars(3, 2), joined.Level(2).Label())

	paths, truncated := joined.EnumeratePaths(0)
	assert.False(t, truncated)
	require.Len(t, paths, 2)
	var bits [][]byte
	for _, p := range paths {
		bits = append(bits, p.Bits)
	}
	assert.Contains(t, bits, []byte{0, 0, 0})
	assert.Contains(t, bits, []byte{1, 1, 1})
}

func TestJoin_DoesNotMutateOperands(t *testing.T) {
	a := buildEqualityChain(t, 3, 0, 1)
	b := buildEqualityChain(t, 3, 1, 2)

	_, err := Join(a, b, gf2.FormFromVars(3, 1))
	require.NoError(t, err)

	pathsA, _ := a.EnumeratePaths(0)
	pathsB, _ := b.EnumeratePaths(0)
	assert.Len(t, pathsA, 2)
	assert.Len(t, pathsB, 2)
	assert.Equal(t, gf2.FormFromVars(3, 0), a.Level(0).Label())
	assert.Equal(t, gf2.FormFromVars(3, 1), b.Level(0).Label())
}

func TestJoin_ThenAbsorbDuplicateLabel(t *testing.T) {
	// Two depth-2 equations sharing {v1}; the join leaves the result
	// with two levels both labeled {v0}, i.e. the internal dependency
	// label0 + label2 == 0 that absorption then enforces.
	a := buildEqualityChain(t, 2, 0, 1) // v0 == v1
	b := buildEqualityChain(t, 2, 1, 0) // v1 == v0

	joined, err := Join(a, b, gf2.FormFromVars(2, 1))
	require.NoError(t, err)
	require.Equal(t, 3, joined.LevelCount())
	assert.Equal(t, joined.Level(0).Label(), joined.Level(2).Label())

	require.NoError(t, joined.Absorb(gf2.NewForm(2)))

	// Absorption contracts the dependent duplicate level, leaving the
	// plain v0 == v1 chain with exactly two accepting paths.
	require.Equal(t, 2, joined.LevelCount())
	paths, _ := joined.EnumeratePaths(0)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, p.Bits[0], p.Bits[1])
	}
}

func TestJoin_SharedLevelNotAtBoundary(t *testing.T) {
	// The shared label sits on top of a and at the bottom of b, so
	// both operands need swaps before the glue.
	a := buildEqualityChain(t, 3, 1, 0) // shared {v1} at position 0
	b := buildEqualityChain(t, 3, 2, 1) // shared {v1} at position 1

	joined, err := Join(a, b, gf2.FormFromVars(3, 1))
	require.NoError(t, err)
	require.Equal(t, 3, joined.LevelCount())

	paths, _ := joined.EnumeratePaths(0)
	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, p.Bits[0], p.Bits[1])
		assert.Equal(t, p.Bits[1], p.Bits[2])
	}
}

func TestJoin_RejectsMissingSharedLabel(t *testing.T) {
	a := buildEqualityChain(t, 3, 0, 1)
	b := buildEqualityChain(t, 3, 1, 2)

	_, err := Join(a, b, gf2.FormFromVars(3, 0))
	assert.ErrorIs(t, err, ErrNoSharedLabel)
}

func TestJoin_RejectsWidthMismatch(t *testing.T) {
	a := buildEqualityChain(t, 2, 0, 1)
	b := buildEqualityChain(t, 3, 1, 2)

	_, err := Join(a, b, gf2.FormFromVars(2, 1))
	assert.ErrorIs(t, err, ErrWidthMismatch)
}

func TestJoin_UnsatOperandYieldsUnsat(t *testing.T) {
	a := buildEqualityChain(t, 2, 0, 1)
	b := buildEqualityChain(t, 2, 1, 0)
	require.NoError(t, b.Fix(gf2.VarID(0), 0))
	require.NoError(t, b.Fix(gf2.VarID(1), 1)) // v1 == v0 with v0=0, v1=1: unsat

	require.True(t, b.IsUnsat())
	joined, err := Join(a, b, gf2.FormFromVars(2, 1))
	require.NoError(t, err)
	assert.True(t, joined.IsUnsat())
}

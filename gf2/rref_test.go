package gf2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRREF_FindsDependency(t *testing.T) {
	// rows: x0+x1, x1+x2, x0+x2 -- the third is the XOR of the first two (a dependency).
	rows := []Form{
		FormFromVars(3, 0, 1),
		FormFromVars(3, 1, 2),
		FormFromVars(3, 0, 2),
	}

	res := RREF(rows)

	// Exactly two independent pivots should survive; the dependent row reduces to zero and is dropped.
	require.Len(t, res.Rows, 2)
	assert.ElementsMatch(t, []int{0, 1}, res.Pivots)

	// Reconstruct each echelon row from its recorded combination and confirm it matches.
	for i, row := range res.Rows {
		var recon Form
		first := true
		for j := 0; j < len(rows); j++ {
			if res.Combo[i].Bit(VarID(j)) == 1 {
				if first {
					recon = rows[j].Clone()
					first = false
				} else {
					recon = Add(recon, rows[j])
				}
			}
		}
		assert.True(t, recon.Equal(row))
	}
}

func TestRREF_EmptyInput(t *testing.T) {
	res := RREF(nil)
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Pivots)
}

func TestReduce_EliminatesPivotColumns(t *testing.T) {
	basis := RREF([]Form{
		FormFromVars(4, 0, 1),
		FormFromVars(4, 1, 2),
	}).Rows

	a := FormFromVars(4, 0, 2, 3)
	reduced, combo := Reduce(a, basis)

	// No pivot column of basis should remain set.
	for _, row := range basis {
		pivot := firstSetBit(row)
		require.GreaterOrEqual(t, pivot, 0)
		assert.Equal(t, byte(0), reduced.Bit(VarID(pivot)))
	}
	assert.Equal(t, 2, combo.Width())
}

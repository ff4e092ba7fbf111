package gf2

// RREFResult is the output of reducing a matrix of labels to reduced
// row-echelon form over GF(2).
//
// Rows holds the echelon rows in increasing pivot-column order; rows
// that reduced to zero are dropped from Rows and surface instead in
// Dependencies. Pivots[i] is the pivot column of Rows[i]. Combo[i]
// names, as a Form over width len(input), which input rows XOR
// together to produce Rows[i]. Dependencies names, the same way, the
// non-trivial input combinations that XOR to the zero form — these
// are exactly the dependencies SOC.FindDependency looks for.
type RREFResult struct {
	Rows         []Form
	Pivots       []int
	Combo        []Form
	Dependencies []Form
}

// RREF reduces rows to reduced row-echelon form. rows must all share
// the same width; the width of a label is the variable universe size,
// not the row count.
//
// Complexity: O(n^2 * width/64) for n = len(rows).
func RREF(rows []Form) RREFResult {
	n := len(rows)
	work := make([]Form, n)
	combo := make([]Form, n)
	for i, r := range rows {
		work[i] = r.Clone()
		combo[i] = FormFromVars(n, VarID(i))
	}

	var result RREFResult
	pivotRow := 0
	width := 0
	if n > 0 {
		width = rows[0].width
	}
	for col := 0; col < width && pivotRow < n; col++ {
		// find a row at or below pivotRow with this column set
		sel := -1
		for i := pivotRow; i < n; i++ {
			if work[i].Bit(VarID(col)) == 1 {
				sel = i
				break
			}
		}
		if sel == -1 {
			continue
		}
		work[pivotRow], work[sel] = work[sel], work[pivotRow]
		combo[pivotRow], combo[sel] = combo[sel], combo[pivotRow]

		for i := 0; i < n; i++ {
			if i == pivotRow {
				continue
			}
			if work[i].Bit(VarID(col)) == 1 {
				work[i] = Add(work[i], work[pivotRow])
				combo[i] = Add(combo[i], combo[pivotRow])
			}
		}
		result.Rows = append(result.Rows, work[pivotRow])
		result.Pivots = append(result.Pivots, col)
		result.Combo = append(result.Combo, combo[pivotRow])
		pivotRow++
	}
	for i := pivotRow; i < n; i++ {
		if combo[i].IsZero() {
			continue
		}
		result.Dependencies = append(result.Dependencies, combo[i])
	}
	return result
}

// Reduce returns a plus XORs of basis rows such that no pivot column
// of basis remains set in the result, along with the combination of
// basis rows used (a Form over width len(basis), bit j set meaning
// basis[j] was XORed in).
//
// basis is expected to already be in reduced row-echelon form (as
// returned by RREF); Reduce does not re-derive pivots itself, it walks
// basis in order and eliminates the first set bit it finds in each row.
//
// Complexity: O(len(basis) * width/64).
func Reduce(a Form, basis []Form) (reduced Form, combo Form) {
	reduced = a.Clone()
	combo = NewForm(len(basis))
	for j, row := range basis {
		pivot := firstSetBit(row)
		if pivot < 0 {
			continue
		}
		if reduced.Bit(VarID(pivot)) == 1 {
			reduced = Add(reduced, row)
			combo.Set(VarID(j))
		}
	}
	return reduced, combo
}

func firstSetBit(f Form) int {
	for i := 0; i < f.width; i++ {
		if f.Bit(VarID(i)) == 1 {
			return i
		}
	}
	return -1
}

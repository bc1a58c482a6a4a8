package simplex

import (
	"math"
)

// FindPivot selects the next pivot element.
//
// The entering column is the one with the most negative objective row
// coefficient, the lowest column winning ties; once multiple optima were
// detected the alternate column is used instead. The leaving row is the one
// with the smallest strictly positive, finite ratio rhs[i]/matrix[i][col],
// the topmost winning ties.
//
// The bool result is false when no coefficient of the objective row is
// negative, i.e. the tableau is optimal. ErrUnbounded is returned when every
// ratio is negative, infinite or NaN, and ErrNoLeavingRow when ratios exist
// but none is strictly positive.
func (t *Tableau) FindPivot() (Pivot, bool, error) {
	if !t.standard {
		return Pivot{}, false, ErrNotStandard
	}

	col, ok := t.enteringColumn()
	if t.multiple {
		col, ok = t.alternate, true
	}
	if !ok {
		t.hasRatio = false
		return Pivot{}, false, nil
	}

	row, err := t.leavingRow(col)
	return Pivot{Row: row, Col: col}, true, err
}

func (t *Tableau) enteringColumn() (int, bool) {
	tol := t.opts.tol
	col := 0
	best := chop(t.matrix.At(0, 0), tol)
	for j := 1; j < t.columns; j++ {
		if v := chop(t.matrix.At(0, j), tol); v < best {
			best = v
			col = j
		}
	}
	return col, best < 0
}

// leavingRow runs the ratio test on col, refreshing the ratio column.
func (t *Tableau) leavingRow(col int) (int, error) {
	row, excluded := 0, 0
	best := math.Inf(1)
	for i := 1; i <= t.m; i++ {
		a := t.matrix.At(i, col)
		r := t.rhs[i] / a
		t.ratio[i] = r
		switch {
		// a zero rhs over a negative entry does not limit the entering variable
		case math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || (r == 0 && a < 0):
			excluded++
		case r > 0 && r < best:
			best = r
			row = i
		}
	}
	t.hasRatio = true

	if excluded == t.m {
		return 0, ErrUnbounded
	}
	if row == 0 {
		return 0, ErrNoLeavingRow
	}
	return row, nil
}

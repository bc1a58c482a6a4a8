package simplex

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Pivot makes the variable of p.Col basic in row p.Row: it records the basis
// change and then performs one Gauss-Jordan elimination step so that column
// p.Col becomes the identity column of row p.Row. ErrInfeasible is returned
// when the step drives a right-hand side below -tol; the tableau is then no
// longer a basic feasible solution and must not be optimized further.
func (t *Tableau) Pivot(p Pivot) error {
	if !t.standard {
		return ErrNotStandard
	}
	if p.Row < 1 || p.Row > t.m || p.Col < 0 || p.Col >= t.columns {
		return fmt.Errorf("%w: (%d, %d)", ErrBadPivot, p.Row, p.Col)
	}
	if math.Abs(t.matrix.At(p.Row, p.Col)) < t.opts.tol {
		return fmt.Errorf("%w: (%d, %d) = %v", ErrSingularPivot, p.Row, p.Col, t.matrix.At(p.Row, p.Col))
	}

	t.swapBasic(p)
	t.rowOperation(p)
	t.iterations++

	// a degenerate row skipped by the ratio test goes negative here
	for i := 1; i <= t.m; i++ {
		if t.rhs[i] < -t.opts.tol {
			return fmt.Errorf("%w: row %d = %v after pivot (%d, %d)", ErrInfeasible, i, t.rhs[i], p.Row, p.Col)
		}
	}
	return nil
}

func (t *Tableau) swapBasic(p Pivot) {
	t.basic[p.Row] = p.Col + 1
}

func (t *Tableau) rowOperation(p Pivot) {
	pivotRow := t.matrix.RawRowView(p.Row)[:t.columns]
	pivotVal := pivotRow[p.Col]
	for j := range pivotRow {
		pivotRow[j] /= pivotVal
	}
	t.rhs[p.Row] /= pivotVal

	for i := 0; i <= t.m; i++ {
		if i == p.Row {
			continue
		}
		mult := t.matrix.At(i, p.Col)
		if mult == 0 {
			continue
		}
		floats.AddScaled(t.matrix.RawRowView(i)[:t.columns], -mult, pivotRow)
		t.rhs[i] -= mult * t.rhs[p.Row]
		// the entering column is exactly an identity column
		t.matrix.Set(i, p.Col, 0)
	}
}

package simplex

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Opticity/simplex-calc/model"
)

// Certificate is a basic solution recomputed from the original problem with
// the revised simplex formulas over the augmented columns [A | I]:
// x_B = B^-1 b, y = c_B B^-1 and d_j = c_j - y A_j.
type Certificate struct {
	// Values holds all n decision and m slack variables.
	Values []float64
	// Duals holds one shadow price per constraint.
	Duals []float64
	// ReducedCosts holds d_j for every augmented column.
	ReducedCosts []float64
	Objective    float64
}

// Certify checks that basic, the 1-based variable basic in each constraint
// row as reported in Solution.Basic, is a feasible and optimal basis of mod
// within tol.
func Certify(mod *model.Model, basic []int, tol float64) (*Certificate, error) {
	m, n := mod.NumRows, mod.NumCols
	if len(basic) != m {
		return nil, fmt.Errorf("%w: %d basic variables for %d constraints", ErrDimension, len(basic), m)
	}

	column := func(j int) []float64 {
		if j < n {
			return mat.Col(nil, j, mod.A)
		}
		e := make([]float64, m)
		e[j-n] = 1
		return e
	}
	cost := func(j int) float64 {
		if j < n {
			return mod.C.At(0, j)
		}
		return 0
	}

	basis := mat.NewDense(m, m, nil)
	cb := make([]float64, m)
	for r, v := range basic {
		if v < 1 || v > n+m {
			return nil, fmt.Errorf("%w: basic variable x%d out of range", ErrDimension, v)
		}
		basis.SetCol(r, column(v-1))
		cb[r] = cost(v - 1)
	}

	var inverse mat.Dense
	if err := inverse.Inverse(basis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularBasis, err)
	}

	// x_B = B^-1 b
	var xb mat.Dense
	xb.Mul(&inverse, mod.B)
	cert := &Certificate{
		Values:       make([]float64, n+m),
		Duals:        make([]float64, m),
		ReducedCosts: make([]float64, n+m),
	}
	for r, v := range basic {
		x := chop(xb.At(r, 0), tol)
		if x < 0 {
			return nil, fmt.Errorf("%w: x%d = %v is infeasible", ErrNotOptimal, v, x)
		}
		cert.Values[v-1] = x
	}
	cert.Objective = floats.Dot(cb, mat.Col(nil, 0, &xb))

	// y = c_B B^-1
	var dual mat.Dense
	dual.Mul(mat.NewDense(1, m, cb), &inverse)
	for i, y := range dual.RawRowView(0) {
		cert.Duals[i] = chop(y, tol)
	}

	sign := 1.0
	if mod.Sense == model.Minimize {
		sign = -1
	}
	for j := range n + m {
		d := chop(cost(j)-mat.Dot(dual.RowView(0), mat.NewVecDense(m, column(j))), tol)
		cert.ReducedCosts[j] = d
		if sign*d > 0 {
			return nil, fmt.Errorf("%w: x%d has reduced cost %v", ErrNotOptimal, j+1, d)
		}
	}

	return cert, nil
}

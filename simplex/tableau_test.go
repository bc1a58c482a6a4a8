package simplex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Opticity/simplex-calc/model"
)

const delta = 1e-9

func load(t *testing.T, matrix [][]float64, rhs []float64, minimize bool, opts ...Option) *Tableau {
	t.Helper()
	tab, err := New(len(matrix)-1, len(matrix[0]), minimize, opts...)
	require.NoError(t, err)
	require.NoError(t, tab.LoadProblem(matrix, rhs))
	return tab
}

func textbook(t *testing.T, opts ...Option) *Tableau {
	return load(t, [][]float64{
		{3, 2},
		{2, 1},
		{2, 3},
		{3, 1},
	}, []float64{0, 18, 42, 24}, false, opts...)
}

func TestNew(t *testing.T) {
	for name, tc := range map[string]struct {
		m, n int
		opts []Option
	}{
		"no constraints":  {0, 2, nil},
		"no variables":    {2, 0, nil},
		"negative":        {-1, 2, nil},
		"above capacity":  {201, 2, nil},
		"above max":       {3, 4, []Option{WithMaxDimension(3)}},
		"variables above": {2, 300, nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(tc.m, tc.n, false, tc.opts...)
			assert.ErrorIs(t, err, ErrDimension)
		})
	}

	tab, err := New(500, 500, false, WithMaxDimension(0))
	require.NoError(t, err)
	m, n := tab.Dims()
	assert.Equal(t, 500, m)
	assert.Equal(t, 500, n)
}

func TestWithTolerancePanics(t *testing.T) {
	assert.Panics(t, func() { WithTolerance(-1) })
}

func TestLoadProblemErrors(t *testing.T) {
	tab, err := New(2, 2, false)
	require.NoError(t, err)

	err = tab.LoadProblem([][]float64{{1, 1}, {1, math.NaN()}, {1, 1}}, []float64{0, 1, 1})
	assert.ErrorIs(t, err, model.ErrNaNInf)

	err = tab.LoadProblem([][]float64{{1, 1}, {1, 1}, {1, 1}}, []float64{0, 1, -1})
	assert.ErrorIs(t, err, model.ErrInfeasibleBasis)

	err = tab.LoadProblem([][]float64{{1, 1}, {1, 1}}, []float64{0, 1})
	assert.ErrorIs(t, err, ErrDimension)

	err = tab.LoadProblem([][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}, {1, 1, 1}}, []float64{0, 1, 1, 1})
	assert.ErrorIs(t, err, ErrDimension)

	err = tab.LoadProblem([][]float64{{1, 1}, {1, 1}}, []float64{0, 1, 1})
	assert.ErrorIs(t, err, model.ErrShape)

	mod, err := model.FromTableau([][]float64{{1, 1}, {1, 1}, {1, 1}}, []float64{0, 1, 1}, model.Minimize)
	require.NoError(t, err)
	assert.ErrorIs(t, tab.Load(mod), ErrSense)

	assert.ErrorIs(t, tab.Standardize(), ErrNotLoaded)
}

func TestLoadProblemTrailingColumn(t *testing.T) {
	tab := load(t, [][]float64{
		{5, 3, 1, 0},
		{1, 1, 1, 0},
		{5, 3, 6, 0},
	}, []float64{0, 6, 15}, false)
	m, n := tab.Dims()
	assert.Equal(t, 2, m)
	assert.Equal(t, 3, n)
}

func TestStandardizeMaximize(t *testing.T) {
	tab := textbook(t)
	require.NoError(t, tab.Standardize())

	want := mat.NewDense(4, 5, []float64{
		-3, -2, 0, 0, 0,
		2, 1, 1, 0, 0,
		2, 3, 0, 1, 0,
		3, 1, 0, 0, 1,
	})
	assert.True(t, mat.Equal(want, tab.Matrix()))
	assert.Equal(t, []float64{0, 18, 42, 24}, tab.RHS())
	assert.Equal(t, []int{0, 3, 4, 5}, tab.Basic())
	assertIdentityBasis(t, tab)

	assert.ErrorIs(t, tab.Standardize(), ErrStandardized)
	assert.ErrorIs(t, tab.LoadProblem([][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}, []float64{0, 1, 1, 1}), ErrStandardized)

	events := tab.Events()
	require.Len(t, events, 1)
	sf, ok := events[0].(StandardForm)
	require.True(t, ok)
	assert.True(t, mat.Equal(want, sf.Matrix.Slice(0, 4, 0, 5)))
}

func TestStandardizeMinimize(t *testing.T) {
	tab := load(t, [][]float64{
		{2, 1},
		{-1, 1},
		{1, -2},
	}, []float64{0, 1, 2}, true)
	require.NoError(t, tab.Standardize())

	// a minimization keeps the objective row as given
	assert.Equal(t, []float64{2, 1, 0, 0}, tab.Matrix().RawRowView(0))
	assert.Equal(t, []int{0, 3, 4}, tab.Basic())
}

func TestFindPivot(t *testing.T) {
	tab := textbook(t)
	_, _, err := tab.FindPivot()
	assert.ErrorIs(t, err, ErrNotStandard)

	require.NoError(t, tab.Standardize())
	p, ok, err := tab.FindPivot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Pivot{Row: 3, Col: 0}, p)
	assert.Equal(t, []float64{0, 9, 21, 8}, tab.ratio)
}

func TestFindPivotTies(t *testing.T) {
	// x1 and x2 tie on the objective row, rows 1 and 2 tie on the ratio
	tab := load(t, [][]float64{
		{1, 1},
		{1, 1},
		{2, 1},
		{4, 1},
	}, []float64{0, 4, 8, 20}, false)
	require.NoError(t, tab.Standardize())

	p, ok, err := tab.FindPivot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Pivot{Row: 1, Col: 0}, p)
}

func TestFindPivotNegativeZero(t *testing.T) {
	tab := load(t, [][]float64{
		{0, 1},
		{1, 1},
	}, []float64{0, 4}, false)
	require.NoError(t, tab.Standardize())
	// objective row is {-0, -1, 0}
	assert.True(t, math.Signbit(tab.matrix.At(0, 0)))

	p, ok, err := tab.FindPivot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, p.Col)
}

func TestFindPivotUnbounded(t *testing.T) {
	tab := load(t, [][]float64{
		{1, 1},
		{-1, 1},
	}, []float64{0, 1}, false)
	require.NoError(t, tab.Standardize())

	_, ok, err := tab.FindPivot()
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrUnbounded)
}

func TestFindPivotUnboundedZeroRHS(t *testing.T) {
	// 0 / -1 is -0, which excludes the row like any negative ratio
	tab := load(t, [][]float64{
		{1, 0},
		{-1, 0},
	}, []float64{0, 0}, false)
	require.NoError(t, tab.Standardize())

	_, ok, err := tab.FindPivot()
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrUnbounded)
}

func TestFindPivotNoLeavingRow(t *testing.T) {
	// a zero rhs gives a zero ratio, which is not strictly positive
	tab := load(t, [][]float64{
		{1, 1},
		{1, 1},
	}, []float64{0, 0}, false)
	require.NoError(t, tab.Standardize())

	_, ok, err := tab.FindPivot()
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrNoLeavingRow)

	_, err = tab.Optimize()
	assert.ErrorIs(t, err, ErrNoLeavingRow)
}

func TestFindPivotOptimal(t *testing.T) {
	tab := load(t, [][]float64{
		{2, 1},
		{1, 1},
	}, []float64{0, 3}, true)
	require.NoError(t, tab.Standardize())

	_, ok, err := tab.FindPivot()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, tab.hasRatio)
}

func TestPivotErrors(t *testing.T) {
	tab := textbook(t)
	assert.ErrorIs(t, tab.Pivot(Pivot{Row: 1, Col: 0}), ErrNotStandard)

	require.NoError(t, tab.Standardize())
	assert.ErrorIs(t, tab.Pivot(Pivot{Row: 0, Col: 0}), ErrBadPivot)
	assert.ErrorIs(t, tab.Pivot(Pivot{Row: 4, Col: 0}), ErrBadPivot)
	assert.ErrorIs(t, tab.Pivot(Pivot{Row: 1, Col: 5}), ErrBadPivot)
	// x4 is the slack of row 2, it is zero in row 1
	assert.ErrorIs(t, tab.Pivot(Pivot{Row: 1, Col: 3}), ErrSingularPivot)
	assert.Equal(t, 0, tab.Iterations())
}

func TestPivotRowOperation(t *testing.T) {
	tab := textbook(t)
	require.NoError(t, tab.Standardize())
	require.NoError(t, tab.Pivot(Pivot{Row: 3, Col: 0}))

	third := 1.0 / 3
	want := mat.NewDense(4, 5, []float64{
		0, -1, 0, 0, 1,
		0, third, 1, 0, -2 * third,
		0, 7 * third, 0, 1, -2 * third,
		1, third, 0, 0, third,
	})
	assert.True(t, mat.EqualApprox(want, tab.Matrix(), delta))
	assert.InDeltaSlice(t, []float64{24, 2, 26, 8}, tab.RHS(), delta)
	assert.Equal(t, []int{0, 3, 4, 1}, tab.Basic())
	assert.Equal(t, 1, tab.Iterations())
}

// TestPivotInvariants drives problems by hand and checks the basis
// invariants after every pivot.
func TestPivotInvariants(t *testing.T) {
	for name, tc := range map[string]struct {
		matrix     [][]float64
		rhs        []float64
		iterations int
		basic      []int
	}{
		"textbook": {
			matrix:     [][]float64{{3, 2}, {2, 1}, {2, 3}, {3, 1}},
			rhs:        []float64{0, 18, 42, 24},
			iterations: 3,
			basic:      []int{0, 2, 5, 1},
		},
		// the second pivot ties rows 2 and 3 and leaves row 3 at rhs 0
		"degenerate": {
			matrix:     [][]float64{{1, 1}, {1, 0}, {0, 1}, {1, 1}},
			rhs:        []float64{0, 2, 3, 5},
			iterations: 2,
			basic:      []int{0, 1, 2, 5},
		},
	} {
		t.Run(name, func(t *testing.T) {
			tab := load(t, tc.matrix, tc.rhs, false)
			require.NoError(t, tab.Standardize())

			for i := 0; ; i++ {
				require.Less(t, i, 10, "no termination")
				p, ok, err := tab.FindPivot()
				require.NoError(t, err)
				if !ok {
					break
				}
				require.NoError(t, tab.Pivot(p))
				assertIdentityBasis(t, tab)
				for r, v := range tab.RHS()[1:] {
					assert.GreaterOrEqual(t, v, -DefaultTolerance, "row %d", r+1)
				}
			}

			for j, v := range tab.Matrix().RawRowView(0) {
				assert.GreaterOrEqual(t, v, -DefaultTolerance, "column %d", j)
			}
			assert.Equal(t, tc.iterations, tab.Iterations())
			assert.Equal(t, tc.basic, tab.Basic())
		})
	}
}

func TestPivotInfeasible(t *testing.T) {
	// max x1 s.t. x1 - x2 <= 0, x1 <= 2, x2 <= 1
	tab := load(t, [][]float64{
		{1, 0},
		{1, -1},
		{1, 0},
		{0, 1},
	}, []float64{0, 0, 2, 1}, false)
	require.NoError(t, tab.Standardize())

	// the zero ratio of row 1 is not eligible, so row 2 is chosen
	p, ok, err := tab.FindPivot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Pivot{Row: 2, Col: 0}, p)

	err = tab.Pivot(p)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.ErrorContains(t, err, "row 1")
	assert.InDelta(t, -2, tab.RHS()[1], delta)
}

func assertIdentityBasis(t *testing.T, tab *Tableau) {
	t.Helper()
	m := tab.Matrix()
	rows, _ := m.Dims()
	for i, v := range tab.Basic() {
		if i == 0 {
			continue
		}
		for r := range rows {
			want := 0.0
			if r == i {
				want = 1
			}
			assert.InDelta(t, want, m.At(r, v-1), DefaultTolerance, "basic x%d, row %d", v, r)
		}
	}
}

func TestChop(t *testing.T) {
	assert.Equal(t, 0.0, chop(1e-9, 1e-8))
	assert.Equal(t, 0.0, chop(-1e-9, 1e-8))
	assert.False(t, math.Signbit(chop(math.Copysign(0, -1), 0)))
	assert.Equal(t, -2.5, chop(-2.5, 1e-8))
	assert.Equal(t, 1e-8, chop(1e-8, 1e-8))
}

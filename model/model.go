package model

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrShape           = errors.New("model: mismatch number of variables and/or constraints")
	ErrNaNInf          = errors.New("model: NaN or Inf coefficient")
	ErrInfeasibleBasis = errors.New("model: negative rhs, slack basis is infeasible")
	ErrViolated        = errors.New("model: assignment violates a constraint")
	ErrNoRow           = errors.New("model: row does not exist")
)

type Sense int

const (
	Maximize Sense = iota
	Minimize
)

func (s Sense) String() string {
	if s == Minimize {
		return "min"
	}
	return "max"
}

// Model is a linear program with only <= constraints:
//
//	max|min c'x  s.t.  Ax <= b, x >= 0
type Model struct {
	Sense Sense

	//C objective function coefficients
	C *mat.Dense

	//A constraints matrix
	A *mat.Dense

	//B constraints rhs
	B *mat.Dense

	NumRows int
	NumCols int
}

func NewModel(numRows, numCols int) *Model {
	return &Model{
		C:       mat.NewDense(1, numCols, nil),
		A:       mat.NewDense(numRows, numCols, nil),
		B:       mat.NewDense(numRows, 1, nil),
		NumRows: numRows,
		NumCols: numCols,
	}
}

// FromTableau builds a model from the tableau layout: matrix row 0 holds the
// objective and rows 1..m the constraints, rhs[0] is unused. Rows may be one
// entry longer than the number of variables; that trailing entry is ignored.
func FromTableau(matrix [][]float64, rhs []float64, sense Sense) (*Model, error) {
	if len(matrix) < 2 || len(rhs) != len(matrix) {
		return nil, fmt.Errorf("%w: %d matrix rows, %d rhs entries", ErrShape, len(matrix), len(rhs))
	}
	numCols := len(matrix[0])
	if numCols == 0 {
		return nil, fmt.Errorf("%w: empty objective row", ErrShape)
	}

	m := NewModel(len(matrix)-1, numCols)
	m.Sense = sense
	for r, row := range matrix {
		if len(row) != numCols && len(row) != numCols+1 {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrShape, r, len(row), numCols)
		}
		if r == 0 {
			m.C.SetRow(0, row[:numCols])
			continue
		}
		m.A.SetRow(r-1, row[:numCols])
		m.B.Set(r-1, 0, rhs[r])
	}

	return m, nil
}

func (m *Model) SetC(cVec []float64) error {
	if len(cVec) != m.NumCols {
		return fmt.Errorf("%w: %d objective coefficients", ErrShape, len(cVec))
	}

	m.C = mat.NewDense(1, m.NumCols, cVec)

	return nil
}

func (m *Model) SetA(aVec []float64) error {
	if len(aVec) != m.NumCols*m.NumRows {
		return fmt.Errorf("%w: %d constraint coefficients", ErrShape, len(aVec))
	}

	m.A = mat.NewDense(m.NumRows, m.NumCols, aVec)

	return nil
}

func (m *Model) SetB(bVec []float64) error {
	if len(bVec) != m.NumRows {
		return fmt.Errorf("%w: %d rhs entries", ErrShape, len(bVec))
	}

	m.B = mat.NewDense(m.NumRows, 1, bVec)

	return nil
}

// AddRow appends the constraint rVec x <= rhs.
func (m *Model) AddRow(rVec []float64, rhs float64) error {
	if len(rVec) != m.NumCols {
		return fmt.Errorf("%w: row of %d entries", ErrShape, len(rVec))
	}

	if m.NumRows == 0 {
		m.A = mat.NewDense(1, m.NumCols, nil)
		m.B = mat.NewDense(1, 1, nil)
	} else {
		m.A = mat.DenseCopyOf(m.A.Grow(1, 0))
		m.B = mat.DenseCopyOf(m.B.Grow(1, 0))
	}
	m.A.SetRow(m.NumRows, rVec)
	m.B.Set(m.NumRows, 0, rhs)

	m.NumRows++
	return nil
}

func (m *Model) MultiplyConstraint(row int, mul float64) error {
	if row < 0 || row >= m.NumRows {
		return fmt.Errorf("%w: %d", ErrNoRow, row)
	}

	for col := range m.NumCols {
		m.A.Set(row, col, m.A.At(row, col)*mul)
	}
	m.B.Set(row, 0, m.B.At(row, 0)*mul)
	return nil
}

// Validate checks that the model is well formed and that the all-slack basis
// is feasible, i.e. every rhs is non-negative within tol.
func (m *Model) Validate(tol float64) error {
	if m.NumRows <= 0 || m.NumCols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, m.NumRows, m.NumCols)
	}
	if r, c := m.C.Dims(); r != 1 || c != m.NumCols {
		return fmt.Errorf("%w: c is %dx%d", ErrShape, r, c)
	}
	if r, c := m.A.Dims(); r != m.NumRows || c != m.NumCols {
		return fmt.Errorf("%w: A is %dx%d", ErrShape, r, c)
	}
	if r, c := m.B.Dims(); r != m.NumRows || c != 1 {
		return fmt.Errorf("%w: b is %dx%d", ErrShape, r, c)
	}

	for c := range m.NumCols {
		if !finite(m.C.At(0, c)) {
			return fmt.Errorf("%w: c[%d]", ErrNaNInf, c)
		}
	}
	for r := range m.NumRows {
		for c := range m.NumCols {
			if !finite(m.A.At(r, c)) {
				return fmt.Errorf("%w: A[%d][%d]", ErrNaNInf, r, c)
			}
		}
		b := m.B.At(r, 0)
		if !finite(b) {
			return fmt.Errorf("%w: b[%d]", ErrNaNInf, r)
		}
		if b < -tol {
			return fmt.Errorf("%w: b[%d] = %v", ErrInfeasibleBasis, r, b)
		}
	}

	return nil
}

// Evaluate returns c'x.
func (m *Model) Evaluate(x []float64) float64 {
	return floats.Dot(m.C.RawRowView(0), x)
}

// Check reports the first constraint or sign restriction violated by x by
// more than tol.
func (m *Model) Check(x []float64, tol float64) error {
	if len(x) != m.NumCols {
		return fmt.Errorf("%w: %d values", ErrShape, len(x))
	}
	for j, v := range x {
		if v < -tol {
			return fmt.Errorf("%w: x%d = %v < 0", ErrViolated, j+1, v)
		}
	}
	for r := range m.NumRows {
		lhs := floats.Dot(m.A.RawRowView(r), x)
		if lhs > m.B.At(r, 0)+tol {
			return fmt.Errorf("%w: row %d, %v > %v", ErrViolated, r+1, lhs, m.B.At(r, 0))
		}
	}
	return nil
}

// Format prints the sense, c, A and b.
func (m *Model) Format(w io.Writer) {
	fmt.Fprintf(w, "sense = %v\n", m.Sense)
	caux := mat.Formatted(m.C, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(w, "c = %v\n", caux)
	aaux := mat.Formatted(m.A, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(w, "A = %v\n", aaux)
	baux := mat.Formatted(m.B, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(w, "b = %v\n", baux)
	fmt.Fprintln(w, m.NumRows, m.NumCols)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

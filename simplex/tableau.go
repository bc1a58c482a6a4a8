package simplex

import (
	"fmt"
	"math"

	logging "github.com/ipfs/go-log/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/Opticity/simplex-calc/model"
)

var log = logging.Logger("simplex")

// State is the position of a tableau in the optimize state machine.
type State int

const (
	StateIterating State = iota
	StateOptimal
	StateUnbounded
	StateMultipleOptimal
)

func (s State) String() string {
	switch s {
	case StateIterating:
		return "iterating"
	case StateOptimal:
		return "optimal"
	case StateUnbounded:
		return "unbounded"
	case StateMultipleOptimal:
		return "multiple optimal"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Pivot addresses a tableau element. Row is the matrix row, so constraint
// rows are 1..m; Col is the 0-based variable column.
type Pivot struct {
	Row int
	Col int
}

// Tableau is the simplex tableau of a problem with m <= constraints and n
// decision variables. Row 0 is the objective row, rows 1..m the constraints.
// Columns 0..n-1 hold the decision variables and, once standardized,
// columns n..n+m-1 the slack variables.
//
// A Tableau is used for a single problem and is not safe for concurrent use.
// The protocol is Load, Standardize, then either Optimize or repeated
// FindPivot/Pivot calls; Solve runs Standardize and Optimize.
type Tableau struct {
	opts     options
	m, n     int
	minimize bool

	matrix  *mat.Dense
	rhs     []float64
	ratio   []float64
	basic   []int
	columns int

	hasRatio  bool
	loaded    bool
	standard  bool
	state     State
	multiple  bool
	alternate int
	unbounded bool

	iterations int
	events     []Event
	result     *Result
}

// New allocates a zeroed tableau for the given number of constraints and
// decision variables.
func New(constraints, variables int, minimize bool, opts ...Option) (*Tableau, error) {
	o := gatherOptions(opts)
	if constraints < 1 || variables < 1 {
		return nil, fmt.Errorf("%w: %d constraints, %d variables", ErrDimension, constraints, variables)
	}
	if o.maxDimension > 0 && (constraints > o.maxDimension || variables > o.maxDimension) {
		return nil, fmt.Errorf("%w: %d constraints, %d variables exceed %d",
			ErrDimension, constraints, variables, o.maxDimension)
	}

	return &Tableau{
		opts:     o,
		m:        constraints,
		n:        variables,
		minimize: minimize,
		matrix:   mat.NewDense(constraints+1, variables+constraints, nil),
		rhs:      make([]float64, constraints+1),
		ratio:    make([]float64, constraints+1),
		basic:    make([]int, constraints+1),
		columns:  variables,
	}, nil
}

// NewFromModel allocates a tableau shaped and sensed after mod and loads it.
func NewFromModel(mod *model.Model, opts ...Option) (*Tableau, error) {
	t, err := New(mod.NumRows, mod.NumCols, mod.Sense == model.Minimize, opts...)
	if err != nil {
		return nil, err
	}
	if err := t.Load(mod); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadProblem copies a problem given in tableau layout: matrix row 0 holds
// the objective coefficients, rows 1..m the constraint coefficients, and
// rhs[1..m] the right-hand sides (rhs[0] is unused). Rows of n+1 entries are
// accepted; the last entry is dropped.
func (t *Tableau) LoadProblem(matrix [][]float64, rhs []float64) error {
	rows := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) == t.n+1 {
			row = row[:t.n]
		}
		rows[i] = row
	}

	sense := model.Maximize
	if t.minimize {
		sense = model.Minimize
	}
	mod, err := model.FromTableau(rows, rhs, sense)
	if err != nil {
		return err
	}
	return t.Load(mod)
}

// Load copies mod into the tableau after validating it.
func (t *Tableau) Load(mod *model.Model) error {
	if t.standard {
		return ErrStandardized
	}
	if mod.NumRows != t.m || mod.NumCols != t.n {
		return fmt.Errorf("%w: model is %dx%d, tableau expects %dx%d",
			ErrDimension, mod.NumRows, mod.NumCols, t.m, t.n)
	}
	if (mod.Sense == model.Minimize) != t.minimize {
		return fmt.Errorf("%w: %v", ErrSense, mod.Sense)
	}
	if err := mod.Validate(t.opts.tol); err != nil {
		return err
	}

	for j := range t.n {
		t.matrix.Set(0, j, mod.C.At(0, j))
	}
	for i := 1; i <= t.m; i++ {
		for j := range t.n {
			t.matrix.Set(i, j, mod.A.At(i-1, j))
		}
		t.rhs[i] = mod.B.At(i-1, 0)
	}
	t.loaded = true

	return nil
}

// Standardize brings the loaded problem into standard maximization form:
// the objective row is negated for a maximization, and one slack column per
// constraint is appended as an identity block whose variables form the
// initial basis.
func (t *Tableau) Standardize() error {
	if !t.loaded {
		return ErrNotLoaded
	}
	if t.standard {
		return ErrStandardized
	}

	if !t.minimize {
		for j := range t.n {
			t.matrix.Set(0, j, -t.matrix.At(0, j))
		}
	}

	t.addSlackVars()
	for i := 1; i <= t.m; i++ {
		t.basic[i] = t.n + i
	}
	t.standard = true
	t.state = StateIterating

	t.emit(StandardForm{
		Matrix: mat.DenseCopyOf(t.matrix),
		RHS:    append([]float64(nil), t.rhs...),
	})

	return nil
}

func (t *Tableau) addSlackVars() {
	for i := 1; i <= t.m; i++ {
		for j := t.n; j < t.n+t.m; j++ {
			if j == t.n+i-1 {
				t.matrix.Set(i, j, 1)
			} else {
				t.matrix.Set(i, j, 0)
			}
		}
	}
	t.columns += t.m
}

// Dims returns the constraint and decision variable counts.
func (t *Tableau) Dims() (constraints, variables int) { return t.m, t.n }

// State returns the current state of the optimize state machine.
func (t *Tableau) State() State { return t.state }

// Iterations returns the number of pivots applied so far.
func (t *Tableau) Iterations() int { return t.iterations }

// IsMultiple reports whether a zero-cost non-basic column was found at the
// optimum.
func (t *Tableau) IsMultiple() bool { return t.multiple }

// IsUnbounded reports whether the ratio test excluded every row.
func (t *Tableau) IsUnbounded() bool { return t.unbounded }

// Matrix returns a copy of the coefficient grid, without the solution column.
func (t *Tableau) Matrix() *mat.Dense {
	return mat.DenseCopyOf(t.matrix.Slice(0, t.m+1, 0, t.columns))
}

// RHS returns a copy of the solution column; entry 0 is the objective value
// of the internal maximization.
func (t *Tableau) RHS() []float64 {
	return append([]float64(nil), t.rhs...)
}

// Basic returns the 1-based basic variable of each constraint row; index 0
// is unused.
func (t *Tableau) Basic() []int {
	return append([]int(nil), t.basic...)
}

// Events returns the report events emitted so far.
func (t *Tableau) Events() []Event {
	return append([]Event(nil), t.events...)
}

func (t *Tableau) emit(e Event) {
	t.events = append(t.events, e)
}

func (t *Tableau) snapshot(kind SnapshotKind) {
	t.emit(Snapshot{
		Kind:      kind,
		Iteration: t.iterations,
		Matrix:    t.Matrix(),
		RHS:       t.RHS(),
		Ratio:     append([]float64(nil), t.ratio...),
		HasRatio:  t.hasRatio,
		Basic:     t.Basic(),
		Tol:       t.opts.tol,
	})
}

// chop returns 0 when |v| < tol, and v otherwise. It also folds -0 into 0.
func chop(v, tol float64) float64 {
	if math.Abs(v) < tol || v == 0 {
		return 0
	}
	return v
}

package instance

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"

	"github.com/Opticity/simplex-calc/model"
)

var log = logging.Logger("instance")

var (
	ErrFormat           = errors.New("instance: unknown problem file format")
	ErrUnsupportedRow   = errors.New("instance: row needs an artificial variable")
	ErrUnsupportedBound = errors.New("instance: column lower bound is not zero")
	ErrNoConstraints    = errors.New("instance: problem has no constraints")
)

// Reader reads a problem file to construct a model. The format is chosen by
// extension: .mps (free MPS), .lp (CPLEX LP), .yaml, .yml or .json.
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// Read returns the model stored in the file, in <= form.
func (r *Reader) Read() (*model.Model, error) {
	switch strings.ToLower(filepath.Ext(r.filename)) {
	case ".mps":
		return r.readGLPK(func(lp *glpk.Prob) error {
			return lp.ReadMPS(glpk.MPS_FILE, nil, r.filename)
		})
	case ".lp":
		return r.readGLPK(func(lp *glpk.Prob) error {
			return lp.ReadLP(nil, r.filename)
		})
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(r.filename)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", r.filename)
		}
		m, err := ParseYAML(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", r.filename)
		}
		return m, nil
	}
	return nil, errors.Wrapf(ErrFormat, "%s", r.filename)
}

func (r *Reader) readGLPK(read func(*glpk.Prob) error) (*model.Model, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()

	if err := read(lp); err != nil {
		return nil, errors.Wrapf(err, "reading %s", r.filename)
	}
	m, err := FromProb(lp)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s", r.filename)
	}
	return m, nil
}

// FromProb converts a GLPK problem into a model with only <= rows.
// Free rows are dropped, >= rows with a non-positive rhs are negated, and
// finite column upper bounds become extra rows. Every other row or bound
// would need an artificial variable and is rejected.
func FromProb(lp *glpk.Prob) (*model.Model, error) {
	numCols := lp.NumCols()
	if numCols == 0 {
		return nil, errors.Wrap(model.ErrShape, "no columns")
	}

	//populate obj function
	cVec := make([]float64, 0, numCols)
	for c := range numCols {
		cVec = append(cVec, lp.ObjCoef(c+1))
	}

	sense := model.Minimize
	if lp.ObjDir() == glpk.MAX {
		sense = model.Maximize
	}
	rows, err := newBuilder(cVec, sense)
	if err != nil {
		return nil, err
	}

	//populate constraints
	for r := 1; r <= lp.NumRows(); r++ {
		rowVec := make([]float64, numCols)
		idxs, vals := lp.MatRow(r)
		for i, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = vals[i]
		}

		lb, ub := lp.RowLB(r), lp.RowUB(r)
		switch {
		case lb == -math.MaxFloat64 && ub == math.MaxFloat64:
			log.Debugf("dropping free row %d", r)
		case lb == -math.MaxFloat64:
			if err := rows.add(rowVec, LessEqual, ub); err != nil {
				return nil, errors.Wrapf(err, "row %d", r)
			}
		case ub == math.MaxFloat64:
			if err := rows.add(rowVec, GreaterEqual, lb); err != nil {
				return nil, errors.Wrapf(err, "row %d", r)
			}
		default:
			return nil, errors.Wrapf(ErrUnsupportedRow, "row %d has bounds [%v, %v]", r, lb, ub)
		}
	}

	//column bounds
	for c := range numCols {
		lb, ub := lp.ColLB(c+1), lp.ColUB(c+1)
		if lb != 0 {
			return nil, errors.Wrapf(ErrUnsupportedBound, "column %d has lower bound %v", c+1, lb)
		}
		if ub == math.MaxFloat64 {
			continue
		}
		rowVec := make([]float64, numCols)
		rowVec[c] = 1
		if err := rows.add(rowVec, LessEqual, ub); err != nil {
			return nil, errors.Wrapf(err, "column %d upper bound", c+1)
		}
	}

	return rows.model()
}

// Relation is the comparison of a constraint row.
type Relation string

const (
	LessEqual    Relation = "<="
	GreaterEqual Relation = ">="
)

// builder collects constraint rows in <= form.
type builder struct {
	m *model.Model
}

func newBuilder(cVec []float64, sense model.Sense) (*builder, error) {
	m := &model.Model{Sense: sense, NumCols: len(cVec)}
	if err := m.SetC(cVec); err != nil {
		return nil, err
	}
	return &builder{m: m}, nil
}

func (bld *builder) add(row []float64, rel Relation, rhs float64) error {
	switch rel {
	case LessEqual, "":
	case GreaterEqual:
		if rhs > 0 {
			return errors.Wrapf(ErrUnsupportedRow, ">= row with rhs %v", rhs)
		}
	default:
		return errors.Wrapf(ErrUnsupportedRow, "relation %q", rel)
	}

	if err := bld.m.AddRow(row, rhs); err != nil {
		return err
	}
	if rel == GreaterEqual {
		// a'x >= b with b <= 0 is -a'x <= -b with a feasible slack basis
		return bld.m.MultiplyConstraint(bld.m.NumRows-1, -1)
	}
	return nil
}

func (bld *builder) model() (*model.Model, error) {
	if bld.m.NumRows == 0 {
		return nil, ErrNoConstraints
	}
	log.Debugf("built %v model with %d rows and %d columns", bld.m.Sense, bld.m.NumRows, bld.m.NumCols)
	return bld.m, nil
}

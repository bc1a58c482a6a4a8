// Package crosscheck solves a model a second time with GLPK's primal simplex
// and compares the outcome with the tableau engine.
package crosscheck

import (
	"math"
	"runtime"

	logging "github.com/ipfs/go-log/v2"
	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"

	"github.com/Opticity/simplex-calc/model"
	"github.com/Opticity/simplex-calc/simplex"
)

var log = logging.Logger("crosscheck")

var (
	ErrMismatch = errors.New("crosscheck: tableau and reference disagree")
	ErrStatus   = errors.New("crosscheck: reference solver found no optimum")
)

// Reference is the GLPK outcome.
type Reference struct {
	Unbounded bool
	Objective float64
	Values    []float64
}

// Solve runs GLPK's primal simplex on m.
func Solve(m *model.Model) (*Reference, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()

	lp.SetProbName("crosscheck")
	if m.Sense == model.Minimize {
		lp.SetObjDir(glpk.MIN)
	} else {
		lp.SetObjDir(glpk.MAX)
	}

	lp.AddCols(m.NumCols)
	ind := make([]int32, m.NumCols+1)
	for j := 1; j <= m.NumCols; j++ {
		lp.SetColBnds(j, glpk.LO, 0, 0)
		lp.SetObjCoef(j, m.C.At(0, j-1))
		ind[j] = int32(j)
	}

	lp.AddRows(m.NumRows)
	for i := 1; i <= m.NumRows; i++ {
		// ind[0] and val[0] are ignored by glpk
		val := append([]float64{0}, m.A.RawRowView(i-1)...)
		lp.SetMatRow(i, ind, val)
		lp.SetRowBnds(i, glpk.UP, 0, m.B.At(i-1, 0))
	}

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MSG_OFF)
	if err := lp.Simplex(smcp); err != nil {
		return nil, errors.Wrap(err, "glpk simplex")
	}

	switch st := lp.Status(); st {
	case glpk.OPT:
		ref := &Reference{
			Objective: lp.ObjVal(),
			Values:    make([]float64, m.NumCols),
		}
		for j := range m.NumCols {
			ref.Values[j] = lp.ColPrim(j + 1)
		}
		log.Debugf("reference optimum %v", ref.Objective)
		return ref, nil
	case glpk.UNBND:
		return &Reference{Unbounded: true}, nil
	default:
		return nil, errors.Wrapf(ErrStatus, "status %v", st)
	}
}

// Compare checks that res and ref agree on boundedness and, for bounded
// problems, on the optimal objective value within tol relative to its
// magnitude. Optimal vertices may differ when the optimum is not unique.
func Compare(res *simplex.Result, ref *Reference, tol float64) error {
	if res.State == simplex.StateUnbounded || ref.Unbounded {
		if res.State == simplex.StateUnbounded && ref.Unbounded {
			return nil
		}
		return errors.Wrapf(ErrMismatch, "tableau %v, reference unbounded %v", res.State, ref.Unbounded)
	}
	if res.Optimum == nil {
		return errors.Wrapf(ErrMismatch, "tableau %v without optimum", res.State)
	}

	got, want := res.Optimum.Objective, ref.Objective
	if math.Abs(got-want) > tol*math.Max(1, math.Abs(want)) {
		return errors.Wrapf(ErrMismatch, "objective %v, reference %v", got, want)
	}
	return nil
}

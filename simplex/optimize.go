package simplex

import (
	"errors"
	"fmt"
)

// Solution is a basic feasible solution read off the tableau.
type Solution struct {
	// Objective is the objective value in the caller's sense.
	Objective float64
	// Values holds the n decision variables; non-basic ones are 0.
	Values []float64
	// Basic[i] is the 1-based variable basic in constraint row i+1.
	Basic []int
}

// Result is the terminal outcome of Optimize.
type Result struct {
	State      State
	Iterations int
	// Optimum is nil when the problem is unbounded.
	Optimum *Solution
	// Alternate is the second optimal vertex reached when State is
	// StateMultipleOptimal and the zero-cost column has a leaving row.
	Alternate *Solution
}

// Solve standardizes the loaded problem and optimizes it.
func (t *Tableau) Solve() (*Result, error) {
	if t.result != nil {
		return t.result, nil
	}
	if err := t.Standardize(); err != nil {
		return nil, err
	}
	return t.Optimize()
}

// Optimize pivots until the objective row has no negative coefficient or the
// ratio test finds no leaving row. An unbounded problem is a valid outcome and
// is reported through Result.State, not as an error.
//
// At the optimum, a non-basic variable with a zero objective coefficient
// marks multiple optima: the current optimum is reported, and exactly one more
// pivot on that column yields the alternate optimal vertex.
func (t *Tableau) Optimize() (*Result, error) {
	if !t.standard {
		return nil, ErrNotStandard
	}
	if t.result != nil {
		return t.result, nil
	}

	for {
		p, ok, err := t.FindPivot()
		if t.iterations == 0 {
			t.snapshot(SnapshotInitial)
		} else {
			t.snapshot(SnapshotIteration)
		}

		if errors.Is(err, ErrUnbounded) {
			t.unbounded = true
			t.state = StateUnbounded
			t.emit(Unbounded{Column: p.Col})
			log.Infof("unbounded after %d iteration(s), x%d has no leaving row", t.iterations, p.Col+1)
			t.result = &Result{State: t.state, Iterations: t.iterations}
			return t.result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("iteration %d, x%d entering: %w", t.iterations+1, p.Col+1, err)
		}
		if !ok {
			break
		}

		if limit := t.opts.maxIterations; limit > 0 && t.iterations >= limit {
			return nil, fmt.Errorf("%w: %d", ErrIterationLimit, limit)
		}
		t.emit(PivotSelected{
			Iteration: t.iterations + 1,
			Pivot:     p,
			Entering:  p.Col + 1,
			Leaving:   t.basic[p.Row],
		})
		log.Debugf("iteration %d: x%d enters, x%d leaves", t.iterations+1, p.Col+1, t.basic[p.Row])
		if err := t.Pivot(p); err != nil {
			if errors.Is(err, ErrInfeasible) {
				t.snapshot(SnapshotIteration)
			}
			return nil, fmt.Errorf("iteration %d: %w", t.iterations, err)
		}
	}

	t.state = StateOptimal
	opt := t.solution()
	t.result = &Result{State: t.state, Iterations: t.iterations, Optimum: &opt}
	log.Infof("optimal after %d iteration(s), z = %v", t.iterations, opt.Objective)

	p, found, err := t.checkMultiple()
	t.emit(OptimumFound{Solution: opt})
	if !found {
		return t.result, nil
	}

	t.state = StateMultipleOptimal
	t.result.State = t.state
	t.emit(MultipleOptima{Column: p.Col, Reachable: err == nil})
	if err != nil {
		log.Warnf("multiple optima on x%d but no leaving row: %s", p.Col+1, err)
		return t.result, nil
	}

	t.snapshot(SnapshotRevised)
	t.emit(PivotSelected{
		Iteration: t.iterations + 1,
		Pivot:     p,
		Entering:  p.Col + 1,
		Leaving:   t.basic[p.Row],
	})
	log.Debugf("alternate optimum: x%d enters, x%d leaves", p.Col+1, t.basic[p.Row])
	if err := t.Pivot(p); err != nil {
		if errors.Is(err, ErrInfeasible) {
			t.snapshot(SnapshotAlternate)
		}
		return nil, fmt.Errorf("alternate pivot: %w", err)
	}
	// refreshes the ratio column for the report; the result is not used
	_, _, _ = t.FindPivot()
	t.snapshot(SnapshotAlternate)

	alt := t.solution()
	t.result.Iterations = t.iterations
	t.result.Alternate = &alt
	t.emit(OptimumFound{Solution: alt, Alternate: true})

	return t.result, nil
}

// checkMultiple looks for non-basic variables whose objective coefficient is
// zero at the optimum. The last such column is kept as the alternate entering
// column and its ratio test result is returned.
func (t *Tableau) checkMultiple() (Pivot, bool, error) {
	var (
		p     Pivot
		found bool
		err   error
	)
	for j := range t.columns {
		if t.isBasic(j+1) || chop(t.matrix.At(0, j), t.opts.tol) != 0 {
			continue
		}
		t.multiple = true
		t.alternate = j
		found = true

		var row int
		row, err = t.leavingRow(j)
		p = Pivot{Row: row, Col: j}
	}
	return p, found, err
}

func (t *Tableau) isBasic(v int) bool {
	for i := 1; i <= t.m; i++ {
		if t.basic[i] == v {
			return true
		}
	}
	return false
}

func (t *Tableau) solution() Solution {
	tol := t.opts.tol
	s := Solution{
		Values: make([]float64, t.n),
		Basic:  append([]int(nil), t.basic[1:]...),
	}
	for i := 1; i <= t.m; i++ {
		if v := t.basic[i]; v >= 1 && v <= t.n {
			s.Values[v-1] = chop(t.rhs[i], tol)
		}
	}
	s.Objective = t.rhs[0]
	if t.minimize {
		s.Objective = -s.Objective
	}
	s.Objective = chop(s.Objective, tol)
	return s
}

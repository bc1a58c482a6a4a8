package simplex

import "gonum.org/v1/gonum/mat"

// Event is one entry of the structured solve report. The concrete types are
// StandardForm, Snapshot, PivotSelected, OptimumFound, MultipleOptima and
// Unbounded.
type Event interface {
	event()
}

// SnapshotKind tells at which point of the solve a Snapshot was taken.
type SnapshotKind int

const (
	SnapshotInitial SnapshotKind = iota
	SnapshotIteration
	SnapshotRevised
	SnapshotAlternate
)

// StandardForm is the tableau right after normalization and slack insertion.
type StandardForm struct {
	Matrix *mat.Dense
	RHS    []float64
}

// Snapshot is a copy of the tableau grid.
type Snapshot struct {
	Kind      SnapshotKind
	Iteration int
	Matrix    *mat.Dense
	RHS       []float64
	// Ratio is only meaningful when HasRatio is set; Ratio[0] is unused.
	Ratio    []float64
	HasRatio bool
	// Basic[i] is the 1-based variable basic in row i; Basic[0] is unused.
	Basic []int
	Tol   float64
}

// PivotSelected names the variables swapped by the next pivot, 1-based.
type PivotSelected struct {
	Iteration int
	Pivot     Pivot
	Entering  int
	Leaving   int
}

type OptimumFound struct {
	Solution  Solution
	Alternate bool
}

// MultipleOptima is emitted when a non-basic variable has a zero objective
// coefficient at the optimum. Reachable is false when that column has no
// positive ratio, so no alternate vertex can be pivoted to.
type MultipleOptima struct {
	Column    int
	Reachable bool
}

type Unbounded struct {
	Column int
}

func (StandardForm) event()   {}
func (Snapshot) event()       {}
func (PivotSelected) event()  {}
func (OptimumFound) event()   {}
func (MultipleOptima) event() {}
func (Unbounded) event()      {}

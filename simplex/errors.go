package simplex

import "errors"

var (
	ErrDimension      = errors.New("simplex: problem dimensions out of range")
	ErrSense          = errors.New("simplex: model sense differs from tableau sense")
	ErrNotLoaded      = errors.New("simplex: no problem loaded")
	ErrNotStandard    = errors.New("simplex: tableau is not in standard form")
	ErrStandardized   = errors.New("simplex: tableau already in standard form")
	ErrUnbounded      = errors.New("simplex: no leaving row, problem is unbounded")
	ErrNoLeavingRow   = errors.New("simplex: degenerate tableau, every limiting ratio is zero and the strict ratio rule cannot pivot")
	ErrInfeasible     = errors.New("simplex: pivot left a negative rhs")
	ErrSingularPivot  = errors.New("simplex: pivot element is zero")
	ErrBadPivot       = errors.New("simplex: pivot out of range")
	ErrIterationLimit = errors.New("simplex: iteration limit reached")
	ErrSingularBasis  = errors.New("simplex: basis matrix is singular")
	ErrNotOptimal     = errors.New("simplex: basis is not optimal")
)

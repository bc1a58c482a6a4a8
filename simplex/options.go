package simplex

import "fmt"

const (
	// DefaultTolerance is the magnitude below which a value counts as zero.
	DefaultTolerance = 1e-8

	// DefaultMaxIterations bounds the optimize loop.
	DefaultMaxIterations = 10000

	// DefaultMaxDimension bounds both the constraint and the variable count.
	DefaultMaxDimension = 200
)

type options struct {
	tol           float64
	maxIterations int
	maxDimension  int
}

// Option configures a Tableau.
type Option func(*options)

// WithTolerance sets the zero tolerance. It panics on a negative value.
func WithTolerance(eps float64) Option {
	if eps < 0 {
		panic(fmt.Sprintf("simplex: negative tolerance %v", eps))
	}
	return func(o *options) { o.tol = eps }
}

// WithMaxIterations caps the number of pivots Optimize may apply; n <= 0
// removes the cap.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithMaxDimension sets the largest accepted constraint or variable count;
// d <= 0 removes the limit.
func WithMaxDimension(d int) Option {
	return func(o *options) { o.maxDimension = d }
}

func gatherOptions(opts []Option) options {
	o := options{
		tol:           DefaultTolerance,
		maxIterations: DefaultMaxIterations,
		maxDimension:  DefaultMaxDimension,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package instance

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/Opticity/simplex-calc/model"
)

var ErrUnknownBuiltin = errors.New("instance: unknown built-in problem")

// Builtin is a hardcoded problem in tableau layout: Matrix row 0 is the
// objective, rows 1..m the constraints, RHS[0] is unused.
type Builtin struct {
	Name        string
	Description string
	Matrix      [][]float64
	RHS         []float64
	Minimize    bool
}

func (b Builtin) Model() (*model.Model, error) {
	sense := model.Maximize
	if b.Minimize {
		sense = model.Minimize
	}
	return model.FromTableau(b.Matrix, b.RHS, sense)
}

var builtins = map[string]Builtin{
	"driver": {
		Name:        "driver",
		Description: "max 5x1 + 3x2 + x3, two constraints, multiple optima",
		Matrix: [][]float64{
			{5, 3, 1},
			{1, 1, 1},
			{5, 3, 6},
		},
		RHS: []float64{0, 6, 15},
	},
	"textbook": {
		Name:        "textbook",
		Description: "max 3x1 + 2x2, three constraints, unique optimum 33",
		Matrix: [][]float64{
			{3, 2},
			{2, 1},
			{2, 3},
			{3, 1},
		},
		RHS: []float64{0, 18, 42, 24},
	},
	"minimize": {
		Name:        "minimize",
		Description: "min 2x1 + x2, optimal at the origin",
		Matrix: [][]float64{
			{2, 1},
			{-1, 1},
			{1, -2},
		},
		RHS:      []float64{0, 1, 2},
		Minimize: true,
	},
	"unbounded": {
		Name:        "unbounded",
		Description: "max x1 + x2 s.t. x1 - x2 <= 1",
		Matrix: [][]float64{
			{1, 1},
			{1, -1},
		},
		RHS: []float64{0, 1},
	},
	"multiple": {
		Name:        "multiple",
		Description: "max 2x1 + 4x2, objective parallel to a constraint",
		Matrix: [][]float64{
			{2, 4},
			{1, 2},
			{1, 1},
		},
		RHS: []float64{0, 5, 4},
	},
}

// Builtins returns the hardcoded problems sorted by name.
func Builtins() []Builtin {
	out := make([]Builtin, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func Lookup(name string) (Builtin, error) {
	b, ok := builtins[name]
	if !ok {
		return Builtin{}, errors.Wrapf(ErrUnknownBuiltin, "%q", name)
	}
	return b, nil
}

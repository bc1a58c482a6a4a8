package instance

import (
	"strings"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/Opticity/simplex-calc/model"
)

var ErrSense = errors.New("instance: unknown optimization sense")

// File is the YAML (or JSON) problem file layout:
//
//	name: textbook
//	sense: max
//	objective: [3, 2]
//	constraints:
//	  - coefficients: [2, 1]
//	    rhs: 18
//	  - coefficients: [-1, 1]
//	    relation: ">="
//	    rhs: -3
type File struct {
	Name        string       `json:"name,omitempty"`
	Sense       string       `json:"sense,omitempty"`
	Objective   []float64    `json:"objective"`
	Constraints []Constraint `json:"constraints"`
}

type Constraint struct {
	Coefficients []float64 `json:"coefficients"`
	Relation     Relation  `json:"relation,omitempty"`
	RHS          float64   `json:"rhs"`
}

// ParseYAML decodes a problem file. Unknown fields are rejected.
func ParseYAML(data []byte) (*model.Model, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, err
	}
	return f.Model()
}

// Model converts the file into a model in <= form.
func (f *File) Model() (*model.Model, error) {
	sense, err := ParseSense(f.Sense)
	if err != nil {
		return nil, err
	}
	if len(f.Objective) == 0 {
		return nil, errors.Wrap(model.ErrShape, "empty objective")
	}

	rows, err := newBuilder(f.Objective, sense)
	if err != nil {
		return nil, err
	}
	for i, c := range f.Constraints {
		if len(c.Coefficients) != len(f.Objective) {
			return nil, errors.Wrapf(model.ErrShape, "constraint %d has %d coefficients, objective has %d",
				i+1, len(c.Coefficients), len(f.Objective))
		}
		if err := rows.add(c.Coefficients, c.Relation, c.RHS); err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i+1)
		}
	}
	return rows.model()
}

// ParseSense accepts max, maximize, min and minimize in any case; an empty
// string means max.
func ParseSense(s string) (model.Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max", "maximize":
		return model.Maximize, nil
	case "min", "minimize":
		return model.Minimize, nil
	}
	return model.Maximize, errors.Wrapf(ErrSense, "%q", s)
}

package pipeline

import (
	"github.com/pkg/errors"
)

var ErrSchemaMismatch = errors.New("columns do not match the trained schema")

// Schema describes the structure of a dataset.
type Schema struct {
	Features []string `json:"features"`
	Target   string   `json:"target"`
}

// Align reorders the columns of X, named by names, into schema order.
// Extra columns are dropped; a missing feature is an error.
func (s Schema) Align(names []string, X [][]float64) ([][]float64, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	cols := make([]int, len(s.Features))
	for j, f := range s.Features {
		i, ok := index[f]
		if !ok {
			return nil, errors.Wrapf(ErrSchemaMismatch, "missing feature %q", f)
		}
		cols[j] = i
	}

	out := make([][]float64, len(X))
	for r, row := range X {
		aligned := make([]float64, len(cols))
		for j, i := range cols {
			aligned[j] = row[i]
		}
		out[r] = aligned
	}
	return out, nil
}

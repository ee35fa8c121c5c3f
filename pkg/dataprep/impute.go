package dataprep

import (
	"math"

	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/stats"
)

// Strategy names accepted by NewImputer.
const (
	StrategyMean   = "mean"
	StrategyMedian = "median"
)

var ErrUnknownStrategy = errors.New("unknown imputation strategy")

// Imputer replaces NaN cells with a per-column statistic learned in Fit.
// Columns with no observed values are filled with 0.
type Imputer struct {
	Strategy string    `json:"strategy"`
	Fill     []float64 `json:"fill"`
}

// NewImputer returns an imputer for the named strategy.
func NewImputer(strategy string) (*Imputer, error) {
	switch strategy {
	case StrategyMean, StrategyMedian:
		return &Imputer{Strategy: strategy}, nil
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "%q", strategy)
}

// observed returns the non-NaN values of column j.
func observed(X [][]float64, j int) []float64 {
	vals := make([]float64, 0, len(X))
	for _, row := range X {
		if !math.IsNaN(row[j]) {
			vals = append(vals, row[j])
		}
	}
	return vals
}

func (m *Imputer) Fit(X [][]float64) error {
	if len(X) == 0 {
		return nil
	}
	cols := len(X[0])
	m.Fill = make([]float64, cols)
	for j := 0; j < cols; j++ {
		vals := observed(X, j)
		if len(vals) == 0 {
			continue
		}
		switch m.Strategy {
		case StrategyMedian:
			m.Fill[j] = stats.Median(vals)
		case StrategyMean:
			m.Fill[j] = stats.Mean(vals)
		default:
			return errors.Wrapf(ErrUnknownStrategy, "%q", m.Strategy)
		}
	}
	return nil
}

// Transform returns a copy of X with missing cells filled.
func (m *Imputer) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Fill) {
			return nil, errors.Errorf("row %d has %d columns, imputer fitted on %d", i, len(row), len(m.Fill))
		}
		r := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				v = m.Fill[j]
			}
			r[j] = v
		}
		out[i] = r
	}
	return out, nil
}

func (m *Imputer) FitTransform(X [][]float64) ([][]float64, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// CountMissing returns the number of NaN cells in X.
func CountMissing(X [][]float64) int {
	n := 0
	for _, row := range X {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

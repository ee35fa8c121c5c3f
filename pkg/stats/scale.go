package stats

import (
	"github.com/pkg/errors"
)

var ErrNotFitted = errors.New("scaler is not fitted")

// StandardScaler rescales each column to zero mean and unit variance using the
// population standard deviation. Constant columns keep a scale of 1.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return nil
	}
	c := len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	for j := 0; j < c; j++ {
		col := Column(X, j)
		s.Mean[j] = Mean(col)
		s.Std[j] = Std(col)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}
	c := len(s.Mean)
	Y := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != c {
			return nil, errors.Errorf("row %d has %d columns, scaler fitted on %d", i, len(row), c)
		}
		out := make([]float64, c)
		for j, v := range row {
			out[j] = (v - s.Mean[j]) / s.Std[j]
		}
		Y[i] = out
	}
	return Y, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

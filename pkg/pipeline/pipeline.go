package pipeline

import (
	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/dataprep"
	"github.com/kaybrian/Water-Quality-Model/pkg/stats"
)

// Transformer is a preprocessing step: fit on X, then transform any X of the
// same width.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
}

// Pipeline imputes missing values then standardizes. Its fields serialize
// with the model so inference applies the exact training transform.
type Pipeline struct {
	Imputer *dataprep.Imputer     `json:"imputer"`
	Scaler  *stats.StandardScaler `json:"scaler"`
}

// New returns an unfitted pipeline using the given imputation strategy.
func New(strategy string) (*Pipeline, error) {
	imp, err := dataprep.NewImputer(strategy)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Imputer: imp, Scaler: stats.NewStandardScaler()}, nil
}

func (p *Pipeline) steps() []Transformer {
	return []Transformer{p.Imputer, p.Scaler}
}

// Fit fits each step on the output of the previous one.
func (p *Pipeline) Fit(X [][]float64) error {
	var err error
	for i, step := range p.steps() {
		if err = step.Fit(X); err != nil {
			return errors.Wrapf(err, "fit step %d", i)
		}
		if X, err = step.Transform(X); err != nil {
			return errors.Wrapf(err, "transform step %d", i)
		}
	}
	return nil
}

func (p *Pipeline) Transform(X [][]float64) ([][]float64, error) {
	var err error
	for i, step := range p.steps() {
		if X, err = step.Transform(X); err != nil {
			return nil, errors.Wrapf(err, "transform step %d", i)
		}
	}
	return X, nil
}

func (p *Pipeline) FitTransform(X [][]float64) ([][]float64, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

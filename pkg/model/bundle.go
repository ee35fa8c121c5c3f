package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/nn"
	"github.com/kaybrian/Water-Quality-Model/pkg/pipeline"
)

// Bundle is the saved model artifact: the network plus everything needed to
// turn a raw CSV row into its input.
type Bundle struct {
	Schema    pipeline.Schema    `json:"schema"`
	Pipeline  *pipeline.Pipeline `json:"pipeline"`
	Network   *nn.Sequential     `json:"network"`
	Threshold float64            `json:"threshold"`
	TrainedAt time.Time          `json:"trained_at"`
}

// PredictProba runs raw feature rows, named by columns, through the schema,
// the pipeline and the network.
func (b *Bundle) PredictProba(columns []string, X [][]float64) ([]float64, error) {
	aligned, err := b.Schema.Align(columns, X)
	if err != nil {
		return nil, err
	}
	prepared, err := b.Pipeline.Transform(aligned)
	if err != nil {
		return nil, errors.Wrap(err, "preprocess")
	}
	return b.Network.PredictProba(prepared)
}

// Predict labels rows strictly above the bundle threshold as 1.
func (b *Bundle) Predict(columns []string, X [][]float64) ([]int, error) {
	p, err := b.PredictProba(columns, X)
	if err != nil {
		return nil, err
	}
	return BinaryPredFromProba(p, b.Threshold), nil
}

// Save writes the bundle as JSON via a temp file then rename.
func (b *Bundle) Save(path string) error {
	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode model")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}

// Load reads a bundle written by Save.
func Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model %s", path)
	}
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errors.Wrapf(err, "decode model %s", path)
	}
	if b.Network == nil || b.Pipeline == nil || b.Pipeline.Imputer == nil || b.Pipeline.Scaler == nil {
		return nil, errors.Errorf("model %s is incomplete", path)
	}
	return &b, nil
}

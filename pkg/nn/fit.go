package nn

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/data"
	"github.com/kaybrian/Water-Quality-Model/pkg/loader"
)

// FitConfig controls a training run.
type FitConfig struct {
	Epochs          int
	BatchSize       int
	ValidationSplit float64
	Shuffle         bool
	Seed            int64
	Callbacks       []Callback
}

// EpochLogs are the metrics reported at the end of an epoch. Val fields are
// only meaningful when HasValidation is true.
type EpochLogs struct {
	Loss          float64
	Accuracy      float64
	ValLoss       float64
	ValAccuracy   float64
	HasValidation bool
}

// Get returns the named metric: loss, accuracy, val_loss or val_accuracy.
func (l EpochLogs) Get(name string) (float64, bool) {
	switch name {
	case "loss":
		return l.Loss, true
	case "accuracy":
		return l.Accuracy, true
	case "val_loss":
		return l.ValLoss, l.HasValidation
	case "val_accuracy":
		return l.ValAccuracy, l.HasValidation
	}
	return 0, false
}

// History records per-epoch metrics of a Fit call.
type History struct {
	Loss        []float64 `json:"loss"`
	ValLoss     []float64 `json:"val_loss,omitempty"`
	Accuracy    []float64 `json:"accuracy"`
	ValAccuracy []float64 `json:"val_accuracy,omitempty"`
	// StoppedEpoch is the 1-based epoch a callback stopped training at, or 0.
	StoppedEpoch int `json:"stopped_epoch"`
}

// Epochs returns the number of completed epochs.
func (h *History) Epochs() int { return len(h.Loss) }

func (h *History) append(l EpochLogs) {
	h.Loss = append(h.Loss, l.Loss)
	h.Accuracy = append(h.Accuracy, l.Accuracy)
	if l.HasValidation {
		h.ValLoss = append(h.ValLoss, l.ValLoss)
		h.ValAccuracy = append(h.ValAccuracy, l.ValAccuracy)
	}
}

// Fit trains on X, Y for cfg.Epochs. The tail cfg.ValidationSplit of the rows is
// held out for validation before any shuffling. Training stops early when a
// callback asks for it or ctx is cancelled; the history so far is returned in
// both cases.
func (n *Sequential) Fit(ctx context.Context, X [][]float64, Y []float64, cfg FitConfig) (*History, error) {
	if !n.Compiled() {
		return nil, ErrNotCompiled
	}
	if len(X) != len(Y) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d rows but %d labels", len(X), len(Y))
	}

	xTrain, yTrain := X, Y
	var xVal [][]float64
	var yVal []float64
	if cfg.ValidationSplit > 0 {
		xTrain, xVal, yTrain, yVal = loader.ValidationSplit(X, Y, cfg.ValidationSplit)
	}
	if len(xTrain) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "training split is empty")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	hist := &History{}

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		xs, ys := xTrain, yTrain
		if cfg.Shuffle {
			xs, ys = loader.ShuffleData(xTrain, yTrain, rng)
		}

		logs, err := n.runEpoch(ctx, xs, ys, cfg.BatchSize)
		if err != nil {
			return hist, err
		}
		if len(xVal) > 0 {
			logs.ValLoss, logs.ValAccuracy, err = n.Evaluate(xVal, yVal)
			if err != nil {
				return hist, errors.Wrap(err, "validate")
			}
			logs.HasValidation = true
		}
		hist.append(logs)

		stop := false
		for _, cb := range cfg.Callbacks {
			if cb.OnEpochEnd(epoch, logs, n) {
				stop = true
			}
		}
		if stop {
			hist.StoppedEpoch = epoch
			break
		}
	}

	for _, cb := range cfg.Callbacks {
		if err := cb.OnTrainEnd(n); err != nil {
			return hist, err
		}
	}
	return hist, nil
}

// runEpoch makes one pass over the rows in mini-batches. Loss and accuracy are
// averaged over samples as the weights move.
func (n *Sequential) runEpoch(ctx context.Context, X [][]float64, Y []float64, batchSize int) (EpochLogs, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var lossSum float64
	var hits, seen int
	for b := range data.Batcher(ctx, data.Emit(ctx, X, Y), batchSize) {
		loss, c, err := n.trainStep(b.X, b.Y)
		if err != nil {
			return EpochLogs{}, err
		}
		lossSum += loss * float64(len(b.Y))
		hits += c
		seen += len(b.Y)
	}
	if err := ctx.Err(); err != nil {
		return EpochLogs{}, err
	}
	return EpochLogs{
		Loss:     lossSum / float64(seen),
		Accuracy: float64(hits) / float64(seen),
	}, nil
}

package nn

import (
	"math"
	"strings"

	"github.com/rs/zerolog"
)

// Callback observes training. OnEpochEnd returns true to stop training.
type Callback interface {
	OnEpochEnd(epoch int, logs EpochLogs, net *Sequential) bool
	OnTrainEnd(net *Sequential) error
}

// EarlyStopping stops training once Monitor has not improved by more than
// MinDelta for Patience epochs. Accuracy metrics are maximized, losses
// minimized. With RestoreBestWeights the best epoch's weights are put back
// when training ends.
type EarlyStopping struct {
	Monitor            string
	Patience           int
	MinDelta           float64
	RestoreBestWeights bool

	best        float64
	bestWeights [][]float64
	wait        int
	started     bool

	// BestEpoch is the 1-based epoch with the best monitored value.
	BestEpoch int
	// StoppedEpoch is the epoch training was stopped at, or 0.
	StoppedEpoch int
}

// NewEarlyStopping monitors val_loss.
func NewEarlyStopping(patience int, restore bool) *EarlyStopping {
	return &EarlyStopping{Monitor: "val_loss", Patience: patience, RestoreBestWeights: restore}
}

func (e *EarlyStopping) maximize() bool { return strings.HasSuffix(e.Monitor, "accuracy") }

func (e *EarlyStopping) improved(v float64) bool {
	if e.maximize() {
		return v-e.MinDelta > e.best
	}
	return v+e.MinDelta < e.best
}

func (e *EarlyStopping) OnEpochEnd(epoch int, logs EpochLogs, net *Sequential) bool {
	v, ok := logs.Get(e.Monitor)
	if !ok {
		return false
	}
	if !e.started {
		e.started = true
		e.best = math.Inf(1)
		if e.maximize() {
			e.best = math.Inf(-1)
		}
	}

	if e.improved(v) {
		e.best = v
		e.BestEpoch = epoch
		e.wait = 0
		if e.RestoreBestWeights {
			e.bestWeights = net.Weights()
		}
		return false
	}

	e.wait++
	if e.wait >= e.Patience {
		e.StoppedEpoch = epoch
		return true
	}
	return false
}

func (e *EarlyStopping) OnTrainEnd(net *Sequential) error {
	if e.RestoreBestWeights && e.bestWeights != nil {
		return net.SetWeights(e.bestWeights)
	}
	return nil
}

// Best returns the best monitored value seen, or NaN if the metric was never
// reported.
func (e *EarlyStopping) Best() float64 {
	if !e.started {
		return math.NaN()
	}
	return e.best
}

// ProgressLogger logs each epoch's metrics.
type ProgressLogger struct {
	Log    zerolog.Logger
	Epochs int
}

func (p ProgressLogger) OnEpochEnd(epoch int, logs EpochLogs, _ *Sequential) bool {
	ev := p.Log.Info().
		Int("epoch", epoch).
		Int("of", p.Epochs).
		Float64("loss", logs.Loss).
		Float64("accuracy", logs.Accuracy)
	if logs.HasValidation {
		ev = ev.Float64("val_loss", logs.ValLoss).Float64("val_accuracy", logs.ValAccuracy)
	}
	ev.Msg("epoch done")
	return false
}

func (p ProgressLogger) OnTrainEnd(*Sequential) error { return nil }

package model

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/data"
	"github.com/kaybrian/Water-Quality-Model/pkg/loader"
	"github.com/kaybrian/Water-Quality-Model/pkg/nn"
	"github.com/kaybrian/Water-Quality-Model/pkg/optim"
)

// LogisticRegression (binary) with sigmoid, used as a baseline next to the
// network.
type LogisticRegression struct {
	W         []float64 // weights
	B         float64
	Lr        float64
	Epochs    int
	BatchSize int

	rng *rand.Rand
}

// NewLogisticRegression initializes the weights with small random values.
func NewLogisticRegression(nFeatures int, lr float64, epochs, batchSize int, seed int64) *LogisticRegression {
	rng := rand.New(rand.NewSource(seed))
	w := make([]float64, nFeatures)
	for i := range w {
		w[i] = rng.NormFloat64() * 0.01
	}
	return &LogisticRegression{W: w, Lr: lr, Epochs: epochs, BatchSize: batchSize, rng: rng}
}

// PredictProba returns p(y=1) for each row, splitting rows across CPU cores.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	for i, row := range X {
		if len(row) != len(m.W) {
			return nil, errors.Wrapf(nn.ErrShapeMismatch, "row %d has %d features, want %d", i, len(row), len(m.W))
		}
	}
	out := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				sum := m.B
				for j, v := range X[i] {
					sum += m.W[j] * v
				}
				out[i] = nn.Sigmoid(sum)
			}
		}(start, end)
	}
	wg.Wait()
	return out, nil
}

// Predict returns the class labels (0 or 1) at a 0.5 threshold.
func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return BinaryPredFromProba(proba, 0.5), nil
}

// Fit trains with mini-batch gradient descent on binary cross-entropy,
// reshuffling the rows every epoch.
func (m *LogisticRegression) Fit(ctx context.Context, X [][]float64, Y []float64) error {
	if len(X) != len(Y) {
		return errors.Wrapf(nn.ErrShapeMismatch, "%d rows but %d labels", len(X), len(Y))
	}
	opt := optim.NewSGD(m.Lr)
	gW := make([]float64, len(m.W))
	bias := []float64{m.B}
	gb := []float64{0}

	for ep := 0; ep < m.Epochs; ep++ {
		xs, ys := loader.ShuffleData(X, Y, m.rng)
		if err := func() error {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			for batch := range data.Batcher(ctx, data.Emit(ctx, xs, ys), m.BatchSize) {
				p, err := m.PredictProba(batch.X)
				if err != nil {
					return err
				}

				for j := range gW {
					gW[j] = 0
				}
				gb[0] = 0
				n := float64(len(batch.Y))
				for i, row := range batch.X {
					d := (p[i] - batch.Y[i]) / n
					for j, xij := range row {
						gW[j] += d * xij
					}
					gb[0] += d
				}

				opt.Step([]optim.Param{{Value: m.W, Grad: gW}, {Value: bias, Grad: gb}})
				m.B = bias[0]
			}
			return ctx.Err()
		}(); err != nil {
			return err
		}
	}
	return nil
}

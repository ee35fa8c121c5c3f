package nn_test

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/nn"
	"github.com/kaybrian/Water-Quality-Model/pkg/optim"
)

func blobs(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	Y := make([]float64, n)
	for i := range X {
		c := -2.0
		if i%2 == 1 {
			c = 2
			Y[i] = 1
		}
		X[i] = []float64{c + rng.NormFloat64(), c + rng.NormFloat64()}
	}
	return X, Y
}

func newNet(t *testing.T, seed int64) *nn.Sequential {
	t.Helper()
	hidden, err := nn.NewDense(8, "relu", nn.WithRegularizer(nn.L2(0.001)))
	if err != nil {
		t.Fatal(err)
	}
	out, err := nn.NewDense(1, "sigmoid")
	if err != nil {
		t.Fatal(err)
	}
	net := nn.NewSequential(2, seed).Add(hidden, out)
	if err := net.Compile(optim.NewAdam(0.01), nn.LossBinaryCrossEntropy); err != nil {
		t.Fatal(err)
	}
	return net
}

func TestFit_LearnsSeparableData(t *testing.T) {
	X, Y := blobs(200, 1)
	net := newNet(t, 42)

	hist, err := net.Fit(context.Background(), X, Y, nn.FitConfig{
		Epochs:          50,
		BatchSize:       16,
		ValidationSplit: 0.2,
		Shuffle:         true,
		Seed:            42,
	})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if hist.Epochs() != 50 || len(hist.ValLoss) != 50 || len(hist.ValAccuracy) != 50 {
		t.Fatalf("history lengths %d/%d", hist.Epochs(), len(hist.ValLoss))
	}
	if hist.Loss[49] >= hist.Loss[0] {
		t.Fatalf("loss did not decrease: %v -> %v", hist.Loss[0], hist.Loss[49])
	}

	Xt, Yt := blobs(100, 2)
	loss, acc, err := net.Evaluate(Xt, Yt)
	if err != nil {
		t.Fatal(err)
	}
	if acc < 0.95 {
		t.Fatalf("accuracy = %v (loss %v)", acc, loss)
	}

	preds, err := net.Predict(Xt)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range preds {
		if p != 0 && p != 1 {
			t.Fatalf("prediction %d not binary", p)
		}
	}
}

func TestFit_Errors(t *testing.T) {
	X, Y := blobs(10, 1)

	out, _ := nn.NewDense(1, "sigmoid")
	uncompiled := nn.NewSequential(2, 1).Add(out)
	if _, err := uncompiled.Fit(context.Background(), X, Y, nn.FitConfig{Epochs: 1, BatchSize: 4}); !errors.Is(err, nn.ErrNotCompiled) {
		t.Fatalf("err = %v, want ErrNotCompiled", err)
	}

	net := newNet(t, 1)
	if _, err := net.Fit(context.Background(), X, Y[:5], nn.FitConfig{Epochs: 1, BatchSize: 4}); !errors.Is(err, nn.ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
	if _, err := net.PredictProba([][]float64{{1, 2, 3}}); !errors.Is(err, nn.ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := net.Fit(ctx, X, Y, nn.FitConfig{Epochs: 3, BatchSize: 2}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCompile_Errors(t *testing.T) {
	if err := nn.NewSequential(2, 1).Compile(optim.NewSGD(0.1), nn.LossMSE); !errors.Is(err, nn.ErrNoLayers) {
		t.Fatalf("err = %v, want ErrNoLayers", err)
	}
	two, _ := nn.NewDense(2, "sigmoid")
	if err := nn.NewSequential(2, 1).Add(two).Compile(optim.NewSGD(0.1), nn.LossMSE); !errors.Is(err, nn.ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
	one, _ := nn.NewDense(1, "sigmoid")
	if err := nn.NewSequential(2, 1).Add(one).Compile(optim.NewSGD(0.1), "hinge"); !errors.Is(err, nn.ErrUnknownLoss) {
		t.Fatalf("err = %v, want ErrUnknownLoss", err)
	}
	if _, err := nn.NewDense(4, "tanh"); !errors.Is(err, nn.ErrUnknownActivation) {
		t.Fatalf("err = %v, want ErrUnknownActivation", err)
	}
}

func TestEarlyStopping_StopsAndRestores(t *testing.T) {
	net := newNet(t, 3)
	es := nn.NewEarlyStopping(3, true)

	var snapshot [][]float64
	losses := []float64{1, 0.5, 0.6, 0.7, 0.8, 0.1}
	stoppedAt := 0
	for i, l := range losses {
		epoch := i + 1
		if es.OnEpochEnd(epoch, nn.EpochLogs{ValLoss: l, HasValidation: true}, net) {
			stoppedAt = epoch
			break
		}
		if epoch == 2 {
			snapshot = net.Weights()
		}
		// simulate training moving the weights
		w := net.Weights()
		for _, p := range w {
			for j := range p {
				p[j] += 0.5
			}
		}
		if err := net.SetWeights(w); err != nil {
			t.Fatal(err)
		}
	}

	if stoppedAt != 5 || es.StoppedEpoch != 5 {
		t.Fatalf("stopped at %d, want 5", stoppedAt)
	}
	if es.BestEpoch != 2 || es.Best() != 0.5 {
		t.Fatalf("best epoch %d value %v", es.BestEpoch, es.Best())
	}
	if err := es.OnTrainEnd(net); err != nil {
		t.Fatal(err)
	}
	got := net.Weights()
	for i := range snapshot {
		for j := range snapshot[i] {
			if got[i][j] != snapshot[i][j] {
				t.Fatalf("weights not restored at %d/%d", i, j)
			}
		}
	}
}

func TestEarlyStopping_IgnoresMissingMetric(t *testing.T) {
	es := nn.NewEarlyStopping(1, false)
	for epoch := 1; epoch <= 5; epoch++ {
		if es.OnEpochEnd(epoch, nn.EpochLogs{Loss: 1}, nil) {
			t.Fatal("stopped without val_loss")
		}
	}
	if !math.IsNaN(es.Best()) {
		t.Fatalf("best = %v, want NaN when val_loss never arrived", es.Best())
	}
}

func TestFit_EarlyStoppingEndsHistory(t *testing.T) {
	X, Y := blobs(100, 5)
	net := newNet(t, 5)
	es := &nn.EarlyStopping{Monitor: "val_loss", Patience: 2, MinDelta: 10, RestoreBestWeights: true}

	hist, err := net.Fit(context.Background(), X, Y, nn.FitConfig{
		Epochs: 30, BatchSize: 10, ValidationSplit: 0.2, Callbacks: []nn.Callback{es},
	})
	if err != nil {
		t.Fatal(err)
	}
	// nothing beats the first epoch by 10, so training stops after patience runs out
	if hist.StoppedEpoch != 3 || hist.Epochs() != 3 || es.BestEpoch != 1 {
		t.Fatalf("stopped %d epochs %d best %d", hist.StoppedEpoch, hist.Epochs(), es.BestEpoch)
	}
}

func TestSequential_JSONRoundTripPredictsTheSame(t *testing.T) {
	X, Y := blobs(60, 9)
	net := newNet(t, 9)
	if _, err := net.Fit(context.Background(), X, Y, nn.FitConfig{Epochs: 3, BatchSize: 8}); err != nil {
		t.Fatal(err)
	}

	b, err := json.Marshal(net)
	if err != nil {
		t.Fatal(err)
	}
	var loaded nn.Sequential
	if err := json.Unmarshal(b, &loaded); err != nil {
		t.Fatal(err)
	}

	want, _ := net.PredictProba(X)
	got, err := loaded.PredictProba(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-12 {
			t.Fatalf("row %d: %v != %v", i, got[i], want[i])
		}
	}
	if loaded.Layers[0].Regularizer == nil || loaded.Layers[0].Regularizer.Spec().Kind != "l2" {
		t.Fatal("regularizer lost")
	}
	if _, _, err := loaded.Evaluate(X, Y); err != nil {
		t.Fatalf("evaluate loaded: %v", err)
	}
}

func TestZeroWidthLayersAreRejected(t *testing.T) {
	if _, err := nn.NewDense(0, "relu"); !errors.Is(err, nn.ErrShapeMismatch) {
		t.Fatalf("NewDense(0): err = %v, want ErrShapeMismatch", err)
	}

	hidden, _ := nn.NewDense(4, "relu")
	out, _ := nn.NewDense(1, "sigmoid")
	net := nn.NewSequential(0, 1).Add(hidden, out)
	if err := net.Compile(optim.NewAdam(0.001), nn.LossBinaryCrossEntropy); !errors.Is(err, nn.ErrShapeMismatch) {
		t.Fatalf("compile: err = %v, want ErrShapeMismatch", err)
	}
	if _, err := net.PredictProba([][]float64{{}}); !errors.Is(err, nn.ErrShapeMismatch) {
		t.Fatalf("predict: err = %v, want ErrShapeMismatch", err)
	}
}

func TestSequential_UnmarshalRejectsBadShapes(t *testing.T) {
	for name, raw := range map[string]string{
		"zero input":   `{"input_dim":0,"layers":[{"units":1,"activation":"sigmoid","kernel":[],"bias":[0]}]}`,
		"zero units":   `{"input_dim":2,"layers":[{"units":0,"activation":"relu","kernel":[],"bias":[]}]}`,
		"short kernel": `{"input_dim":2,"layers":[{"units":1,"activation":"sigmoid","kernel":[1],"bias":[0]}]}`,
	} {
		var net nn.Sequential
		if err := json.Unmarshal([]byte(raw), &net); !errors.Is(err, nn.ErrShapeMismatch) {
			t.Errorf("%s: err = %v, want ErrShapeMismatch", name, err)
		}
	}
}

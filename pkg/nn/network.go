package nn

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/kaybrian/Water-Quality-Model/pkg/optim"
)

// Loss names accepted by Compile.
const (
	LossBinaryCrossEntropy = "binary_crossentropy"
	LossMSE                = "mse"
)

var (
	ErrNotCompiled   = errors.New("network is not compiled")
	ErrShapeMismatch = errors.New("input width does not match the network")
	ErrNoLayers      = errors.New("network has no layers")
	ErrEmptyInput    = errors.New("no rows to process")
	ErrUnknownLoss   = errors.New("unknown loss")
)

// Sequential is a stack of dense layers trained end to end.
type Sequential struct {
	InputDim int
	Layers   []*Dense

	loss      string
	optimizer optim.Optimizer
	rng       *rand.Rand
	err       error // first Add failure, reported by Compile and predictions
}

// NewSequential returns an empty network taking inputDim features. seed drives
// weight initialization.
func NewSequential(inputDim int, seed int64) *Sequential {
	return &Sequential{InputDim: inputDim, rng: rand.New(rand.NewSource(seed))}
}

// Add appends layers, building each against the width of the previous one.
// A layer that cannot be built stops the chain; the error surfaces from
// Compile and every prediction.
func (n *Sequential) Add(layers ...*Dense) *Sequential {
	for _, l := range layers {
		if n.err != nil {
			return n
		}
		in := n.InputDim
		if len(n.Layers) > 0 {
			in = n.Layers[len(n.Layers)-1].Units
		}
		if in < 1 || l.Units < 1 {
			n.err = errors.Wrapf(ErrShapeMismatch, "layer %d is %dx%d", len(n.Layers), in, l.Units)
			return n
		}
		l.build(in, n.rng)
		n.Layers = append(n.Layers, l)
	}
	return n
}

// Compile sets the optimizer and loss used by Fit and Evaluate.
func (n *Sequential) Compile(opt optim.Optimizer, loss string) error {
	if n.err != nil {
		return n.err
	}
	if len(n.Layers) == 0 {
		return ErrNoLayers
	}
	if u := n.output().Units; u != 1 {
		return errors.Wrapf(ErrShapeMismatch, "output layer has %d units, want 1", u)
	}
	switch loss {
	case LossBinaryCrossEntropy, LossMSE:
	default:
		return errors.Wrapf(ErrUnknownLoss, "%q", loss)
	}
	n.optimizer = opt
	n.loss = loss
	return nil
}

// Compiled reports whether Compile has been called.
func (n *Sequential) Compiled() bool { return n.optimizer != nil }

func (n *Sequential) output() *Dense { return n.Layers[len(n.Layers)-1] }

func (n *Sequential) toMatrix(X [][]float64) (*mat.Dense, error) {
	if n.err != nil {
		return nil, n.err
	}
	if len(n.Layers) == 0 {
		return nil, ErrNoLayers
	}
	if len(X) == 0 {
		return nil, ErrEmptyInput
	}
	m := mat.NewDense(len(X), n.InputDim, nil)
	for i, row := range X {
		if len(row) != n.InputDim {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d features, want %d", i, len(row), n.InputDim)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

func (n *Sequential) forward(x *mat.Dense) []float64 {
	a := x
	for _, l := range n.Layers {
		a = l.forward(a)
	}
	return mat.Col(nil, 0, a)
}

func (n *Sequential) penalty() float64 {
	s := 0.0
	for _, l := range n.Layers {
		s += l.penalty()
	}
	return s
}

// lossOf returns the data loss plus the regularization penalty, and dL/dp.
func (n *Sequential) lossOf(y, p []float64) (float64, []float64) {
	var l float64
	var grad []float64
	if n.loss == LossMSE {
		l, grad = MSE(y, p)
	} else {
		l, grad = BCE(y, p)
	}
	return l + n.penalty(), grad
}

// trainStep runs one forward/backward pass and an optimizer step. It returns
// the batch loss and the number of correct predictions.
func (n *Sequential) trainStep(X [][]float64, Y []float64) (float64, int, error) {
	x, err := n.toMatrix(X)
	if err != nil {
		return 0, 0, err
	}
	p := n.forward(x)
	loss, grad := n.lossOf(Y, p)

	out := n.output()
	rows := len(Y)
	var dA *mat.Dense
	if n.loss == LossBinaryCrossEntropy && out.Activation.Name == "sigmoid" {
		// sigmoid + cross-entropy: dL/dz = (p - y) / n
		dZ := mat.NewDense(rows, 1, nil)
		for i := range Y {
			dZ.Set(i, 0, (p[i]-Y[i])/float64(rows))
		}
		dA = out.backwardZ(dZ)
	} else {
		dA = out.backward(mat.NewDense(rows, 1, grad))
	}
	for i := len(n.Layers) - 2; i >= 0; i-- {
		dA = n.Layers[i].backward(dA)
	}

	n.optimizer.Step(n.params())
	return loss, correct(Y, p), nil
}

func correct(y, p []float64) int {
	c := 0
	for i := range y {
		var label float64
		if p[i] > 0.5 {
			label = 1
		}
		if label == y[i] {
			c++
		}
	}
	return c
}

func (n *Sequential) params() []optim.Param {
	var ps []optim.Param
	for _, l := range n.Layers {
		ps = append(ps, l.params()...)
	}
	return ps
}

// PredictProba returns the output unit for each row: p(y=1) for a sigmoid head.
func (n *Sequential) PredictProba(X [][]float64) ([]float64, error) {
	x, err := n.toMatrix(X)
	if err != nil {
		return nil, err
	}
	return n.forward(x), nil
}

// Predict thresholds PredictProba at 0.5.
func (n *Sequential) Predict(X [][]float64) ([]int, error) {
	p, err := n.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(p))
	for i, v := range p {
		if v > 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// Evaluate returns the loss (with penalty) and accuracy on X, Y.
func (n *Sequential) Evaluate(X [][]float64, Y []float64) (loss, accuracy float64, err error) {
	if n.loss == "" {
		return 0, 0, ErrNotCompiled
	}
	p, err := n.PredictProba(X)
	if err != nil {
		return 0, 0, err
	}
	loss, _ = n.lossOf(Y, p)
	return loss, float64(correct(Y, p)) / float64(len(Y)), nil
}

// Weights returns a copy of every parameter, layer by layer.
func (n *Sequential) Weights() [][]float64 {
	var out [][]float64
	for _, p := range n.params() {
		out = append(out, append([]float64(nil), p.Value...))
	}
	return out
}

// SetWeights copies w, as returned by Weights, back into the network.
func (n *Sequential) SetWeights(w [][]float64) error {
	ps := n.params()
	if len(ps) != len(w) {
		return errors.Wrapf(ErrShapeMismatch, "got %d parameter sets, want %d", len(w), len(ps))
	}
	for i, p := range ps {
		if len(p.Value) != len(w[i]) {
			return errors.Wrapf(ErrShapeMismatch, "parameter %d has %d values, want %d", i, len(w[i]), len(p.Value))
		}
		copy(p.Value, w[i])
	}
	return nil
}

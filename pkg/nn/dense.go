package nn

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/kaybrian/Water-Quality-Model/pkg/optim"
)

// Dense is a fully connected layer: A = act(X·W + b).
type Dense struct {
	Units       int
	Activation  Activation
	Regularizer Regularizer

	W *mat.Dense // in × units
	B []float64

	dW *mat.Dense
	dB []float64

	// forward cache for the last batch
	x *mat.Dense
	z *mat.Dense
}

// LayerOption configures a Dense layer.
type LayerOption func(*Dense)

// WithRegularizer penalizes the layer kernel.
func WithRegularizer(r Regularizer) LayerOption {
	return func(d *Dense) { d.Regularizer = r }
}

// NewDense returns a layer with units outputs. Weights are allocated when the
// layer is added to a network and its input width is known.
func NewDense(units int, activation string, opts ...LayerOption) (*Dense, error) {
	if units < 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "dense layer needs at least one unit, got %d", units)
	}
	act, err := ActivationByName(activation)
	if err != nil {
		return nil, err
	}
	d := &Dense{Units: units, Activation: act}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// build allocates parameters with Glorot-uniform kernel and zero bias.
func (d *Dense) build(in int, rng *rand.Rand) {
	limit := math.Sqrt(6 / float64(in+d.Units))
	w := make([]float64, in*d.Units)
	for i := range w {
		w[i] = (rng.Float64()*2 - 1) * limit
	}
	d.W = mat.NewDense(in, d.Units, w)
	d.B = make([]float64, d.Units)
	d.dW = mat.NewDense(in, d.Units, nil)
	d.dB = make([]float64, d.Units)
}

func (d *Dense) inputs() int {
	r, _ := d.W.Dims()
	return r
}

// forward computes the layer output for a batch and caches what backward needs.
func (d *Dense) forward(x *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	z := mat.NewDense(n, d.Units, nil)
	z.Mul(x, d.W)
	for i := 0; i < n; i++ {
		floats.Add(z.RawRowView(i), d.B)
	}
	a := mat.NewDense(n, d.Units, nil)
	a.Apply(func(_, _ int, v float64) float64 { return d.Activation.Fn(v) }, z)
	d.x, d.z = x, z
	return a
}

// backward takes dL/dA, stores the parameter gradients and returns dL/dX.
func (d *Dense) backward(dA *mat.Dense) *mat.Dense {
	n, _ := dA.Dims()
	dZ := mat.NewDense(n, d.Units, nil)
	dZ.Apply(func(i, j int, v float64) float64 { return v * d.Activation.Prime(d.z.At(i, j)) }, dA)
	return d.backwardZ(dZ)
}

// backwardZ is backward given dL/dZ directly.
func (d *Dense) backwardZ(dZ *mat.Dense) *mat.Dense {
	d.dW.Mul(d.x.T(), dZ)
	if d.Regularizer != nil {
		d.Regularizer.Grad(d.W.RawMatrix().Data, d.dW.RawMatrix().Data)
	}

	n, _ := dZ.Dims()
	for j := range d.dB {
		d.dB[j] = 0
	}
	for i := 0; i < n; i++ {
		floats.Add(d.dB, dZ.RawRowView(i))
	}

	in := d.inputs()
	dX := mat.NewDense(n, in, nil)
	dX.Mul(dZ, d.W.T())
	return dX
}

func (d *Dense) penalty() float64 {
	if d.Regularizer == nil {
		return 0
	}
	return d.Regularizer.Penalty(d.W.RawMatrix().Data)
}

func (d *Dense) params() []optim.Param {
	return []optim.Param{
		{Value: d.W.RawMatrix().Data, Grad: d.dW.RawMatrix().Data},
		{Value: d.B, Grad: d.dB},
	}
}

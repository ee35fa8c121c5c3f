package nn

import (
	"encoding/json"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type layerJSON struct {
	Units       int              `json:"units"`
	Activation  string           `json:"activation"`
	Regularizer *RegularizerSpec `json:"regularizer,omitempty"`
	Kernel      []float64        `json:"kernel"`
	Bias        []float64        `json:"bias"`
}

type networkJSON struct {
	InputDim int         `json:"input_dim"`
	Loss     string      `json:"loss,omitempty"`
	Layers   []layerJSON `json:"layers"`
}

// MarshalJSON writes the architecture and weights. Optimizer state is not kept;
// a loaded network predicts straight away but must be compiled to train.
func (n *Sequential) MarshalJSON() ([]byte, error) {
	out := networkJSON{InputDim: n.InputDim, Loss: n.loss}
	for _, l := range n.Layers {
		lj := layerJSON{
			Units:      l.Units,
			Activation: l.Activation.Name,
			Kernel:     append([]float64(nil), l.W.RawMatrix().Data...),
			Bias:       append([]float64(nil), l.B...),
		}
		if l.Regularizer != nil {
			spec := l.Regularizer.Spec()
			lj.Regularizer = &spec
		}
		out.Layers = append(out.Layers, lj)
	}
	return json.Marshal(out)
}

func (n *Sequential) UnmarshalJSON(b []byte) error {
	var in networkJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if len(in.Layers) == 0 {
		return ErrNoLayers
	}
	if in.InputDim < 1 {
		return errors.Wrapf(ErrShapeMismatch, "input_dim %d", in.InputDim)
	}

	n.InputDim = in.InputDim
	n.Layers = nil
	n.err = nil
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(1))
	}
	width := in.InputDim
	for i, lj := range in.Layers {
		act, err := ActivationByName(lj.Activation)
		if err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
		reg, err := regularizerFromSpec(lj.Regularizer)
		if err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
		if lj.Units < 1 {
			return errors.Wrapf(ErrShapeMismatch, "layer %d has %d units", i, lj.Units)
		}
		if len(lj.Kernel) != width*lj.Units || len(lj.Bias) != lj.Units {
			return errors.Wrapf(ErrShapeMismatch, "layer %d weights do not fit %dx%d", i, width, lj.Units)
		}
		n.Layers = append(n.Layers, &Dense{
			Units:       lj.Units,
			Activation:  act,
			Regularizer: reg,
			W:           mat.NewDense(width, lj.Units, append([]float64(nil), lj.Kernel...)),
			B:           append([]float64(nil), lj.Bias...),
			dW:          mat.NewDense(width, lj.Units, nil),
			dB:          make([]float64, lj.Units),
		})
		width = lj.Units
	}
	// evaluation works without an optimizer
	n.loss = in.Loss
	return nil
}

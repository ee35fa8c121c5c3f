package nn

import (
	"math"

	"github.com/pkg/errors"
)

func Sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

func SigmoidPrime(x float64) float64 { s := Sigmoid(x); return s * (1 - s) }

func ReLU(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func ReLUPrime(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

func identity(x float64) float64 { return x }

func one(float64) float64 { return 1 }

// Activation is an element-wise function and its derivative with respect to
// the pre-activation.
type Activation struct {
	Name  string
	Fn    func(float64) float64
	Prime func(float64) float64
}

var activations = map[string]Activation{
	"relu":    {Name: "relu", Fn: ReLU, Prime: ReLUPrime},
	"sigmoid": {Name: "sigmoid", Fn: Sigmoid, Prime: SigmoidPrime},
	"linear":  {Name: "linear", Fn: identity, Prime: one},
}

var ErrUnknownActivation = errors.New("unknown activation")

// ActivationByName looks up a registered activation.
func ActivationByName(name string) (Activation, error) {
	a, ok := activations[name]
	if !ok {
		return Activation{}, errors.Wrapf(ErrUnknownActivation, "%q", name)
	}
	return a, nil
}

package nn

import (
	"math"

	"github.com/pkg/errors"
)

// Regularizer penalizes a layer kernel. Penalty is added to the loss and Grad
// adds the penalty gradient into g.
type Regularizer interface {
	Penalty(w []float64) float64
	Grad(w, g []float64)
	Spec() RegularizerSpec
}

// RegularizerSpec is the serialized form of a regularizer.
type RegularizerSpec struct {
	Kind   string  `json:"kind"`
	Lambda float64 `json:"lambda"`
}

type l1 struct{ lambda float64 }

// L1 returns lambda * sum(|w|).
func L1(lambda float64) Regularizer { return l1{lambda} }

func (r l1) Penalty(w []float64) float64 {
	s := 0.0
	for _, v := range w {
		s += math.Abs(v)
	}
	return r.lambda * s
}

func (r l1) Grad(w, g []float64) {
	for i, v := range w {
		switch {
		case v > 0:
			g[i] += r.lambda
		case v < 0:
			g[i] -= r.lambda
		}
	}
}

func (r l1) Spec() RegularizerSpec { return RegularizerSpec{Kind: "l1", Lambda: r.lambda} }

type l2 struct{ lambda float64 }

// L2 returns lambda * sum(w^2).
func L2(lambda float64) Regularizer { return l2{lambda} }

func (r l2) Penalty(w []float64) float64 {
	s := 0.0
	for _, v := range w {
		s += v * v
	}
	return r.lambda * s
}

func (r l2) Grad(w, g []float64) {
	for i, v := range w {
		g[i] += 2 * r.lambda * v
	}
}

func (r l2) Spec() RegularizerSpec { return RegularizerSpec{Kind: "l2", Lambda: r.lambda} }

var ErrUnknownRegularizer = errors.New("unknown regularizer")

func regularizerFromSpec(s *RegularizerSpec) (Regularizer, error) {
	if s == nil {
		return nil, nil
	}
	switch s.Kind {
	case "l1":
		return L1(s.Lambda), nil
	case "l2":
		return L2(s.Lambda), nil
	}
	return nil, errors.Wrapf(ErrUnknownRegularizer, "%q", s.Kind)
}

package optim

import "math"

// Adam keeps first and second moment estimates per parameter. Defaults follow
// Keras: lr 0.001, beta1 0.9, beta2 0.999, epsilon 1e-7.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	t    int
	m, v [][]float64
}

func NewAdam(lr float64) *Adam {
	return &Adam{LearningRate: lr, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}
}

func (o *Adam) Step(params []Param) {
	if len(o.m) != len(params) {
		o.m = make([][]float64, len(params))
		o.v = make([][]float64, len(params))
		for i, p := range params {
			o.m[i] = make([]float64, len(p.Value))
			o.v[i] = make([]float64, len(p.Value))
		}
		o.t = 0
	}
	o.t++
	t := float64(o.t)
	lr := o.LearningRate * math.Sqrt(1-math.Pow(o.Beta2, t)) / (1 - math.Pow(o.Beta1, t))

	for k, p := range params {
		m, v := o.m[k], o.v[k]
		for i, g := range p.Grad {
			m[i] = o.Beta1*m[i] + (1-o.Beta1)*g
			v[i] = o.Beta2*v[i] + (1-o.Beta2)*g*g
			p.Value[i] -= lr * m[i] / (math.Sqrt(v[i]) + o.Epsilon)
		}
	}
}

// Reset clears the moment estimates.
func (o *Adam) Reset() {
	o.t = 0
	o.m, o.v = nil, nil
}

package optim

// Param pairs a flat parameter slice with its gradient of the same length.
type Param struct {
	Value []float64
	Grad  []float64
}

// Optimizer updates parameters in place from their gradients.
type Optimizer interface {
	Step(params []Param)
}

// Stochastic Gradient Descent optimizer with learning rate
type SGD struct{ LearningRate float64 }

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

func (o *SGD) Step(params []Param) {
	for _, p := range params {
		for i := range p.Value {
			p.Value[i] -= o.LearningRate * p.Grad[i]
		}
	}
}

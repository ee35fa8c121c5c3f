package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/kaybrian/Water-Quality-Model/pkg/optim"
)

type nopOptimizer struct{}

func (nopOptimizer) Step([]optim.Param) {}

func mustDense(t *testing.T, units int, act string, opts ...LayerOption) *Dense {
	t.Helper()
	d, err := NewDense(units, act, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBackpropMatchesNumericalGradient(t *testing.T) {
	net := NewSequential(3, 7).Add(
		mustDense(t, 4, "relu", WithRegularizer(L1(0.01))),
		mustDense(t, 3, "relu", WithRegularizer(L2(0.01))),
		mustDense(t, 1, "sigmoid"),
	)
	if err := net.Compile(nopOptimizer{}, LossBinaryCrossEntropy); err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(3))
	X := make([][]float64, 6)
	Y := make([]float64, 6)
	for i := range X {
		X[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		Y[i] = float64(i % 2)
	}

	if _, _, err := net.trainStep(X, Y); err != nil {
		t.Fatal(err)
	}
	var analytic [][]float64
	for _, p := range net.params() {
		analytic = append(analytic, append([]float64(nil), p.Grad...))
	}

	x, err := net.toMatrix(X)
	if err != nil {
		t.Fatal(err)
	}
	lossAt := func() float64 {
		l, _ := net.lossOf(Y, net.forward(x))
		return l
	}

	const eps = 1e-6
	for k, p := range net.params() {
		for i := range p.Value {
			orig := p.Value[i]
			p.Value[i] = orig + eps
			up := lossAt()
			p.Value[i] = orig - eps
			down := lossAt()
			p.Value[i] = orig

			num := (up - down) / (2 * eps)
			got := analytic[k][i]
			if math.Abs(num-got) > 1e-6+1e-4*math.Max(math.Abs(num), math.Abs(got)) {
				t.Errorf("param %d[%d]: analytic %v, numerical %v", k, i, got, num)
			}
		}
	}
}

func TestMSEBackpropMatchesNumericalGradient(t *testing.T) {
	net := NewSequential(2, 11).Add(
		mustDense(t, 3, "sigmoid"),
		mustDense(t, 1, "linear"),
	)
	if err := net.Compile(nopOptimizer{}, LossMSE); err != nil {
		t.Fatal(err)
	}
	X := [][]float64{{0.5, -1}, {1.5, 0.2}, {-0.3, 0.7}}
	Y := []float64{1, 0, 1}
	if _, _, err := net.trainStep(X, Y); err != nil {
		t.Fatal(err)
	}
	x, _ := net.toMatrix(X)

	const eps = 1e-6
	for _, p := range net.params() {
		for i := range p.Value {
			orig := p.Value[i]
			p.Value[i] = orig + eps
			up, _ := net.lossOf(Y, net.forward(x))
			p.Value[i] = orig - eps
			down, _ := net.lossOf(Y, net.forward(x))
			p.Value[i] = orig

			num := (up - down) / (2 * eps)
			if math.Abs(num-p.Grad[i]) > 1e-6+1e-4*math.Abs(num) {
				t.Errorf("analytic %v, numerical %v", p.Grad[i], num)
			}
		}
	}
}

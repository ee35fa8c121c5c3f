package nn

import "math"

// Epsilon clips probabilities away from 0 and 1 before taking logs.
const Epsilon = 1e-7

// Mean Squared Error(MSE) and its gradient for regression
func MSE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := 0; i < n; i++ {
		e := yPred[i] - yTrue[i]
		s += e * e
		grad[i] = 2 * e / float64(n)
	}
	return s / float64(n), grad
}

// Binary cross-entropy loss and its gradient with respect to the predicted
// probabilities.
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred[i], Epsilon), 1-Epsilon)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (p - y) / (p * (1 - p)) / float64(n)
	}
	return s / float64(n), grad
}

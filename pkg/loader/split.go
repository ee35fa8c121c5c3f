package loader

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles X, Y with a seeded permutation and holds out
// ceil(n*testRatio) rows for testing.
func TrainTestSplit(X [][]float64, Y []float64, testRatio float64, seed int64) (XTrain, XTest [][]float64, YTrain, YTest []float64) {
	n := len(X)
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Ceil(float64(n) * testRatio))
	for i := 0; i < n; i++ {
		if i < nTest {
			XTest = append(XTest, X[indices[i]])
			YTest = append(YTest, Y[indices[i]])
		} else {
			XTrain = append(XTrain, X[indices[i]])
			YTrain = append(YTrain, Y[indices[i]])
		}
	}
	return
}

// ValidationSplit holds out the last ratio of the rows, unshuffled.
func ValidationSplit(X [][]float64, Y []float64, ratio float64) (XTrain, XVal [][]float64, YTrain, YVal []float64) {
	at := int(float64(len(X)) * (1 - ratio))
	return X[:at], X[at:], Y[:at], Y[at:]
}

// ShuffleData shuffles X and Y in unison.
func ShuffleData(X [][]float64, Y []float64, rng *rand.Rand) ([][]float64, []float64) {
	n := len(X)
	indices := rng.Perm(n)
	XShuf := make([][]float64, n)
	YShuf := make([]float64, n)
	for i, idx := range indices {
		XShuf[i] = X[idx]
		YShuf[i] = Y[idx]
	}
	return XShuf, YShuf
}

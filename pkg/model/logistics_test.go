package model_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kaybrian/Water-Quality-Model/pkg/model"
)

func blobs(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	Y := make([]float64, n)
	for i := range X {
		c := -2.0
		if i%2 == 1 {
			c = 2
			Y[i] = 1
		}
		X[i] = []float64{c + rng.NormFloat64(), c + rng.NormFloat64()}
	}
	return X, Y
}

func TestLogisticRegression_Baseline(t *testing.T) {
	X, Y := blobs(200, 1)
	var clf model.Classifier = model.NewLogisticRegression(2, 0.1, 30, 16, 42)

	lr := clf.(*model.LogisticRegression)
	if err := lr.Fit(context.Background(), X, Y); err != nil {
		t.Fatal(err)
	}

	Xt, Yt := blobs(100, 2)
	pred, err := clf.Predict(Xt)
	if err != nil {
		t.Fatal(err)
	}
	if acc := model.Accuracy(model.Labels(Yt), pred); acc < 0.95 {
		t.Fatalf("accuracy = %v", acc)
	}

	if _, err := clf.PredictProba([][]float64{{1}}); err == nil {
		t.Fatal("expected shape error")
	}
}

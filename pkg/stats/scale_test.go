package stats_test

import (
	"math"
	"testing"

	"github.com/kaybrian/Water-Quality-Model/pkg/stats"
)

func TestStandardScaler_ZeroMeanUnitStd(t *testing.T) {
	X := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
		{4, 40, 5},
	}
	s := stats.NewStandardScaler()
	out, err := s.FitTransform(X)
	if err != nil {
		t.Fatalf("fit transform: %v", err)
	}

	for j := 0; j < 2; j++ {
		col := stats.Column(out, j)
		if m := stats.Mean(col); math.Abs(m) > 1e-12 {
			t.Errorf("column %d mean = %v", j, m)
		}
		if sd := stats.Std(col); math.Abs(sd-1) > 1e-12 {
			t.Errorf("column %d std = %v", j, sd)
		}
	}
	// constant column maps to zero, not NaN
	for i := range out {
		if out[i][2] != 0 {
			t.Fatalf("constant column row %d = %v", i, out[i][2])
		}
	}
}

func TestStandardScaler_TransformUsesFittedParams(t *testing.T) {
	s := stats.NewStandardScaler()
	if err := s.Fit([][]float64{{0}, {2}}); err != nil {
		t.Fatal(err)
	}
	out, err := s.Transform([][]float64{{4}})
	if err != nil {
		t.Fatal(err)
	}
	if out[0][0] != 3 {
		t.Fatalf("got %v, want 3", out[0][0])
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	s := stats.NewStandardScaler()
	if _, err := s.Transform([][]float64{{1}}); err == nil {
		t.Fatal("expected error before fit")
	}
	if err := s.Fit([][]float64{{1, 2}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Transform([][]float64{{1}}); err == nil {
		t.Fatal("expected shape error")
	}
}

func TestMedian(t *testing.T) {
	if got := stats.Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("odd median = %v", got)
	}
	if got := stats.Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("even median = %v", got)
	}
}

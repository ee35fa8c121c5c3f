package model_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kaybrian/Water-Quality-Model/pkg/model"
	"github.com/kaybrian/Water-Quality-Model/pkg/nn"
	"github.com/kaybrian/Water-Quality-Model/pkg/pipeline"
)

func newBundle(t *testing.T) *model.Bundle {
	t.Helper()
	p, err := pipeline.New("mean")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Fit([][]float64{{1, 10}, {3, 30}, {math.NaN(), 20}}); err != nil {
		t.Fatal(err)
	}
	hidden, _ := nn.NewDense(4, "relu", nn.WithRegularizer(nn.L1(0.001)))
	out, _ := nn.NewDense(1, "sigmoid")
	return &model.Bundle{
		Schema:    pipeline.Schema{Features: []string{"ph", "Hardness"}, Target: "Potability"},
		Pipeline:  p,
		Network:   nn.NewSequential(2, 42).Add(hidden, out),
		Threshold: 0.5,
		TrainedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBundle_SaveLoadPredictsTheSame(t *testing.T) {
	b := newBundle(t)
	path := filepath.Join(t.TempDir(), "models", "water_quality_model.json")
	if err := b.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := model.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.TrainedAt.Equal(b.TrainedAt) || loaded.Schema.Target != "Potability" {
		t.Fatalf("metadata lost: %+v", loaded)
	}

	cols := []string{"ph", "Hardness"}
	X := [][]float64{{2, 20}, {math.NaN(), 5}, {7, 100}}
	want, err := b.PredictProba(cols, X)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loaded.PredictProba(cols, X)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-12 {
			t.Fatalf("row %d: %v != %v", i, got[i], want[i])
		}
	}

	// column order in the input does not matter
	swapped, err := loaded.PredictProba([]string{"Hardness", "ph"}, [][]float64{{20, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(swapped[0]-want[0]) > 1e-12 {
		t.Fatalf("swapped columns gave %v, want %v", swapped[0], want[0])
	}

	labels, err := loaded.Predict(cols, X)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range labels {
		if l != 0 && l != 1 {
			t.Fatalf("label %d not binary", l)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := model.Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	network := `{"input_dim":1,"layers":[{"units":1,"activation":"sigmoid","kernel":[0.5],"bias":[0]}]}`
	prep := `{"imputer":{"strategy":"mean","fill":[0]},"scaler":{"mean":[0],"std":[1]}}`
	for name, raw := range map[string]string{
		"empty pipeline": `{"pipeline":{},"network":` + network + `}`,
		"no scaler":      `{"pipeline":{"imputer":{"strategy":"mean","fill":[0]}},"network":` + network + `}`,
		"zero units":     `{"pipeline":` + prep + `,"network":{"input_dim":2,"layers":[{"units":0,"activation":"relu","kernel":[],"bias":[]}]}}`,
		"zero input":     `{"pipeline":` + prep + `,"network":{"input_dim":0,"layers":[{"units":1,"activation":"sigmoid","kernel":[],"bias":[0]}]}}`,
	} {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".json")
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := model.Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestBundle_SaveCleansUpOnRenameFailure(t *testing.T) {
	// a non-empty directory at the target path makes the rename fail
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.MkdirAll(filepath.Join(path, "occupied"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := newBundle(t).Save(path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

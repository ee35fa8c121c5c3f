// Package app wires the preprocessing, training, evaluation and reporting
// stages into the commands the CLI exposes.
package app

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kaybrian/Water-Quality-Model/internal/config"
	"github.com/kaybrian/Water-Quality-Model/pkg/data"
	"github.com/kaybrian/Water-Quality-Model/pkg/model"
	"github.com/kaybrian/Water-Quality-Model/pkg/viz"
)

// Plot file names written under Config.PlotDir.
const (
	ConfusionPlotFile = "confusion_matrix.png"
	HistoryPlotFile   = "training_history.png"
)

type App struct {
	Config config.Config
	Log    zerolog.Logger
	Out    io.Writer
}

func New(cfg config.Config, log zerolog.Logger, out io.Writer) *App {
	return &App{Config: cfg, Log: log, Out: out}
}

// load reads a CSV and logs its shape and missing cells.
func (a *App) load(path string) (*data.Dataset, error) {
	ds, err := data.LoadCSV(path, a.Config.Target)
	if err != nil {
		return nil, err
	}

	missing := ds.MissingCounts()
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	d := zerolog.Dict()
	for _, name := range names {
		d = d.Int(name, missing[name])
	}
	a.Log.Info().
		Str("path", path).
		Int("rows", ds.NRows()).
		Int("features", len(ds.Features)).
		Bool("labelled", ds.HasTarget()).
		Dict("missing", d).
		Msg("dataset loaded")
	return ds, nil
}

// report prints the classification report and accuracy, and writes the
// confusion heatmap.
func (a *App) report(yTrue, yPred []int) (model.ConfusionMatrix, model.Report, error) {
	cm := model.NewConfusionMatrix(yTrue, yPred)
	rep := model.ClassificationReport(cm)

	path := filepath.Join(a.Config.PlotDir, ConfusionPlotFile)
	if err := viz.ConfusionHeatmap(cm, path); err != nil {
		return cm, rep, errors.Wrap(err, "confusion plot")
	}
	a.Log.Info().Str("path", path).Msg("confusion matrix plotted")

	fmt.Fprintf(a.Out, "Classification Report:\n %s\n", rep)
	fmt.Fprintf(a.Out, "Test Accuracy: %v\n", rep.Accuracy)
	return cm, rep, nil
}

package app

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/data"
	"github.com/kaybrian/Water-Quality-Model/pkg/model"
)

// Evaluate scores the saved model against the labelled CSV at path.
func (a *App) Evaluate(ctx context.Context, path string) (model.Report, error) {
	bundle, err := model.Load(a.Config.ModelPath)
	if err != nil {
		return model.Report{}, err
	}
	ds, err := a.load(path)
	if err != nil {
		return model.Report{}, err
	}
	if !ds.HasTarget() {
		return model.Report{}, errors.Wrapf(data.ErrTargetMissing, "%q in %s", a.Config.Target, path)
	}
	Y, err := ds.Labels()
	if err != nil {
		return model.Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Report{}, err
	}

	yPred, err := bundle.Predict(ds.Features, ds.Matrix())
	if err != nil {
		return model.Report{}, err
	}
	if err := os.MkdirAll(a.Config.PlotDir, 0o755); err != nil {
		return model.Report{}, errors.Wrapf(err, "create %s", a.Config.PlotDir)
	}
	_, rep, err := a.report(model.Labels(Y), yPred)
	return rep, err
}

// Predict writes one CSV line per row of the file at path: the row number,
// p(potable) and the predicted label. A target column in the input is ignored.
func (a *App) Predict(ctx context.Context, path string, w io.Writer) (int, error) {
	bundle, err := model.Load(a.Config.ModelPath)
	if err != nil {
		return 0, err
	}
	ds, err := a.load(path)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	proba, err := bundle.PredictProba(ds.Features, ds.Matrix())
	if err != nil {
		return 0, err
	}
	labels := model.BinaryPredFromProba(proba, bundle.Threshold)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row", "probability", bundle.Schema.Target}); err != nil {
		return 0, errors.Wrap(err, "write header")
	}
	for i, p := range proba {
		rec := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(p, 'f', 6, 64),
			strconv.Itoa(labels[i]),
		}
		if err := cw.Write(rec); err != nil {
			return i, errors.Wrapf(err, "write row %d", i+1)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, errors.Wrap(err, "flush predictions")
	}
	a.Log.Info().Int("rows", len(proba)).Str("model", a.Config.ModelPath).Msg("predictions written")
	return len(proba), nil
}

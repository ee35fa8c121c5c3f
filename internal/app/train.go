package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/kaybrian/Water-Quality-Model/pkg/data"
	"github.com/kaybrian/Water-Quality-Model/pkg/dataprep"
	"github.com/kaybrian/Water-Quality-Model/pkg/loader"
	"github.com/kaybrian/Water-Quality-Model/pkg/model"
	"github.com/kaybrian/Water-Quality-Model/pkg/nn"
	"github.com/kaybrian/Water-Quality-Model/pkg/optim"
	"github.com/kaybrian/Water-Quality-Model/pkg/pipeline"
	"github.com/kaybrian/Water-Quality-Model/pkg/runs"
	"github.com/kaybrian/Water-Quality-Model/pkg/viz"
)

// Result summarizes a training run.
type Result struct {
	History          *nn.History
	BestEpoch        int
	Confusion        model.ConfusionMatrix
	Report           model.Report
	BaselineAccuracy float64
	RunID            int64
}

// BuildNetwork returns the compiled classifier: the first hidden layer carries
// the L1 penalty, the rest L2, and a single sigmoid unit on top.
func (a *App) BuildNetwork(inputs int) (*nn.Sequential, error) {
	c := a.Config
	net := nn.NewSequential(inputs, c.Seed)
	for i, units := range c.Hidden {
		reg := nn.L2(c.L2)
		if i == 0 {
			reg = nn.L1(c.L1)
		}
		l, err := nn.NewDense(units, "relu", nn.WithRegularizer(reg))
		if err != nil {
			return nil, err
		}
		net.Add(l)
	}
	out, err := nn.NewDense(1, "sigmoid")
	if err != nil {
		return nil, err
	}
	net.Add(out)

	if err := net.Compile(optim.NewAdam(c.LearningRate), nn.LossBinaryCrossEntropy); err != nil {
		return nil, err
	}
	return net, nil
}

// Train runs the whole pipeline: load, impute, scale, split, fit with early
// stopping, save and reload the model, evaluate on the test split, plot and
// record the run.
func (a *App) Train(ctx context.Context) (*Result, error) {
	c := a.Config
	started := time.Now()

	ds, err := a.load(c.DataPath)
	if err != nil {
		return nil, err
	}
	if !ds.HasTarget() {
		return nil, errors.Wrapf(data.ErrTargetMissing, "%q in %s", c.Target, c.DataPath)
	}
	if len(ds.Features) == 0 {
		return nil, errors.Wrapf(data.ErrNoFeatures, "only %q in %s", c.Target, c.DataPath)
	}
	Y, err := ds.Labels()
	if err != nil {
		return nil, err
	}

	prep, err := pipeline.New(c.Impute)
	if err != nil {
		return nil, err
	}
	raw := ds.Matrix()
	X, err := prep.FitTransform(raw)
	if err != nil {
		return nil, errors.Wrap(err, "preprocess")
	}
	a.Log.Info().
		Int("imputed", dataprep.CountMissing(raw)).
		Str("strategy", prep.Imputer.Strategy).
		Msg("missing cells filled")

	trainX, testX, trainY, testY := loader.TrainTestSplit(X, Y, c.TestSize, c.Seed)
	a.Log.Info().Int("train", len(trainX)).Int("test", len(testX)).Msg("split dataset")
	if len(trainX) == 0 || len(testX) == 0 {
		return nil, errors.Errorf("split of %d rows left an empty side", len(X))
	}

	net, err := a.BuildNetwork(len(ds.Features))
	if err != nil {
		return nil, errors.Wrap(err, "build network")
	}

	stop := nn.NewEarlyStopping(c.Patience, true)
	hist, err := net.Fit(ctx, trainX, trainY, nn.FitConfig{
		Epochs:          c.Epochs,
		BatchSize:       c.BatchSize,
		ValidationSplit: c.ValidationSplit,
		Shuffle:         true,
		Seed:            c.Seed,
		Callbacks:       []nn.Callback{nn.ProgressLogger{Log: a.Log, Epochs: c.Epochs}, stop},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fit")
	}
	a.Log.Info().
		Int("epochs", hist.Epochs()).
		Int("best_epoch", stop.BestEpoch).
		Int("stopped_epoch", hist.StoppedEpoch).
		Msg("training finished")

	bundle := &model.Bundle{
		Schema:    pipeline.Schema{Features: ds.Features, Target: ds.Target},
		Pipeline:  prep,
		Network:   net,
		Threshold: c.Threshold,
		TrainedAt: started.UTC(),
	}
	if err := bundle.Save(c.ModelPath); err != nil {
		return nil, err
	}
	loaded, err := model.Load(c.ModelPath)
	if err != nil {
		return nil, err
	}
	a.Log.Info().Str("path", c.ModelPath).Msg("model saved and reloaded")

	// testX is already preprocessed, so it goes straight to the network
	proba, err := loaded.Network.PredictProba(testX)
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	yTrue := model.Labels(testY)
	yPred := model.BinaryPredFromProba(proba, loaded.Threshold)

	if err := os.MkdirAll(c.PlotDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", c.PlotDir)
	}
	cm, rep, err := a.report(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	curves := filepath.Join(c.PlotDir, HistoryPlotFile)
	if err := viz.TrainingCurves(hist, curves); err != nil {
		return nil, errors.Wrap(err, "history plot")
	}
	a.Log.Info().Str("path", curves).Msg("training curves plotted")

	res := &Result{History: hist, BestEpoch: stop.BestEpoch, Confusion: cm, Report: rep}

	if c.Baseline {
		if res.BaselineAccuracy, err = a.baseline(ctx, trainX, trainY, testX, yTrue); err != nil {
			return nil, err
		}
		fmt.Fprintf(a.Out, "Baseline (logistic regression) Accuracy: %v\n", res.BaselineAccuracy)
	}

	if c.DBPath != "" {
		if res.RunID, err = a.record(ctx, runs.Run{
			StartedAt:    started,
			DataPath:     c.DataPath,
			ModelPath:    c.ModelPath,
			Rows:         ds.NRows(),
			Epochs:       hist.Epochs(),
			BestEpoch:    stop.BestEpoch,
			BestValLoss:  stop.Best(),
			TestAccuracy: rep.Accuracy,
		}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (a *App) baseline(ctx context.Context, trainX [][]float64, trainY []float64, testX [][]float64, yTrue []int) (float64, error) {
	c := a.Config
	lr := model.NewLogisticRegression(len(trainX[0]), 0.01, c.Epochs, c.BatchSize, c.Seed)
	if err := lr.Fit(ctx, trainX, trainY); err != nil {
		return 0, errors.Wrap(err, "fit baseline")
	}
	return accuracyOf(lr, testX, yTrue)
}

func accuracyOf(clf model.Classifier, X [][]float64, yTrue []int) (float64, error) {
	pred, err := clf.Predict(X)
	if err != nil {
		return 0, errors.Wrap(err, "predict")
	}
	return model.Accuracy(yTrue, pred), nil
}

func (a *App) record(ctx context.Context, run runs.Run) (int64, error) {
	repo, err := runs.NewSQLiteRepository(a.Config.DBPath)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	id, err := repo.Record(ctx, run)
	if err != nil {
		return 0, err
	}
	a.Log.Info().Int64("run", id).Str("db", a.Config.DBPath).Msg("run recorded")
	return id, nil
}

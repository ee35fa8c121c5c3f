package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Schedule retrains on the cron expression in Config.Cron until ctx is done.
// A run still in progress when the next tick fires causes that tick to be
// skipped.
func (a *App) Schedule(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(a.Config.Cron, func() {
		res, err := a.Train(ctx)
		if err != nil {
			a.Log.Error().Err(err).Msg("scheduled training failed")
			return
		}
		a.Log.Info().
			Float64("accuracy", res.Report.Accuracy).
			Int64("run", res.RunID).
			Msg("scheduled training done")
	})
	if err != nil {
		return errors.Wrapf(err, "invalid cron spec %q", a.Config.Cron)
	}

	a.Log.Info().Str("cron", a.Config.Cron).Msg("scheduler started")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	a.Log.Info().Msg("scheduler stopped")
	return nil
}

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaybrian/Water-Quality-Model/internal/app"
	"github.com/kaybrian/Water-Quality-Model/internal/config"
	"github.com/kaybrian/Water-Quality-Model/internal/logging"
)

var (
	cfgFile string
	v       = viper.New()
	appCtx  *app.App
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "potability",
		Short:         "Train and run the water potability classifier",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			appCtx = app.New(cfg, log, cmd.OutOrStdout())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("data", "", "input CSV (default ../data/water_potability.csv)")
	pf.String("model", "", "model file (default water_quality_model.json)")
	pf.String("plots", "", "directory for plot images")
	pf.String("db", "", "run registry database")
	pf.String("target", "", "label column")
	pf.String("log-level", "", "debug, info, warn or error")
	bind(pf, map[string]string{
		"data_path":  "data",
		"model_path": "model",
		"plot_dir":   "plots",
		"db_path":    "db",
		"target":     "target",
		"log_level":  "log-level",
	})

	root.AddCommand(trainCmd(), evaluateCmd(), predictCmd(), runsCmd(), scheduleCmd())
	return root
}

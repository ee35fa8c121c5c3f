package commands

import (
	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train, save, evaluate and plot the classifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := appCtx.Train(cmd.Context())
			return err
		},
	}
	fs := cmd.Flags()
	fs.Int("epochs", 0, "maximum epochs (default 100)")
	fs.Int("batch-size", 0, "mini-batch size (default 32)")
	fs.Int("patience", 0, "early stopping patience (default 10)")
	fs.Float64("lr", 0, "Adam learning rate (default 0.001)")
	fs.Int64("seed", 0, "seed for split, init and shuffling (default 42)")
	fs.String("impute", "", "mean or median (default mean)")
	fs.Bool("baseline", false, "also train a logistic regression baseline")
	bind(fs, map[string]string{
		"epochs":        "epochs",
		"batch_size":    "batch-size",
		"patience":      "patience",
		"learning_rate": "lr",
		"seed":          "seed",
		"impute":        "impute",
		"baseline":      "baseline",
	})
	return cmd
}

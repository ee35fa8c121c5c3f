package commands

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "predict <csv>",
		Short: "Write p(potable) and the predicted label for each row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrapf(err, "create %s", out)
				}
				defer f.Close()
				w = f
			}
			_, err := appCtx.Predict(cmd.Context(), args[0], w)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV (default stdout)")
	return cmd
}

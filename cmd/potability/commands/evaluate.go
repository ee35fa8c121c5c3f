package commands

import (
	"github.com/spf13/cobra"
)

// evaluate [csv]: score the saved model, defaulting to the configured dataset.
func evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [csv]",
		Short: "Report the saved model against a labelled CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := appCtx.Config.DataPath
			if len(args) == 1 {
				path = args[0]
			}
			_, err := appCtx.Evaluate(cmd.Context(), path)
			return err
		},
	}
}

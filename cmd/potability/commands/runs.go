package commands

import (
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded training runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := appCtx.Runs(cmd.Context(), limit)
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs, 0 for all")
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Retrain on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Schedule(cmd.Context())
		},
	}
	cmd.Flags().String("cron", "", `cron expression (default "@daily")`)
	bind(cmd.Flags(), map[string]string{"cron": "cron"})
	return cmd
}

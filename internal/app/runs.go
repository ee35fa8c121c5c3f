package app

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/kaybrian/Water-Quality-Model/pkg/runs"
)

// Runs prints the most recent training runs as a table.
func (a *App) Runs(ctx context.Context, limit int) ([]runs.Run, error) {
	repo, err := runs.NewSQLiteRepository(a.Config.DBPath)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	list, err := repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tROWS\tEPOCHS\tBEST\tVAL_LOSS\tACCURACY\tMODEL")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%.4f\t%.4f\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Rows, r.Epochs,
			r.BestEpoch, r.BestValLoss, r.TestAccuracy, r.ModelPath)
	}
	return list, tw.Flush()
}

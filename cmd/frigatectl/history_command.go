package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"frigatectl/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past maintenance operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(ctx.configValue().HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No operations recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.StartedAt.Local().Format("2006-01-02 15:04:05"),
					entry.Kind,
					entry.State,
					formatElapsed(entry.FinishedAt.Sub(entry.StartedAt)),
					entry.Detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Operation", "Result", "Elapsed", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"animutools/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent encode runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store == nil {
				return fmt.Errorf("history ledger is disabled; enable it in the [history] config section")
			}
			defer func() {
				_ = store.Close()
			}()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func renderHistoryTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := ""
		if d := run.Duration(); d > 0 {
			duration = d.Round(time.Second).String()
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Input,
			run.Output,
			run.Mode,
			run.Status,
			duration,
		})
	}
	return renderTable(
		[]string{"Started", "Input", "Output", "Mode", "Status", "Duration"},
		rows,
		nil,
	)
}

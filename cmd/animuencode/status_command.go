package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"animutools/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool availability and resolved paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Media(cfg.Encoder.FFmpegBinary, cfg.Encoder.FFprobeBinary))
			rows := make([][]string, 0, len(statuses))
			allOK := true
			for _, status := range statuses {
				state := "ok"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
					if !status.Optional {
						allOK = false
					}
				}
				rows = append(rows, []string{status.Name, state, status.Description, detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Tool", "Status", "Purpose", "Path"}, rows, nil))
			fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			fmt.Fprintf(out, "Lock file: %s\n", cfg.Paths.LockFile)
			fmt.Fprintf(out, "History ledger: %s", yesNo(cfg.History.Enabled))
			if cfg.History.Enabled {
				fmt.Fprintf(out, " (%s)", cfg.HistoryPath())
			}
			fmt.Fprintln(out)

			if !allOK {
				return fmt.Errorf("required tools missing")
			}
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"trackmux/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Defaults(cfg))

			headers := []string{"TOOL", "COMMAND", "AVAILABLE", "REQUIRED", "DETAIL"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				if !status.Available && !status.Optional {
					missing++
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					yesNo(!status.Optional),
					status.Detail,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			if missing > 0 {
				return errors.New("required external tools are missing")
			}
			return nil
		},
	}
}

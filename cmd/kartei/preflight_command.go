package main

import (
	"errors"

	"github.com/spf13/cobra"

	"kartei/internal/preflight"
	"kartei/internal/textutil"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, disk space, and external services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			results := preflight.RunAll(cmd.Context(), cfg)

			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				if !result.Passed {
					failed++
				}
				rows = append(rows, []string{result.Name, textutil.Ternary(result.Passed, "ok", "FAILED"), result.Detail})
			}
			out := cmd.OutOrStdout()
			_, _ = out.Write([]byte(renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			) + "\n"))

			if failed > 0 {
				return errors.New("one or more preflight checks failed")
			}
			return nil
		},
	}
}

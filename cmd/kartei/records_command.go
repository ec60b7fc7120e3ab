package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kartei/internal/record"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect vocabulary CSV files",
	}
	recordsCmd.AddCommand(newRecordsLintCommand())
	return recordsCmd
}

func newRecordsLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "lint <csv>...",
		Short:       "Validate CSV files without touching Anki or any API",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := parseSources(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var totalValid, totalRejected int
			for _, source := range sources {
				result, err := record.LoadFile(source.Path, source.Type)
				if err != nil {
					return err
				}
				totalValid += len(result.Records)
				totalRejected += len(result.Rejected)
				fmt.Fprintf(out, "%s (%s): %d valid, %d rejected\n",
					source.Path, source.Type, len(result.Records), len(result.Rejected))
				for _, reject := range result.Rejected {
					fmt.Fprintf(out, "  %s\n", reject.Error())
				}
			}
			if totalRejected > 0 {
				return fmt.Errorf("%d of %d rows rejected", totalRejected, totalValid+totalRejected)
			}
			fmt.Fprintf(out, "All %d rows valid\n", totalValid)
			return nil
		},
	}
}

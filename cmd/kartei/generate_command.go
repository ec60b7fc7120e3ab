package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kartei/internal/textutil"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var levelFlag string
	var exportFlag bool

	cmd := &cobra.Command{
		Use:   "generate <csv>...",
		Short: "Generate flashcards from vocabulary CSV files",
		Long: `Generate loads vocabulary CSV files, expands verbs for the configured
proficiency level, synthesizes missing audio, finds missing images, and adds
the resulting notes to the Anki deck. Each argument is either a path whose
file stem names the record type (nouns.csv, verbs.csv, phrases.csv) or an
explicit type=path pair.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := parseSources(args)
			if err != nil {
				return err
			}
			cfg := ctx.configValue()
			if level := strings.TrimSpace(levelFlag); level != "" {
				cfg.Levels.Level = strings.ToLower(level)
				if _, ok := cfg.Levels.Tenses[cfg.Levels.Level]; !ok {
					return fmt.Errorf("unknown level %q", levelFlag)
				}
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			gen, store, err := ctx.newGenerator(logger)
			if err != nil {
				return err
			}
			defer store.Close()

			report, runErr := gen.Run(cmd.Context(), sources)
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderRunReport(report, cmd.OutOrStdout()))
			}
			if runErr != nil {
				return runErr
			}

			if exportFlag {
				outPath := filepath.Join(cfg.Paths.ExportDir, exportFilename(cfg.Anki.DeckName))
				if err := gen.Export(cmd.Context(), outPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported deck package to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&levelFlag, "level", "l", "", "Proficiency level override (a1, a2, b1, b2)")
	cmd.Flags().BoolVar(&exportFlag, "export", false, "Export the deck as an .apkg package after the run")
	return cmd
}

func exportFilename(deckName string) string {
	name := strings.ToLower(deckName)
	name = strings.ReplaceAll(name, "::", "-")
	name = strings.ReplaceAll(name, " ", "-")
	name = textutil.SanitizeFileName(name)
	return fmt.Sprintf("%s-%s.apkg", name, time.Now().Format("2006-01-02"))
}

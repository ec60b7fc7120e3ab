package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"kartei/internal/ledger"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and prune the media caches",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()

			rows := make([][]string, 0, 2)
			for _, dir := range []struct{ label, path string }{
				{"audio", cfg.Paths.AudioCacheDir},
				{"images", cfg.Paths.ImageCacheDir},
			} {
				count, bytes, err := dirUsage(dir.path)
				if err != nil {
					return fmt.Errorf("scan %s cache: %w", dir.label, err)
				}
				rows = append(rows, []string{dir.label, strconv.Itoa(count), formatBytes(bytes)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Cache", "Files", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))

			store, err := ledger.Open(cfg.Paths.StateDir)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			stats, err := store.AssetStats(cmd.Context())
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Fprintln(out, "No tracked assets yet; run a generation first")
				return nil
			}
			trackedRows := make([][]string, 0, len(stats))
			for _, stat := range stats {
				trackedRows = append(trackedRows, []string{
					stat.Kind,
					strconv.Itoa(stat.Count),
					strconv.Itoa(stat.UseTotal),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Kind", "Tracked", "Total Uses"},
				trackedRows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThanDays int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete cache files no run has used recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThanDays <= 0 {
				return fmt.Errorf("--older-than must be a positive number of days")
			}
			cfg := ctx.configValue()
			store, err := ledger.Open(cfg.Paths.StateDir)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			cutoff := time.Now().AddDate(0, 0, -olderThanDays)
			stale, err := store.StaleAssets(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(stale) == 0 {
				fmt.Fprintf(out, "No cache files unused for more than %d days\n", olderThanDays)
				return nil
			}
			if dryRun {
				for _, asset := range stale {
					fmt.Fprintf(out, "would delete %s (%s, last used %s)\n",
						asset.Filename, asset.Kind, asset.LastUsedAt.Format("2006-01-02"))
				}
				fmt.Fprintf(out, "%d files would be deleted\n", len(stale))
				return nil
			}

			deleted := make([]string, 0, len(stale))
			for _, asset := range stale {
				dir := cfg.Paths.AudioCacheDir
				if asset.Kind == ledger.KindImage {
					dir = cfg.Paths.ImageCacheDir
				}
				err := os.Remove(filepath.Join(dir, asset.Filename))
				if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("delete %s: %w", asset.Filename, err)
				}
				deleted = append(deleted, asset.Filename)
			}
			if err := store.ForgetAssets(cmd.Context(), deleted); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d cache files\n", len(deleted))
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThanDays, "older-than", 180, "Minimum age in days since last use")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List files without deleting them")
	return cmd
}

func dirUsage(dir string) (int, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	var count int
	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		total += info.Size()
	}
	return count, total, nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

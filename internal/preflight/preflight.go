package preflight

import (
	"context"

	"kartei/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Network checks only run when the corresponding capability is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Audio cache", cfg.Paths.AudioCacheDir),
		CheckDirectoryAccess("Image cache", cfg.Paths.ImageCacheDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckFreeSpace("Export directory", cfg.Paths.ExportDir, minFreeBytes),
	}

	results = append(results, CheckTTS(ctx, cfg))
	if cfg.LLM.APIKey != "" {
		results = append(results, CheckTextGen(ctx, cfg))
	}
	results = append(results, CheckImageSearch(ctx, cfg))
	results = append(results, CheckAnki(ctx, cfg))
	return results
}

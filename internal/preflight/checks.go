package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"kartei/internal/anki"
	"kartei/internal/config"
	"kartei/internal/services/imagesearch"
	"kartei/internal/services/textgen"
	"kartei/internal/services/tts"
)

// minFreeBytes is the floor for the export directory: a full deck export
// with media stays well under this.
const minFreeBytes = 512 << 20

const networkCheckTimeout = 15 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes
// available.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1<<30))
	if free < minBytes {
		return Result{Name: name, Detail: detail + " - insufficient space"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckTTS verifies the speech API key is present and accepted.
func CheckTTS(ctx context.Context, cfg *config.Config) Result {
	const name = "Speech synthesis"
	if strings.TrimSpace(cfg.TTS.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	client, err := tts.NewClient(tts.Config{
		APIKey:  cfg.TTS.APIKey,
		BaseURL: cfg.TTS.BaseURL,
		Model:   cfg.TTS.Model,
		Voice:   cfg.TTS.Voice,
	})
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	checkCtx, cancel := context.WithTimeout(ctx, networkCheckTimeout)
	defer cancel()
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckTextGen verifies the text generation API is reachable and the key is
// valid. Single attempt, no retries.
func CheckTextGen(ctx context.Context, cfg *config.Config) Result {
	const name = "Text generation"
	llm := cfg.GetLLM()
	client := textgen.NewClient(textgen.Config{
		APIKey:  llm.APIKey,
		BaseURL: llm.BaseURL,
		Model:   llm.Model,
		Referer: llm.Referer,
		Title:   llm.Title,
	}, textgen.WithRetryMaxAttempts(1))
	checkCtx, cancel := context.WithTimeout(ctx, networkCheckTimeout)
	defer cancel()
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckImageSearch verifies the image search API answers queries.
func CheckImageSearch(ctx context.Context, cfg *config.Config) Result {
	const name = "Image search"
	client := imagesearch.NewClient(imagesearch.Config{
		BaseURL: cfg.ImageSearch.BaseURL,
		License: cfg.ImageSearch.License,
	})
	checkCtx, cancel := context.WithTimeout(ctx, networkCheckTimeout)
	defer cancel()
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckAnki verifies a running Anki instance answers over AnkiConnect.
func CheckAnki(ctx context.Context, cfg *config.Config) Result {
	const name = "AnkiConnect"
	client := anki.NewConnectClient(anki.ConnectConfig{URL: cfg.Anki.ConnectURL})
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err) + " (is Anki running with the AnkiConnect add-on?)"}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// summarizeError keeps check output on one line.
func summarizeError(err error) string {
	msg := strings.TrimSpace(err.Error())
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}
	if len(msg) > 160 {
		msg = msg[:160] + "..."
	}
	return msg
}

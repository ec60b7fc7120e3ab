package testsupport

import (
	"path/filepath"
	"testing"

	"kartei/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TTS.APIKey = "test"
	cfg.Paths.AudioCacheDir = filepath.Join(base, "media", "audio")
	cfg.Paths.ImageCacheDir = filepath.Join(base, "media", "images")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ExportDir = filepath.Join(base, "decks")
	cfg.Anki.DeckName = "Kartei Test"
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithLevel sets the proficiency level on the test config.
func WithLevel(level string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Levels.Level = level
	}
}

// WithNtfyTopic enables notifications against the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithRequestDelay sets the inter-call pause in milliseconds.
func WithRequestDelay(ms int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Enrichment.RequestDelayMS = ms
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.TTS.Model != defaultTTSModel {
		t.Fatalf("tts model = %q", cfg.TTS.Model)
	}
	if cfg.Levels.Level != "a1" {
		t.Fatalf("level = %q", cfg.Levels.Level)
	}
	if !filepath.IsAbs(cfg.Paths.AudioCacheDir) {
		t.Fatalf("audio cache dir not expanded: %q", cfg.Paths.AudioCacheDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
audio_cache_dir = "` + filepath.Join(dir, "audio") + `"

[tts]
api_key = "abc123"
voice = "ONYX"

[levels]
level = "B1"

[levels.tenses]
b1 = ["present", "Preterite"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatalf("expected config file to exist")
	}
	if cfg.TTS.Voice != "onyx" {
		t.Fatalf("voice = %q, want onyx", cfg.TTS.Voice)
	}
	if cfg.Levels.Level != "b1" {
		t.Fatalf("level = %q, want b1", cfg.Levels.Level)
	}
	if got := cfg.Levels.Tenses["b1"]; len(got) != 2 || got[1] != "preterite" {
		t.Fatalf("tenses = %v", got)
	}
}

func TestValidateRejectsMissingTTSKey(t *testing.T) {
	cfg := Default()
	cfg.Levels.Level = "a1"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if !strings.Contains(err.Error(), "tts.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := Default()
	cfg.TTS.APIKey = "k"
	cfg.Levels.Level = "c9"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if _, _, exists, err := Load(path); err != nil || !exists {
		t.Fatalf("load sample: exists=%v err=%v", exists, err)
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"kartei/internal/config"
	"kartei/internal/enrich"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteCSV writes a CSV fixture into a temp directory and returns its path.
func WriteCSV(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	WriteFile(t, path, []byte(content))
	return path
}

// SeedAudio places a cached mp3 for the given spoken text and returns its
// filename.
func SeedAudio(t testing.TB, cfg *config.Config, text string) string {
	t.Helper()

	filename := enrich.MD5Hex(text) + ".mp3"
	WriteFile(t, filepath.Join(cfg.Paths.AudioCacheDir, filename), []byte("mp3"))
	return filename
}

// SeedImage places a cached image for the given headword and returns its
// filename.
func SeedImage(t testing.TB, cfg *config.Config, word string) string {
	t.Helper()

	filename := enrich.ImageFilename(word)
	WriteFile(t, filepath.Join(cfg.Paths.ImageCacheDir, filename), []byte("jpg"))
	return filename
}

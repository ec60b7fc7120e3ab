package mediafiles

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingBackend struct {
	added []string
}

func (b *recordingBackend) AddMediaFile(ctx context.Context, filename, path string) error {
	b.added = append(b.added, filename)
	return nil
}

func writeMedia(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIsSafeFilename(t *testing.T) {
	safe := []string{"0123abcd.mp3", "mann_001.jpg", "a", "x-y.z.png"}
	for _, name := range safe {
		if !IsSafeFilename(name) {
			t.Errorf("IsSafeFilename(%q) = false, want true", name)
		}
	}
	unsafe := []string{
		"",
		"../../etc/passwd",
		"/etc/passwd",
		"\\windows\\system32",
		"a..b.mp3",
		".hidden.mp3",
		"name.mp3.",
		"bad name.mp3",
		strings.Repeat("a", 300) + ".mp3",
	}
	for _, name := range unsafe {
		if IsSafeFilename(name) {
			t.Errorf("IsSafeFilename(%q) = true, want false", name)
		}
	}
}

func TestExtractFilenames(t *testing.T) {
	field := `Der Mann [sound:0123abcd.mp3] liest. <img src="mann_001.jpg">`
	got := ExtractFilenames(field)
	if len(got) != 2 || got[0] != "0123abcd.mp3" || got[1] != "mann_001.jpg" {
		t.Fatalf("ExtractFilenames = %v", got)
	}
	if got := ExtractFilenames("  gehen.jpg  "); len(got) != 1 || got[0] != "gehen.jpg" {
		t.Fatalf("bare filename = %v", got)
	}
	if got := ExtractFilenames("[sound:../../etc/passwd]"); len(got) != 0 {
		t.Fatalf("unsafe candidate survived: %v", got)
	}
	if got := ExtractFilenames("plain text without media"); len(got) != 0 {
		t.Fatalf("prose misread as filename: %v", got)
	}
}

func TestRegisterUploadsOncePerRun(t *testing.T) {
	dir := t.TempDir()
	writeMedia(t, dir, "abc.mp3", "mann.jpg")
	backend := &recordingBackend{}
	r := New(backend, []string{dir}, nil)

	fields := []string{"[sound:abc.mp3]", `<img src="mann.jpg">`}
	n, err := r.Register(context.Background(), fields)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if n != 2 {
		t.Fatalf("registered %d, want 2", n)
	}

	n, err = r.Register(context.Background(), fields)
	if err != nil {
		t.Fatalf("Register again: %v", err)
	}
	if n != 0 {
		t.Fatalf("repeat registration uploaded %d files", n)
	}
	if len(backend.added) != 2 {
		t.Fatalf("backend saw %d uploads", len(backend.added))
	}

	r.Reset()
	n, _ = r.Register(context.Background(), fields)
	if n != 2 {
		t.Fatalf("after Reset registered %d, want 2", n)
	}
}

func TestRegisterSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeMedia(t, dir, "here.mp3")
	backend := &recordingBackend{}
	r := New(backend, []string{dir}, nil)

	n, err := r.Register(context.Background(), []string{"[sound:here.mp3][sound:gone.mp3]"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if n != 1 {
		t.Fatalf("registered %d, want 1", n)
	}
	if len(backend.added) != 1 || backend.added[0] != "here.mp3" {
		t.Fatalf("backend saw %v", backend.added)
	}
}

func TestRegisterSearchesAllMediaDirs(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	writeMedia(t, audioDir, "a.mp3")
	writeMedia(t, imageDir, "b.jpg")
	backend := &recordingBackend{}
	r := New(backend, []string{audioDir, imageDir}, nil)

	n, err := r.Register(context.Background(), []string{"[sound:a.mp3]", "b.jpg"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if n != 2 {
		t.Fatalf("registered %d, want 2", n)
	}
}

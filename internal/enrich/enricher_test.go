package enrich

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kartei/internal/record"
	"kartei/internal/vocab"
)

type fakeTTS struct {
	calls []string
	err   error
}

func (f *fakeTTS) Generate(ctx context.Context, text, outPath string) error {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte("mp3:"+text), 0o644)
}

type fakeImages struct {
	calls   []string
	found   bool
	err     error
	written []string
}

func (f *fakeImages) Download(ctx context.Context, query, outPath string) (bool, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return false, f.err
	}
	if !f.found {
		return false, nil
	}
	f.written = append(f.written, outPath)
	return true, os.WriteFile(outPath, []byte("jpg"), 0o644)
}

type fakeQueries struct{ query string }

func (f fakeQueries) GenerateImageQuery(ctx context.Context, word, translation, example string) (string, error) {
	return f.query, nil
}

type countingSleeper struct{ slept int }

func (c *countingSleeper) Sleep(time.Duration) { c.slept++ }

func nounModel(t *testing.T, word, article, plural, translation, example string) vocab.Model {
	t.Helper()
	rec, err := record.New(record.TypeNoun, 0, []string{word, article, plural, translation, example, "t"})
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	model, err := vocab.New(rec)
	if err != nil {
		t.Fatalf("vocab.New: %v", err)
	}
	return model
}

func TestEnrichGeneratesAudioAndImage(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	tts := &fakeTTS{}
	images := &fakeImages{found: true}
	e := New(audioDir, imageDir, tts, images, fakeQueries{query: "a man reading"})

	model := nounModel(t, "Mann", "der", "Männer", "man", "Der Mann liest.")
	media := e.Enrich(context.Background(), model)

	wordTag := media[record.FieldWordAudio]
	wantTag := "[sound:" + MD5Hex("der Mann. die Männer") + ".mp3]"
	if wordTag != wantTag {
		t.Fatalf("word audio = %q, want %q", wordTag, wantTag)
	}
	if media[record.FieldImage] != "mann.jpg" {
		t.Fatalf("image = %q", media[record.FieldImage])
	}
	if len(tts.calls) != 2 {
		t.Fatalf("tts calls = %d", len(tts.calls))
	}
	if len(images.calls) != 1 || images.calls[0] != "a man reading" {
		t.Fatalf("image calls = %v", images.calls)
	}
	if _, err := os.Stat(filepath.Join(imageDir, "mann.jpg")); err != nil {
		t.Fatalf("image file missing: %v", err)
	}
	stats := e.Stats()
	if stats.AudioGenerated != 2 || stats.ImageGenerated != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestEnrichReusesCachedFilesWithoutExternalCalls(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	hash := MD5Hex("der Mann. die Männer")
	exampleHash := MD5Hex("Der Mann liest.")
	for _, name := range []string{hash + ".mp3", exampleHash + ".mp3"} {
		if err := os.WriteFile(filepath.Join(audioDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(imageDir, "mann.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tts := &fakeTTS{}
	images := &fakeImages{found: true}
	e := New(audioDir, imageDir, tts, images, fakeQueries{query: "unused"})
	media := e.Enrich(context.Background(), nounModel(t, "Mann", "der", "Männer", "man", "Der Mann liest."))

	if len(tts.calls) != 0 || len(images.calls) != 0 {
		t.Fatalf("cache hits must not call services: tts=%d images=%d", len(tts.calls), len(images.calls))
	}
	if media[record.FieldImage] != "mann.jpg" {
		t.Fatalf("image = %q", media[record.FieldImage])
	}
	stats := e.Stats()
	if stats.AudioReused != 2 || stats.ImageReused != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestEnrichSharedTextSharesOneFile(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	tts := &fakeTTS{}
	e := New(audioDir, imageDir, tts, nil, nil)

	first := nounModel(t, "Hund", "der", "Hunde", "dog", "Das ist gut.")
	second := nounModel(t, "Hof", "der", "Höfe", "yard", "Das ist gut.")
	e.Enrich(context.Background(), first)
	e.Enrich(context.Background(), second)

	stats := e.Stats()
	if stats.AudioReused != 1 {
		t.Fatalf("shared example should hit cache: %+v", stats)
	}
	entries, _ := os.ReadDir(audioDir)
	if len(entries) != 3 {
		t.Fatalf("expected 3 audio files (two word, one shared example), got %d", len(entries))
	}
}

func TestEnrichImageFilenameFoldsDiacritics(t *testing.T) {
	if got := ImageFilename("hören"); got != "hoeren.jpg" {
		t.Fatalf("ImageFilename = %q", got)
	}
	if got := ImageFilename("Straße"); got != "strasse.jpg" {
		t.Fatalf("ImageFilename = %q", got)
	}
}

func TestEnrichDegradesPerField(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	tts := &fakeTTS{err: errors.New("tts down")}
	images := &fakeImages{found: true}
	e := New(audioDir, imageDir, tts, images, fakeQueries{query: "dog"})

	media := e.Enrich(context.Background(), nounModel(t, "Hund", "der", "Hunde", "dog", "Der Hund bellt."))
	if _, ok := media[record.FieldWordAudio]; ok {
		t.Fatal("failed audio must be omitted")
	}
	if media[record.FieldImage] != "hund.jpg" {
		t.Fatalf("image should still enrich: %q", media[record.FieldImage])
	}
	if e.Stats().Failed != 2 {
		t.Fatalf("failed = %d", e.Stats().Failed)
	}
}

func TestEnrichRecordsPreservesLength(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	e := New(audioDir, imageDir, &fakeTTS{}, nil, nil)

	recs := make([]record.Record, 0, 2)
	for _, word := range []string{"Mann", "Frau"} {
		rec, err := record.New(record.TypeNoun, 0, []string{word, "der", "-", "x", "", ""})
		if err != nil {
			t.Fatal(err)
		}
		recs = append(recs, rec)
	}
	out := e.EnrichRecords(context.Background(), recs)
	if len(out) != len(recs) {
		t.Fatalf("length mismatch: %d != %d", len(out), len(recs))
	}
	for i, media := range out {
		if media == nil {
			t.Fatalf("position %d is nil", i)
		}
	}
}

func TestEnrichSleepsBetweenExternalCalls(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	sleeper := &countingSleeper{}
	e := New(audioDir, imageDir, &fakeTTS{}, nil, nil,
		WithRequestDelay(50*time.Millisecond), WithSleeper(sleeper))

	e.Enrich(context.Background(), nounModel(t, "Mann", "der", "Männer", "man", "Der Mann liest."))
	if sleeper.slept != 2 {
		t.Fatalf("slept %d times, want 2", sleeper.slept)
	}
}

func TestEnrichRespectsPrePopulatedMedia(t *testing.T) {
	audioDir, imageDir := t.TempDir(), t.TempDir()
	tts := &fakeTTS{}
	e := New(audioDir, imageDir, tts, nil, nil)

	rec, err := record.New(record.TypeNoun, 0, []string{"Mann", "der", "Männer", "man", "", ""})
	if err != nil {
		t.Fatal(err)
	}
	rec, err = rec.WithMedia(map[string]string{record.FieldWordAudio: "[sound:custom.mp3]"})
	if err != nil {
		t.Fatal(err)
	}
	model, err := vocab.New(rec)
	if err != nil {
		t.Fatal(err)
	}
	media := e.Enrich(context.Background(), model)
	if media[record.FieldWordAudio] != "[sound:custom.mp3]" {
		t.Fatalf("pre-populated audio replaced: %q", media[record.FieldWordAudio])
	}
	if len(tts.calls) != 0 {
		t.Fatalf("tts called %d times for pre-populated field", len(tts.calls))
	}
}

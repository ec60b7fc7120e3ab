package vocab

import (
	"context"
	"errors"
	"testing"

	"kartei/internal/record"
)

func mustRecord(t *testing.T, typ record.Type, values []string) record.Record {
	t.Helper()
	rec, err := record.New(typ, 0, values)
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	return rec
}

type fixedQueryGen struct {
	query string
	err   error
	calls int
}

func (f *fixedQueryGen) GenerateImageQuery(ctx context.Context, word, translation, example string) (string, error) {
	f.calls++
	return f.query, f.err
}

func TestNewDispatchesByType(t *testing.T) {
	rec := mustRecord(t, record.TypeNoun, []string{"Mann", "der", "Männer", "man", "Der Mann liest.", "The man reads."})
	model, err := New(rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if model.PrimaryWord() != "Mann" {
		t.Fatalf("PrimaryWord = %q", model.PrimaryWord())
	}
	if !model.WantsImage() {
		t.Fatal("noun models should want an image")
	}
}

func TestNounAudioSegments(t *testing.T) {
	rec := mustRecord(t, record.TypeNoun, []string{"Mann", "der", "Männer", "man", "Der Mann liest.", "The man reads."})
	model, err := New(rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	segments := model.AudioSegments()
	if got := segments[record.FieldWordAudio]; got != "der Mann. die Männer" {
		t.Fatalf("word audio = %q", got)
	}
	if got := segments[record.FieldExampleAudio]; got != "Der Mann liest." {
		t.Fatalf("example audio = %q", got)
	}
}

func TestNounWithoutPluralOmitsIt(t *testing.T) {
	rec := mustRecord(t, record.TypeNoun, []string{"Obst", "das", "-", "fruit", "", ""})
	model, _ := New(rec)
	segments := model.AudioSegments()
	if got := segments[record.FieldWordAudio]; got != "das Obst" {
		t.Fatalf("word audio = %q", got)
	}
	if _, ok := segments[record.FieldExampleAudio]; ok {
		t.Fatal("empty example should not produce a segment")
	}
}

func TestVerbConjugationAudioIncludesAllPersons(t *testing.T) {
	rec := mustRecord(t, record.TypeVerbConjugation, []string{
		"gehen", "to go", "present", "gehe", "gehst", "geht", "gehen", "geht", "gehen",
		"Ich gehe nach Hause.", "I am going home.",
	})
	model, _ := New(rec)
	segments := model.AudioSegments()
	want := "gehen. ich gehe. du gehst. er geht. wir gehen. ihr geht. sie gehen. Ich gehe nach Hause."
	if got := segments[record.FieldWordAudio]; got != want {
		t.Fatalf("word audio = %q, want %q", got, want)
	}
	if model.PrimaryWord() != "gehen" {
		t.Fatalf("PrimaryWord = %q", model.PrimaryWord())
	}
}

func TestPhraseModelHasNoImage(t *testing.T) {
	rec := mustRecord(t, record.TypePhrase, []string{"Wie geht's?", "How are you?"})
	model, _ := New(rec)
	if model.WantsImage() {
		t.Fatal("phrase models should not want an image")
	}
	segments := model.AudioSegments()
	if got := segments[record.FieldWordAudio]; got != "Wie geht's?" {
		t.Fatalf("word audio = %q", got)
	}
}

func TestSearchQueryUsesGenerator(t *testing.T) {
	rec := mustRecord(t, record.TypeNoun, []string{"Mann", "der", "Männer", "man", "Der Mann liest.", "The man reads."})
	model, _ := New(rec)
	gen := &fixedQueryGen{query: "adult man portrait"}
	if got := model.SearchQuery(context.Background(), gen); got != "adult man portrait" {
		t.Fatalf("query = %q", got)
	}
	if gen.calls != 1 {
		t.Fatalf("generator called %d times", gen.calls)
	}
}

func TestSearchQueryFallsBackToTranslation(t *testing.T) {
	rec := mustRecord(t, record.TypeNoun, []string{"Mann", "der", "Männer", "man", "Der Mann liest.", "The man reads."})
	model, _ := New(rec)
	gen := &fixedQueryGen{err: errors.New("rate limited")}
	if got := model.SearchQuery(context.Background(), gen); got != "man" {
		t.Fatalf("fallback query = %q", got)
	}
	if got := model.SearchQuery(context.Background(), nil); got != "man" {
		t.Fatalf("nil-generator query = %q", got)
	}
}

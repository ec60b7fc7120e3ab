package record

import (
	"errors"
	"strings"
	"testing"

	"kartei/internal/services"
)

func TestNewRejectsWrongFieldCount(t *testing.T) {
	_, err := New(TypeNoun, 3, []string{"Mann", "der"})
	if err == nil {
		t.Fatal("expected error for short row")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Row != 3 || verr.Expected != 6 || verr.Actual != 2 {
		t.Fatalf("unexpected error detail: %+v", verr)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatal("expected ErrValidation sentinel")
	}
}

func TestRecordFieldsAreCopied(t *testing.T) {
	values := []string{"Mann", "der", "Männer", "man", "Der Mann liest.", "The man reads."}
	rec, err := New(TypeNoun, 2, values)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	values[0] = "mutated"
	if got := rec.Field("Word"); got != "Mann" {
		t.Fatalf("record shares caller slice: Word = %q", got)
	}
	fields := rec.Fields()
	fields[1] = "mutated"
	if got := rec.Field("Article"); got != "der" {
		t.Fatalf("Fields() leaks internal slice: Article = %q", got)
	}
}

func TestFieldNamesOrderIsStable(t *testing.T) {
	want := []string{"Infinitive", "Translation", "Tense", "Ich", "Du", "Er", "Wir", "Ihr", "Sie", "Example", "ExampleTranslation"}
	got := FieldNames(TypeVerbConjugation)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("field order changed: %v", got)
	}
	if ExpectedFieldCount(TypeVerbConjugation) != len(want) {
		t.Fatalf("expected field count %d, got %d", len(want), ExpectedFieldCount(TypeVerbConjugation))
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType(" Noun_Cases ")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if typ != TypeNounCases {
		t.Fatalf("got %q", typ)
	}
	if _, err := ParseType("gerund"); !errors.Is(err, services.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestWithMediaRejectsUndeclaredField(t *testing.T) {
	rec, err := New(TypePhrase, 2, []string{"Wie geht's?", "How are you?"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := rec.WithMedia(map[string]string{FieldImage: "x.jpg"}); err == nil {
		t.Fatal("phrase records do not declare an image field")
	}
	rec, err = rec.WithMedia(map[string]string{FieldWordAudio: "[sound:abc.mp3]"})
	if err != nil {
		t.Fatalf("WithMedia: %v", err)
	}
	if got := rec.Media(FieldWordAudio); got != "[sound:abc.mp3]" {
		t.Fatalf("Media = %q", got)
	}
}

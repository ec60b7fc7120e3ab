package main

import (
	"strings"
	"testing"

	"kartei/internal/record"
)

func TestParseSourceInfersTypeFromStem(t *testing.T) {
	cases := []struct {
		arg  string
		want record.Type
	}{
		{"nouns.csv", record.TypeNoun},
		{"/data/verbs.csv", record.TypeVerbConjugation},
		{"Imperatives.CSV", record.TypeVerbImperative},
		{"adjectives.csv", record.TypeAdjective},
		{"cases.csv", record.TypeNounCases},
		{"phrases.csv", record.TypePhrase},
		{"noun_cases.csv", record.TypeNounCases},
	}
	for _, tc := range cases {
		source, err := parseSource(tc.arg)
		if err != nil {
			t.Fatalf("parseSource(%q): %v", tc.arg, err)
		}
		if source.Type != tc.want {
			t.Fatalf("parseSource(%q) type = %s, want %s", tc.arg, source.Type, tc.want)
		}
	}
}

func TestParseSourceExplicitType(t *testing.T) {
	source, err := parseSource("noun=/tmp/wortschatz.csv")
	if err != nil {
		t.Fatalf("parseSource: %v", err)
	}
	if source.Type != record.TypeNoun || source.Path != "/tmp/wortschatz.csv" {
		t.Fatalf("unexpected source %+v", source)
	}
}

func TestParseSourceRejectsUnknown(t *testing.T) {
	if _, err := parseSource("wortliste.csv"); err == nil {
		t.Fatal("expected an error for an unrecognized stem")
	}
	_, err := parseSource("pronoun=/tmp/x.csv")
	if err == nil || !strings.Contains(err.Error(), "unknown record type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
	if _, err := parseSource("noun="); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestParseSourcesRequiresArgs(t *testing.T) {
	if _, err := parseSources(nil); err == nil {
		t.Fatal("expected an error for empty input")
	}
}

package vocab

import (
	"context"
	"strings"

	"kartei/internal/record"
)

// base carries the behavior shared by all German models: record access,
// image presence derived from the schema, and the search-query fallback.
type base struct {
	rec record.Record
}

func (b base) Record() record.Record { return b.rec }

func (b base) WantsImage() bool {
	for _, name := range record.MediaFieldNames(b.rec.Type()) {
		if name == record.FieldImage {
			return true
		}
	}
	return false
}

func (b base) searchQuery(ctx context.Context, gen QueryGenerator, word, translation, example string) string {
	if gen != nil {
		query, err := gen.GenerateImageQuery(ctx, word, translation, example)
		if err == nil {
			if query = strings.TrimSpace(query); query != "" {
				return query
			}
		}
	}
	if translation != "" {
		return translation
	}
	return word
}

// joinSpoken joins non-empty phrases with pauses the speech synthesizer
// renders as short breaks.
func joinSpoken(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ". ")
}

type noun struct{ base }

func newNoun(rec record.Record) Model { return noun{base{rec}} }

func (n noun) PrimaryWord() string { return n.rec.Field("Word") }

func (n noun) AudioSegments() map[string]string {
	segments := make(map[string]string, 2)
	spoken := joinSpoken(
		strings.TrimSpace(n.rec.Field("Article")+" "+n.rec.Field("Word")),
		pluralSpoken(n.rec.Field("Plural")),
	)
	if spoken != "" {
		segments[record.FieldWordAudio] = spoken
	}
	if example := n.rec.Field("Example"); example != "" {
		segments[record.FieldExampleAudio] = example
	}
	return segments
}

// pluralSpoken prefixes the plural article so "Männer" is spoken as
// "die Männer". A dash marks nouns without a plural form.
func pluralSpoken(plural string) string {
	plural = strings.TrimSpace(plural)
	if plural == "" || plural == "-" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(plural), "die ") {
		return plural
	}
	return "die " + plural
}

func (n noun) SearchQuery(ctx context.Context, gen QueryGenerator) string {
	return n.searchQuery(ctx, gen, n.rec.Field("Word"), n.rec.Field("Translation"), n.rec.Field("Example"))
}

type verbConjugation struct{ base }

func newVerbConjugation(rec record.Record) Model { return verbConjugation{base{rec}} }

func (v verbConjugation) PrimaryWord() string { return v.rec.Field("Infinitive") }

func (v verbConjugation) AudioSegments() map[string]string {
	spoken := joinSpoken(
		v.rec.Field("Infinitive"),
		pronounForm("ich", v.rec.Field("Ich")),
		pronounForm("du", v.rec.Field("Du")),
		pronounForm("er", v.rec.Field("Er")),
		pronounForm("wir", v.rec.Field("Wir")),
		pronounForm("ihr", v.rec.Field("Ihr")),
		pronounForm("sie", v.rec.Field("Sie")),
		v.rec.Field("Example"),
	)
	if spoken == "" {
		return nil
	}
	return map[string]string{record.FieldWordAudio: spoken}
}

func pronounForm(pronoun, form string) string {
	if form = strings.TrimSpace(form); form == "" {
		return ""
	}
	return pronoun + " " + form
}

func (v verbConjugation) SearchQuery(ctx context.Context, gen QueryGenerator) string {
	return v.searchQuery(ctx, gen, v.rec.Field("Infinitive"), v.rec.Field("Translation"), v.rec.Field("Example"))
}

type verbImperative struct{ base }

func newVerbImperative(rec record.Record) Model { return verbImperative{base{rec}} }

func (v verbImperative) PrimaryWord() string { return v.rec.Field("Infinitive") }

func (v verbImperative) AudioSegments() map[string]string {
	spoken := joinSpoken(
		v.rec.Field("DuForm"),
		v.rec.Field("IhrForm"),
		v.rec.Field("SieForm"),
		v.rec.Field("Example"),
	)
	if spoken == "" {
		return nil
	}
	return map[string]string{record.FieldWordAudio: spoken}
}

func (v verbImperative) SearchQuery(ctx context.Context, gen QueryGenerator) string {
	return v.searchQuery(ctx, gen, v.rec.Field("Infinitive"), v.rec.Field("Translation"), v.rec.Field("Example"))
}

type adjective struct{ base }

func newAdjective(rec record.Record) Model { return adjective{base{rec}} }

func (a adjective) PrimaryWord() string { return a.rec.Field("Word") }

func (a adjective) AudioSegments() map[string]string {
	segments := make(map[string]string, 2)
	spoken := joinSpoken(
		a.rec.Field("Word"),
		a.rec.Field("Comparative"),
		a.rec.Field("Superlative"),
	)
	if spoken != "" {
		segments[record.FieldWordAudio] = spoken
	}
	if example := a.rec.Field("Example"); example != "" {
		segments[record.FieldExampleAudio] = example
	}
	return segments
}

func (a adjective) SearchQuery(ctx context.Context, gen QueryGenerator) string {
	return a.searchQuery(ctx, gen, a.rec.Field("Word"), a.rec.Field("Translation"), a.rec.Field("Example"))
}

type nounCases struct{ base }

func newNounCases(rec record.Record) Model { return nounCases{base{rec}} }

func (n nounCases) PrimaryWord() string { return n.rec.Field("Word") }

func (n nounCases) AudioSegments() map[string]string {
	spoken := joinSpoken(
		n.rec.Field("Nominative"),
		n.rec.Field("Accusative"),
		n.rec.Field("Dative"),
		n.rec.Field("Genitive"),
	)
	if spoken == "" {
		return nil
	}
	return map[string]string{record.FieldWordAudio: spoken}
}

func (n nounCases) SearchQuery(ctx context.Context, gen QueryGenerator) string {
	return n.searchQuery(ctx, gen, n.rec.Field("Word"), "", "")
}

type phrase struct{ base }

func newPhrase(rec record.Record) Model { return phrase{base{rec}} }

func (p phrase) PrimaryWord() string { return p.rec.Field("Phrase") }

func (p phrase) AudioSegments() map[string]string {
	spoken := strings.TrimSpace(p.rec.Field("Phrase"))
	if spoken == "" {
		return nil
	}
	return map[string]string{record.FieldWordAudio: spoken}
}

func (p phrase) SearchQuery(ctx context.Context, gen QueryGenerator) string {
	return p.searchQuery(ctx, gen, p.rec.Field("Phrase"), p.rec.Field("Translation"), "")
}

package card

import (
	"fmt"
	"strings"

	"kartei/internal/record"
	"kartei/internal/services"
)

type builderFunc func(rec record.Record, media map[string]string) ([]Card, error)

// builders maps record types to their card construction strategy. Most types
// use the standard one-record-one-card path; article records expand into one
// cloze card per grammatical case.
var builders = map[record.Type]builderFunc{
	record.TypeNoun:            buildStandard,
	record.TypeVerbConjugation: buildStandard,
	record.TypeVerbImperative:  buildStandard,
	record.TypeAdjective:       buildStandard,
	record.TypePhrase:          buildStandard,
	record.TypeNounCases:       buildArticleCloze,
}

// Build assembles the cards for one enriched record. The returned cards
// always satisfy the shape guarantee: each card's field count equals its
// note type's declared field count, and a mismatch is an error rather than a
// truncated card.
func Build(rec record.Record, media map[string]string) ([]Card, error) {
	build, ok := builders[rec.Type()]
	if !ok {
		return nil, services.Wrap(services.ErrUnsupported, "card", "build", fmt.Sprintf("no card builder for record type %q", rec.Type()), nil)
	}
	cards, err := build(rec, media)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		if err := checkShape(c); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

// checkShape enforces the field-count invariant between a card and its note
// type.
func checkShape(c Card) error {
	nt, ok := noteTypesByName[c.NoteType]
	if !ok {
		return services.Wrap(services.ErrCardShape, "card", "check shape", fmt.Sprintf("card references unknown note type %q", c.NoteType), nil)
	}
	if len(c.Fields) != len(nt.Fields) {
		return services.Wrap(services.ErrCardShape, "card", "check shape",
			fmt.Sprintf("note type %q declares %d fields, card has %d", c.NoteType, len(nt.Fields), len(c.Fields)), nil)
	}
	return nil
}

var noteTypesByName = func() map[string]NoteType {
	out := make(map[string]NoteType, len(noteTypes))
	for _, nt := range noteTypes {
		out[nt.Name] = nt
	}
	return out
}()

// NoteTypeByName returns the note model with the given name.
func NoteTypeByName(name string) (NoteType, bool) {
	nt, ok := noteTypesByName[name]
	return nt, ok
}

// buildStandard concatenates intrinsic fields with media values in the note
// type's declared order. Media fields the enricher could not fill stay
// empty.
func buildStandard(rec record.Record, media map[string]string) ([]Card, error) {
	nt := noteTypes[rec.Type()]
	fields := rec.Fields()
	for _, name := range record.MediaFieldNames(rec.Type()) {
		fields = append(fields, media[name])
	}
	return []Card{{NoteType: nt.Name, Fields: fields}}, nil
}

// grammatical cases in presentation order, with their German names.
var clozeCases = []struct {
	field string
	label string
}{
	{"Nominative", "Nominativ"},
	{"Accusative", "Akkusativ"},
	{"Dative", "Dativ"},
	{"Genitive", "Genitiv"},
}

var genderLabels = map[string]string{
	"der": "Maskulinum", "m": "Maskulinum", "maskulin": "Maskulinum",
	"die": "Femininum", "f": "Femininum", "feminin": "Femininum",
	"das": "Neutrum", "n": "Neutrum", "neutrum": "Neutrum",
}

// buildArticleCloze expands one case-table record into one cloze card per
// grammatical case. Every card shows the same four-line case table; only the
// blanked-out line differs, and the explanation names the gender/case pair.
func buildArticleCloze(rec record.Record, media map[string]string) ([]Card, error) {
	for _, c := range clozeCases {
		if strings.TrimSpace(rec.Field(c.field)) == "" {
			return nil, services.Wrap(services.ErrValidation, "card", "build cloze",
				fmt.Sprintf("record for %q is missing its %s form", rec.Field("Word"), c.label), nil)
		}
	}
	gender := genderLabels[strings.ToLower(strings.TrimSpace(rec.Field("Gender")))]
	if gender == "" {
		gender = rec.Field("Gender")
	}

	cards := make([]Card, 0, len(clozeCases))
	for i, target := range clozeCases {
		var lines []string
		for j, c := range clozeCases {
			form := rec.Field(c.field)
			if j == i {
				form = "{{c1::" + form + "}}"
			}
			lines = append(lines, c.label+": "+form)
		}
		explanation := fmt.Sprintf("%s im %s", gender, target.label)
		cards = append(cards, Card{
			NoteType: noteTypeCloze,
			Fields:   []string{strings.Join(lines, "<br>"), explanation, media[record.FieldWordAudio]},
		})
	}
	return cards, nil
}

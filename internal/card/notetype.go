package card

import (
	"kartei/internal/record"
)

// NoteType describes one deck note model: its name, its ordered field list,
// and whether Anki should treat it as a cloze model.
type NoteType struct {
	Name   string
	Fields []string
	Cloze  bool
}

// Card is one assembled note: a note type name plus field values in that
// type's declared order.
type Card struct {
	NoteType string
	Fields   []string
	Tags     []string
}

const (
	noteTypeNoun        = "Kartei German Noun"
	noteTypeConjugation = "Kartei German Verb Conjugation"
	noteTypeImperative  = "Kartei German Verb Imperative"
	noteTypeAdjective   = "Kartei German Adjective"
	noteTypeCloze       = "Kartei German Article Cloze"
	noteTypePhrase      = "Kartei German Phrase"
)

// standardNoteType derives a note type whose fields are the record type's
// intrinsic fields followed by its media fields.
func standardNoteType(name string, typ record.Type) NoteType {
	fields := record.FieldNames(typ)
	fields = append(fields, record.MediaFieldNames(typ)...)
	return NoteType{Name: name, Fields: fields}
}

// noteTypes maps each record type to the note model its cards use.
var noteTypes = map[record.Type]NoteType{
	record.TypeNoun:            standardNoteType(noteTypeNoun, record.TypeNoun),
	record.TypeVerbConjugation: standardNoteType(noteTypeConjugation, record.TypeVerbConjugation),
	record.TypeVerbImperative:  standardNoteType(noteTypeImperative, record.TypeVerbImperative),
	record.TypeAdjective:       standardNoteType(noteTypeAdjective, record.TypeAdjective),
	record.TypePhrase:          standardNoteType(noteTypePhrase, record.TypePhrase),
	record.TypeNounCases: {
		Name:   noteTypeCloze,
		Fields: []string{"Text", "Explanation", record.FieldWordAudio},
		Cloze:  true,
	},
}

// NoteTypeFor returns the note model used for a record type.
func NoteTypeFor(typ record.Type) (NoteType, bool) {
	nt, ok := noteTypes[typ]
	return nt, ok
}

// NoteTypes returns every note model the deck uses, in record-type order.
func NoteTypes() []NoteType {
	out := make([]NoteType, 0, len(noteTypes))
	for _, typ := range record.Types() {
		if nt, ok := noteTypes[typ]; ok {
			out = append(out, nt)
		}
	}
	return out
}

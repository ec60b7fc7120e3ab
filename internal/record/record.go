package record

import (
	"fmt"
	"strings"

	"kartei/internal/services"
)

// Type identifies the grammatical shape of a record and selects its field
// schema, domain model, and card builder.
type Type string

const (
	TypeNoun            Type = "noun"
	TypeVerbConjugation Type = "verb_conjugation"
	TypeVerbImperative  Type = "verb_imperative"
	TypeAdjective       Type = "adjective"
	TypeNounCases       Type = "noun_cases"
	TypePhrase          Type = "phrase"
)

// Media field names shared across record types. These columns are normally
// empty in source CSVs and are filled by enrichment.
const (
	FieldImage        = "Image"
	FieldWordAudio    = "WordAudio"
	FieldExampleAudio = "ExampleAudio"
)

type schema struct {
	fields []string
	media  []string
}

// schemas declares, per record type, the ordered intrinsic field names and
// the media fields appended by enrichment. Order is load-bearing: card field
// values are emitted in exactly this order.
var schemas = map[Type]schema{
	TypeNoun: {
		fields: []string{"Word", "Article", "Plural", "Translation", "Example", "ExampleTranslation"},
		media:  []string{FieldImage, FieldWordAudio, FieldExampleAudio},
	},
	TypeVerbConjugation: {
		fields: []string{"Infinitive", "Translation", "Tense", "Ich", "Du", "Er", "Wir", "Ihr", "Sie", "Example", "ExampleTranslation"},
		media:  []string{FieldWordAudio, FieldImage},
	},
	TypeVerbImperative: {
		fields: []string{"Infinitive", "Translation", "DuForm", "IhrForm", "SieForm", "Example"},
		media:  []string{FieldWordAudio, FieldImage},
	},
	TypeAdjective: {
		fields: []string{"Word", "Translation", "Comparative", "Superlative", "Example", "ExampleTranslation"},
		media:  []string{FieldImage, FieldWordAudio, FieldExampleAudio},
	},
	TypeNounCases: {
		fields: []string{"Word", "Gender", "Nominative", "Accusative", "Dative", "Genitive"},
		media:  []string{FieldWordAudio},
	},
	TypePhrase: {
		fields: []string{"Phrase", "Translation"},
		media:  []string{FieldWordAudio},
	},
}

// Types returns all known record types in a stable order.
func Types() []Type {
	return []Type{
		TypeNoun,
		TypeVerbConjugation,
		TypeVerbImperative,
		TypeAdjective,
		TypeNounCases,
		TypePhrase,
	}
}

// ParseType normalizes and validates a record type tag.
func ParseType(value string) (Type, error) {
	typ := Type(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := schemas[typ]; !ok {
		return "", services.Wrap(services.ErrUnsupported, "record", "parse type", fmt.Sprintf("unknown record type %q", value), nil)
	}
	return typ, nil
}

// FieldNames returns the ordered intrinsic field names for a record type.
func FieldNames(typ Type) []string {
	s, ok := schemas[typ]
	if !ok {
		return nil
	}
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// MediaFieldNames returns the media fields a record type carries, in card
// field order.
func MediaFieldNames(typ Type) []string {
	s, ok := schemas[typ]
	if !ok {
		return nil
	}
	out := make([]string, len(s.media))
	copy(out, s.media)
	return out
}

// ExpectedFieldCount returns the number of intrinsic CSV columns for a type.
func ExpectedFieldCount(typ Type) int {
	return len(schemas[typ].fields)
}

// Record is one validated, immutable CSV row. Media values are only ever set
// at construction (pre-populated columns); enrichment produces a separate
// map rather than mutating the record.
type Record struct {
	typ    Type
	row    int
	values []string
	media  map[string]string
}

// ValidationError reports a rejected CSV row with enough context to find it.
type ValidationError struct {
	Type     Type
	Row      int
	Field    string
	Expected int
	Actual   int
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("record %s row %d: %s", e.Type, e.Row, e.Reason)
	}
	return fmt.Sprintf("record %s row %d: expected %d fields, got %d", e.Type, e.Row, e.Expected, e.Actual)
}

func (e *ValidationError) Unwrap() error { return services.ErrValidation }

// New constructs a validated record from intrinsic field values. The row
// argument is the 1-based source row used in error messages; pass 0 when the
// record does not come from a file.
func New(typ Type, row int, values []string) (Record, error) {
	s, ok := schemas[typ]
	if !ok {
		return Record{}, services.Wrap(services.ErrUnsupported, "record", "new", fmt.Sprintf("unknown record type %q", typ), nil)
	}
	if len(values) != len(s.fields) {
		return Record{}, &ValidationError{Type: typ, Row: row, Expected: len(s.fields), Actual: len(values)}
	}
	copied := make([]string, len(values))
	for i, v := range values {
		copied[i] = strings.TrimSpace(v)
	}
	return Record{typ: typ, row: row, values: copied}, nil
}

// WithMedia returns a copy of the record carrying pre-populated media values.
// Unknown media keys are rejected.
func (r Record) WithMedia(media map[string]string) (Record, error) {
	if len(media) == 0 {
		return r, nil
	}
	allowed := make(map[string]struct{})
	for _, name := range MediaFieldNames(r.typ) {
		allowed[name] = struct{}{}
	}
	copied := make(map[string]string, len(media))
	for key, value := range media {
		if _, ok := allowed[key]; !ok {
			return Record{}, &ValidationError{Type: r.typ, Row: r.row, Field: key, Reason: fmt.Sprintf("media field %q not declared for type", key)}
		}
		if value = strings.TrimSpace(value); value != "" {
			copied[key] = value
		}
	}
	clone := r
	clone.media = copied
	return clone, nil
}

// Type returns the record's type tag.
func (r Record) Type() Type { return r.typ }

// Row returns the 1-based source row the record came from (0 if synthetic).
func (r Record) Row() int { return r.row }

// FieldCount returns the number of intrinsic field values.
func (r Record) FieldCount() int { return len(r.values) }

// Field returns the value of the named intrinsic field.
func (r Record) Field(name string) string {
	for i, fieldName := range schemas[r.typ].fields {
		if fieldName == name {
			return r.values[i]
		}
	}
	return ""
}

// Fields returns a copy of the intrinsic field values in schema order.
func (r Record) Fields() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Media returns the pre-populated value for a media field, if any.
func (r Record) Media(name string) string {
	return r.media[name]
}

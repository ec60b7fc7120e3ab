package vocab

import (
	"context"
	"fmt"

	"kartei/internal/record"
	"kartei/internal/services"
)

// QueryGenerator produces an image search query for a vocabulary item.
// Implemented by the text generation client; tests substitute fakes.
type QueryGenerator interface {
	GenerateImageQuery(ctx context.Context, word, translation, example string) (string, error)
}

// Model is the language-aware view of a record. It decides what text is
// spoken for each audio field, which word names cached image files, and how
// to phrase an image search.
type Model interface {
	// Record returns the underlying source record.
	Record() record.Record

	// PrimaryWord returns the headword used for image cache filenames and
	// log lines.
	PrimaryWord() string

	// AudioSegments maps each audio media field the record type declares to
	// the text that should be synthesized for it. Fields whose source text
	// is empty are omitted.
	AudioSegments() map[string]string

	// WantsImage reports whether the record type carries an image field.
	WantsImage() bool

	// SearchQuery asks gen for an image query, falling back to the record's
	// translation when generation fails or gen is nil.
	SearchQuery(ctx context.Context, gen QueryGenerator) string
}

type constructor func(record.Record) Model

// constructors maps record types to their model builders. New record types
// register here and nowhere else.
var constructors = map[record.Type]constructor{
	record.TypeNoun:            newNoun,
	record.TypeVerbConjugation: newVerbConjugation,
	record.TypeVerbImperative:  newVerbImperative,
	record.TypeAdjective:       newAdjective,
	record.TypeNounCases:       newNounCases,
	record.TypePhrase:          newPhrase,
}

// New builds the domain model for a record.
func New(rec record.Record) (Model, error) {
	build, ok := constructors[rec.Type()]
	if !ok {
		return nil, services.Wrap(services.ErrUnsupported, "vocab", "new model", fmt.Sprintf("no model for record type %q", rec.Type()), nil)
	}
	return build(rec), nil
}

package anki

import (
	"context"

	"kartei/internal/card"
)

// Backend is the deck persistence boundary. The production implementation
// talks to a running Anki instance over AnkiConnect; tests substitute an
// in-memory fake.
type Backend interface {
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// EnsureDeck creates the named deck if it does not exist.
	EnsureDeck(ctx context.Context, name string) error

	// EnsureNoteType creates the note model if it does not exist. Existing
	// models are left untouched, even when their field lists differ.
	EnsureNoteType(ctx context.Context, nt card.NoteType) error

	// AddNote adds one note to the deck. It returns false when the backend
	// rejected the note as a duplicate, which is not an error.
	AddNote(ctx context.Context, deck string, c card.Card) (bool, error)

	// AddMediaFile registers a media file with the backend's collection.
	AddMediaFile(ctx context.Context, filename, path string) error

	// ExportDeck writes the deck as an .apkg package to outPath.
	ExportDeck(ctx context.Context, deck, outPath string) error
}

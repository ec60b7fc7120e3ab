// Package enrich produces audio and image media for domain models. Audio
// files are cached on disk under a content hash of the spoken text; images
// are cached under the headword. Existence checks run before any external
// call, and failures degrade per media field instead of failing the record.
package enrich

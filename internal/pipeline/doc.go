// Package pipeline orchestrates a full generation run: CSV records are
// loaded, multiplied by proficiency level, enriched with cached media,
// rendered into cards, and pushed to the deck backend together with the
// media files the cards reference. Runs are strictly sequential and guarded
// by a state-directory file lock.
package pipeline

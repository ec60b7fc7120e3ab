// Package mediafiles finds media references inside card fields and registers
// the underlying files with the deck backend, deduplicating per run and
// validating every filename before it reaches the filesystem.
package mediafiles

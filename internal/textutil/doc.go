// Package textutil provides small text helpers used across the pipeline:
// filename sanitization, diacritic folding for cache keys, and a generic
// conditional helper.
package textutil

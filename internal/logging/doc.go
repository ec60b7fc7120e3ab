// Package logging assembles structured slog loggers and formatting helpers
// used across Kartei.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes field-name constants so pipeline code tags log
// lines with record types, run IDs, and media filenames consistently. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape as the rest of the system.
package logging

package mediafiles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"kartei/internal/logging"
)

// MediaAdder uploads one media file to the deck backend.
type MediaAdder interface {
	AddMediaFile(ctx context.Context, filename, path string) error
}

var (
	soundTagPattern = regexp.MustCompile(`\[sound:([^\[\]]+)\]`)
	imgSrcPattern   = regexp.MustCompile(`<img[^>]*\bsrc="([^"]+)"`)

	// safeNamePattern is the strict shape every candidate must match:
	// alphanumeric first and last character, interior limited to
	// alphanumerics, dot, underscore, and hyphen.
	safeNamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)

	mediaExtensions = map[string]struct{}{
		".mp3": {}, ".ogg": {}, ".wav": {},
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	}
)

// Registrar extracts media filenames from card fields and uploads each
// referenced file to the backend exactly once per run.
type Registrar struct {
	backend   MediaAdder
	mediaDirs []string
	seen      map[string]struct{}
	logger    *slog.Logger
}

// New builds a Registrar that resolves filenames against mediaDirs in order.
func New(backend MediaAdder, mediaDirs []string, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registrar{
		backend:   backend,
		mediaDirs: mediaDirs,
		seen:      make(map[string]struct{}),
		logger:    logger.With(logging.String(logging.FieldComponent, "mediafiles")),
	}
}

// Reset clears the already-registered set so an independent run can reuse
// the Registrar.
func (r *Registrar) Reset() {
	r.seen = make(map[string]struct{})
}

// Register scans field values for media references and uploads every safe,
// present, not-yet-registered file. It returns the number of files uploaded
// in this call. Unsafe candidates are dropped silently; safe names whose
// file is missing are logged and skipped.
func (r *Registrar) Register(ctx context.Context, fieldValues []string) (int, error) {
	registered := 0
	for _, value := range fieldValues {
		for _, candidate := range ExtractFilenames(value) {
			if _, done := r.seen[candidate]; done {
				continue
			}
			path, ok := r.resolve(candidate)
			if !ok {
				r.logger.Warn("referenced media file not found on disk",
					logging.String(logging.FieldFilename, candidate))
				continue
			}
			if err := r.backend.AddMediaFile(ctx, candidate, path); err != nil {
				return registered, fmt.Errorf("register media file %s: %w", candidate, err)
			}
			r.seen[candidate] = struct{}{}
			registered++
		}
	}
	return registered, nil
}

// resolve finds the on-disk path for a filename, trying each media dir in
// order.
func (r *Registrar) resolve(filename string) (string, bool) {
	for _, dir := range r.mediaDirs {
		path := filepath.Join(dir, filename)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ExtractFilenames pulls every safe media filename out of one field value:
// bracketed sound tags, embedded img src attributes, and fields whose whole
// trimmed content is a bare media filename.
func ExtractFilenames(field string) []string {
	var out []string
	appendSafe := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if IsSafeFilename(candidate) {
			out = append(out, candidate)
		}
	}
	for _, match := range soundTagPattern.FindAllStringSubmatch(field, -1) {
		appendSafe(match[1])
	}
	for _, match := range imgSrcPattern.FindAllStringSubmatch(field, -1) {
		appendSafe(match[1])
	}
	if trimmed := strings.TrimSpace(field); isBareMediaFilename(trimmed) {
		appendSafe(trimmed)
	}
	return out
}

func isBareMediaFilename(value string) bool {
	ext := strings.ToLower(filepath.Ext(value))
	if _, ok := mediaExtensions[ext]; !ok {
		return false
	}
	return !strings.ContainsAny(value, "[]<>\" \t\n")
}

// IsSafeFilename is the security boundary between untrusted CSV content and
// the filesystem: no parent-directory sequences, no rooted paths, bounded
// length, and a strict character class.
func IsSafeFilename(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return false
	}
	return safeNamePattern.MatchString(name)
}

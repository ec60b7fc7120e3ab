package textutil

import "strings"

// SanitizeFileName makes a deck or export name safe to use as a filename.
// Path separators and colons become dashes, shell-hostile punctuation is
// dropped, and surrounding whitespace is trimmed.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteRune('-')
		case '?', '"', '<', '>', '|':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// SanitizeToken lowercases a headword into a filesystem-safe cache token:
// ASCII letters and digits survive, hyphens and underscores are kept, and
// everything else (spaces, punctuation) becomes an underscore. Returns
// "unknown" for empty input so a blank word can never address the cache
// root.
func SanitizeToken(value string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(value))
	mapped = strings.Trim(mapped, "_-")
	if mapped == "" {
		return "unknown"
	}
	return mapped
}

package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// germanReplacer applies the conventional ASCII transliterations before
// generic diacritic stripping, so "hören" folds to "hoeren" rather than
// "horen".
var germanReplacer = strings.NewReplacer(
	"ä", "ae", "Ä", "Ae",
	"ö", "oe", "Ö", "Oe",
	"ü", "ue", "Ü", "Ue",
	"ß", "ss",
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics transliterates German umlauts and ß, then strips any
// remaining combining marks. Used to derive stable ASCII cache filenames
// from vocabulary words.
func FoldDiacritics(value string) string {
	value = germanReplacer.Replace(value)
	folded, _, err := transform.String(diacriticStripper, value)
	if err != nil {
		return value
	}
	return folded
}

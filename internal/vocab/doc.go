// Package vocab turns validated records into language-aware domain models.
// Each record type maps to one model via a constructor table; models decide
// spoken audio text, the image headword, and the image search query.
package vocab

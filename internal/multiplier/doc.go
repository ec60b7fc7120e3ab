// Package multiplier expands and filters verb records per proficiency level.
// Conjugation rows are grouped by infinitive and reduced to the level's
// tense allow-list; imperatives always survive; other record types pass
// through untouched.
package multiplier

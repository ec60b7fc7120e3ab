// Command kartei turns German vocabulary CSV files into Anki flashcard
// decks with synthesized audio and illustrative images.
package main

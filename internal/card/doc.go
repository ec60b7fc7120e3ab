// Package card assembles deck notes from enriched records. Each record type
// maps to one note model; builders guarantee that a card's field values
// always match its note type's declared field count.
package card

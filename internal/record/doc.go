// Package record defines the typed CSV row contract at the front of the
// deck-generation pipeline. Each record type declares a fixed, ordered field
// schema; ingestion validates every row against that schema and reports
// rejects without aborting the load.
package record

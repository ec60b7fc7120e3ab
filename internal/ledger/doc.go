// Package ledger keeps an advisory SQLite record of generation runs and
// media cache usage. The on-disk caches stay authoritative; the ledger only
// powers run history and cache statistics.
package ledger

// Package preflight verifies the environment before a generation run: cache
// and state directories, free disk space, and the reachability of the
// speech, text generation, image search, and AnkiConnect endpoints.
package preflight

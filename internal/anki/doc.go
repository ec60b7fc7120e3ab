// Package anki persists generated cards. The Backend interface abstracts the
// deck store; ConnectClient implements it against the AnkiConnect add-on
// HTTP API of a running Anki instance.
package anki

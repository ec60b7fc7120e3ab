// Package textgen wraps an OpenRouter-compatible chat completion API to
// produce short image search queries for vocabulary items.
package textgen

// Package config loads, normalizes, and validates the TOML configuration for
// Kartei. Loading resolves the config path (explicit flag, then
// ~/.config/kartei/config.toml, then ./kartei.toml), expands ~ in every path
// field, applies defaults for anything unset, and rejects unusable values
// before the rest of the application sees them.
package config

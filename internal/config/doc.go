// Package config loads, normalizes, and validates mediafixer configuration.
// Settings come from a TOML file with MEDIAFIXER_* environment variables
// layered on top; the resulting Config is immutable for the duration of a
// run and threaded explicitly through every component.
package config

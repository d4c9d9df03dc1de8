// Package logging assembles the structured slog loggers used across
// mediafixer. It owns the console and JSON handlers, level and output
// plumbing, and a no-op logger for tests. Prefer these constructors over
// hand-rolled slog setup so every component logs with the same shape.
package logging

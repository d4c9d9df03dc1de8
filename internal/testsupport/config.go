// Package testsupport provides per-test configuration builders and stub
// external binaries so package tests never depend on a real ffmpeg install.
package testsupport

import (
	"path/filepath"
	"testing"

	"mediafixer/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.QueueDir = filepath.Join(base, "queues")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Format = "json"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithPolicy overrides the conversion policy on the test config.
func WithPolicy(policy config.Policy) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Policy = policy
	}
}

// WithStepTimeout sets the per-step transformation timeout in seconds.
func WithStepTimeout(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.FFmpeg.StepTimeoutSeconds = seconds
	}
}

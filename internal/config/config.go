package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// QueueDir holds the queue files. When empty the scan root is used, so
	// the queue state lives next to the tree it describes.
	QueueDir string `toml:"queue_dir"`
	// QueuePrefix namespaces the queue files so independent runs over
	// different trees can share a directory without collision.
	QueuePrefix string `toml:"queue_prefix"`
	LogDir      string `toml:"log_dir"`
}

// Policy describes the target container, codec, and sizing every video in
// the tree should satisfy.
type Policy struct {
	Container          string `toml:"container"`
	ContainerExtension string `toml:"container_extension"`
	VideoCodec         string `toml:"video_codec"`
	MaxWidth           int    `toml:"max_width"`
	MaxHeight          int    `toml:"max_height"`
}

// FFmpeg contains the external tool invocation settings.
type FFmpeg struct {
	Binary      string `toml:"binary"`
	ProbeBinary string `toml:"probe_binary"`
	// ExtraOptions are global ffmpeg flags prepended to every invocation.
	ExtraOptions string `toml:"extra_options"`
	// EncodeOptions select the video encoder used when the codec must change.
	EncodeOptions string `toml:"encode_options"`
	// ScaleFlags are passed to the scale filter when resizing.
	ScaleFlags string `toml:"scale_flags"`
	// StepTimeoutSeconds bounds each remux/encode invocation. Zero disables
	// the timeout.
	StepTimeoutSeconds int `toml:"step_timeout_seconds"`
}

// Scan contains directory-walk behavior.
type Scan struct {
	// DeleteLeftovers removes orphaned working artifacts during the scan
	// instead of routing them to the leftover queue.
	DeleteLeftovers bool `toml:"delete_leftovers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediafixer.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Policy  Policy  `toml:"policy"`
	FFmpeg  FFmpeg  `toml:"ffmpeg"`
	Scan    Scan    `toml:"scan"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediafixer/config.toml")
}

// Load locates, parses, and validates a configuration file, then layers
// MEDIAFIXER_* environment overrides on top. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediafixer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories mediafixer writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.QueueDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// QueueDirFor resolves the queue directory for a run rooted at scanRoot.
func (c *Config) QueueDirFor(scanRoot string) string {
	if strings.TrimSpace(c.Paths.QueueDir) != "" {
		return c.Paths.QueueDir
	}
	return scanRoot
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

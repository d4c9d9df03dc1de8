package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePolicy() error {
	if c.Policy.Container == "" {
		return errors.New("policy.container must be set")
	}
	if c.Policy.ContainerExtension == "" {
		return errors.New("policy.container_extension must be set")
	}
	if strings.ContainsAny(c.Policy.ContainerExtension, "/\\") {
		return fmt.Errorf("policy.container_extension %q must not contain path separators", c.Policy.ContainerExtension)
	}
	if c.Policy.VideoCodec == "" {
		return errors.New("policy.video_codec must be set")
	}
	if c.Policy.MaxWidth <= 0 {
		return errors.New("policy.max_width must be positive")
	}
	if c.Policy.MaxHeight <= 0 {
		return errors.New("policy.max_height must be positive")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.Binary == "" {
		return errors.New("ffmpeg.binary must be set")
	}
	if c.FFmpeg.ProbeBinary == "" {
		return errors.New("ffmpeg.probe_binary must be set")
	}
	if c.FFmpeg.StepTimeoutSeconds < 0 {
		return errors.New("ffmpeg.step_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

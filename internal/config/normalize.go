package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.QueueDir) != "" {
		if c.Paths.QueueDir, err = expandPath(c.Paths.QueueDir); err != nil {
			return fmt.Errorf("paths.queue_dir: %w", err)
		}
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Paths.QueuePrefix = strings.TrimSpace(c.Paths.QueuePrefix)
	c.Policy.Container = strings.TrimSpace(c.Policy.Container)
	c.Policy.ContainerExtension = strings.TrimPrefix(strings.TrimSpace(c.Policy.ContainerExtension), ".")
	c.Policy.VideoCodec = strings.TrimSpace(c.Policy.VideoCodec)
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	c.FFmpeg.ProbeBinary = strings.TrimSpace(c.FFmpeg.ProbeBinary)
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

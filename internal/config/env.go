package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names recognized as overrides. They take precedence
// over the configuration file so a policy can be adjusted per invocation
// without editing it.
const (
	envContainer          = "MEDIAFIXER_CONTAINER"
	envContainerExtension = "MEDIAFIXER_CONTAINER_EXTENSION"
	envVideoCodec         = "MEDIAFIXER_VIDEO_CODEC"
	envVideoWidth         = "MEDIAFIXER_VIDEO_WIDTH"
	envVideoHeight        = "MEDIAFIXER_VIDEO_HEIGHT"
	envExtraOptions       = "MEDIAFIXER_FFMPEG_EXTRA_OPTS"
	envEncodeOptions      = "MEDIAFIXER_FFMPEG_ENCODE"
	envQueuePrefix        = "MEDIAFIXER_QUEUE_PREFIX"
)

func (c *Config) applyEnvOverrides() error {
	if value, ok := lookup(envContainer); ok {
		c.Policy.Container = value
	}
	if value, ok := lookup(envContainerExtension); ok {
		c.Policy.ContainerExtension = value
	}
	if value, ok := lookup(envVideoCodec); ok {
		c.Policy.VideoCodec = value
	}
	if value, ok := lookup(envVideoWidth); ok {
		width, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", envVideoWidth, err)
		}
		c.Policy.MaxWidth = width
	}
	if value, ok := lookup(envVideoHeight); ok {
		height, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", envVideoHeight, err)
		}
		c.Policy.MaxHeight = height
	}
	if value, ok := lookup(envExtraOptions); ok {
		c.FFmpeg.ExtraOptions = value
	}
	if value, ok := lookup(envEncodeOptions); ok {
		c.FFmpeg.EncodeOptions = value
	}
	if value, ok := lookup(envQueuePrefix); ok {
		c.Paths.QueuePrefix = value
	}
	return nil
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

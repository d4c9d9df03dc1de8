package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response. Failures to execute or parse are probe errors; the caller routes
// the file to the failed queue.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, detail)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// VideoStream returns the first video stream, or ok=false when the file has
// none.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// HasContainer reports whether ffprobe identified the container format.
func (r Result) HasContainer() bool {
	return strings.TrimSpace(r.Format.FormatName) != ""
}

// Container returns the canonical container name for the probed file, such
// as "Matroska" or "MPEG-4".
func (r Result) Container() string {
	return CanonicalContainer(r.Format.FormatName)
}

// VideoCodec returns the canonical codec name of the first video stream, or
// the empty string when the file has none.
func (r Result) VideoCodec() string {
	stream, ok := r.VideoStream()
	if !ok {
		return ""
	}
	return CanonicalCodec(stream.CodecName)
}

// VideoHeight returns the pixel height of the first video stream, or 0.
func (r Result) VideoHeight() int {
	stream, ok := r.VideoStream()
	if !ok {
		return 0
	}
	return stream.Height
}

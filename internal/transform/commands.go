package transform

import (
	"fmt"

	"github.com/google/shlex"

	"mediafixer/internal/config"
)

// remuxArgs builds the ffmpeg argument list for a container change: all
// streams are mapped except data streams, and every codec is copied
// verbatim. The target container is selected by the output extension.
func remuxArgs(cfg *config.Config, input, output string) ([]string, error) {
	args, err := shlex.Split(cfg.FFmpeg.ExtraOptions)
	if err != nil {
		return nil, fmt.Errorf("parse ffmpeg.extra_options: %w", err)
	}
	args = append(args,
		"-i", input,
		"-map", "0", "-map", "-0:d",
		"-c", "copy",
		output,
	)
	return args, nil
}

// encodeArgs builds the ffmpeg argument list for the encode/resize step.
// The video stream is re-encoded with the policy encoder whenever the codec
// must change or the picture must shrink (scaling requires encoding);
// audio and subtitle streams are copied verbatim either way.
func encodeArgs(cfg *config.Config, input, output string, reencode, resize bool) ([]string, error) {
	args, err := shlex.Split(cfg.FFmpeg.ExtraOptions)
	if err != nil {
		return nil, fmt.Errorf("parse ffmpeg.extra_options: %w", err)
	}
	args = append(args, "-i", input, "-map", "0", "-map", "-0:d")

	if reencode || resize {
		encoder, err := shlex.Split(cfg.FFmpeg.EncodeOptions)
		if err != nil {
			return nil, fmt.Errorf("parse ffmpeg.encode_options: %w", err)
		}
		args = append(args, encoder...)
	} else {
		args = append(args, "-c:v", "copy")
	}

	if resize {
		filter := fmt.Sprintf("scale=%d:%d", cfg.Policy.MaxWidth, cfg.Policy.MaxHeight)
		if cfg.FFmpeg.ScaleFlags != "" {
			filter += ":flags=" + cfg.FFmpeg.ScaleFlags
		}
		args = append(args, "-vf", filter)
	}

	args = append(args, "-c:a", "copy", "-c:s", "copy", output)
	return args, nil
}

package config

const (
	defaultLogDir             = "~/.local/share/mediafixer/logs"
	defaultContainer          = "Matroska"
	defaultContainerExtension = "mkv"
	defaultVideoCodec         = "AV1"
	defaultMaxWidth           = 1280
	defaultMaxHeight          = 720
	defaultFFmpegBinary       = "ffmpeg"
	defaultProbeBinary        = "ffprobe"
	defaultExtraOptions       = "-fflags +genpts -nostdin -find_stream_info"
	defaultEncodeOptions      = "-c:v libsvtav1 -crf 38 -preset 8 -g 240 -pix_fmt yuv420p"
	defaultScaleFlags         = "lanczos"
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Policy: Policy{
			Container:          defaultContainer,
			ContainerExtension: defaultContainerExtension,
			VideoCodec:         defaultVideoCodec,
			MaxWidth:           defaultMaxWidth,
			MaxHeight:          defaultMaxHeight,
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			ProbeBinary:   defaultProbeBinary,
			ExtraOptions:  defaultExtraOptions,
			EncodeOptions: defaultEncodeOptions,
			ScaleFlags:    defaultScaleFlags,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

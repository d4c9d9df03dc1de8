package media

import "strings"

// ffprobe reports demuxer identifiers ("matroska,webm", "mov,mp4,m4a,3gp,3g2,mj2")
// rather than the container names policies are written against. The tables
// below map both spellings onto one canonical vocabulary.

var containerNames = map[string]string{
	"matroska": "Matroska",
	"webm":     "Matroska",
	"mov":      "MPEG-4",
	"mp4":      "MPEG-4",
	"m4a":      "MPEG-4",
	"avi":      "AVI",
	"mpegts":   "MPEG-TS",
	"mpeg":     "MPEG-PS",
	"flv":      "Flash Video",
	"asf":      "Windows Media",
	"ogg":      "Ogg",
}

var codecNames = map[string]string{
	"av1":        "AV1",
	"h264":       "H264",
	"avc":        "H264",
	"hevc":       "HEVC",
	"h265":       "HEVC",
	"vp9":        "VP9",
	"vp8":        "VP8",
	"mpeg4":      "MPEG-4 Visual",
	"mpeg2video": "MPEG-2",
	"vc1":        "VC-1",
}

// CanonicalContainer normalizes an ffprobe format_name (a comma-separated
// demuxer list) to a canonical container name. Unknown formats pass through
// with their first token preserved.
func CanonicalContainer(formatName string) string {
	for _, token := range strings.Split(formatName, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if name, ok := containerNames[token]; ok {
			return name
		}
	}
	first, _, _ := strings.Cut(formatName, ",")
	return strings.TrimSpace(first)
}

// CanonicalCodec normalizes a codec identifier to a canonical name so that
// probe output and policy targets compare consistently.
func CanonicalCodec(codecName string) string {
	token := strings.ToLower(strings.TrimSpace(codecName))
	if name, ok := codecNames[token]; ok {
		return name
	}
	return strings.TrimSpace(codecName)
}

package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteMediaFile creates a dummy media file under dir and, when probeJSON is
// non-empty, the "<path>.probe" sidecar consumed by the StubProbe binary.
func WriteMediaFile(t testing.TB, dir, name, probeJSON string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for media file: %v", err)
	}
	if err := os.WriteFile(path, []byte("original media payload"), 0o644); err != nil {
		t.Fatalf("write media file: %v", err)
	}
	if probeJSON != "" {
		if err := os.WriteFile(path+".probe", []byte(probeJSON), 0o644); err != nil {
			t.Fatalf("write probe sidecar: %v", err)
		}
	}
	return path
}

// ProbeJSON renders a minimal ffprobe payload with one video stream.
func ProbeJSON(formatName, codecName string, width, height int) string {
	return fmt.Sprintf(`{
  "streams": [
    {"index": 0, "codec_name": %q, "codec_type": "video", "width": %d, "height": %d},
    {"index": 1, "codec_name": "aac", "codec_type": "audio"}
  ],
  "format": {"format_name": %q, "nb_streams": 2}
}`, codecName, width, height, formatName)
}

// ProbeJSONAudioOnly renders an ffprobe payload with no video stream.
func ProbeJSONAudioOnly(formatName string) string {
	return fmt.Sprintf(`{
  "streams": [{"index": 0, "codec_name": "flac", "codec_type": "audio"}],
  "format": {"format_name": %q, "nb_streams": 1}
}`, formatName)
}

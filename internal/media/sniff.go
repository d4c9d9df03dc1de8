package media

import (
	"path/filepath"
	"strings"
)

// Extensions recognized as video containers (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
	".vob":  true,
	".ogv":  true,
}

// IsVideoPath reports whether a path looks like a video file by extension.
// The scan phase uses it to avoid probing every file in the tree; the probe
// remains the authority on whether the content is actually readable.
func IsVideoPath(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

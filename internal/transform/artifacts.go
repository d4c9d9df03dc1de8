package transform

import (
	"path/filepath"
	"strings"
)

// Suffix markers for intermediate files. Every artifact keeps the original
// filename stem so a cleanup pass can identify orphans from a crashed run by
// suffix alone and never mistakes them for canonical media.
const (
	workingMarker = ".mfx-working"
	remuxedMarker = ".mfx-remuxed"
	encodedMarker = ".mfx-encoded"
)

// WorkingPath returns the private working copy location for a source file.
func WorkingPath(source string) string {
	return stemPath(source) + workingMarker
}

// RemuxedPath returns the remux step output for a working copy.
func RemuxedPath(source, containerExt string) string {
	return stemPath(source) + remuxedMarker + "." + containerExt
}

// EncodedPath returns the encode step output for a working copy.
func EncodedPath(source, containerExt string) string {
	return stemPath(source) + encodedMarker + "." + containerExt
}

// FinalPath returns the canonical destination: the original stem with the
// policy's container extension.
func FinalPath(source, containerExt string) string {
	return stemPath(source) + "." + containerExt
}

// IsArtifact reports whether path carries one of the intermediate suffix
// markers, with or without a trailing container extension.
func IsArtifact(path string) bool {
	base := filepath.Base(path)
	for _, marker := range []string{workingMarker, remuxedMarker, encodedMarker} {
		if strings.HasSuffix(base, marker) || strings.Contains(base, marker+".") {
			return true
		}
	}
	return false
}

func stemPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source))
}

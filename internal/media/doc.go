// Package media wraps ffprobe inspection and file-type sniffing. It turns
// raw probe output into the container/codec/height triple the classifier
// compares against the conversion policy.
package media

// Package transform drives the external ffmpeg steps that bring a single
// video in line with the conversion policy. Every step operates on a private
// working copy; the original file is replaced only after all required steps
// succeed, and is left untouched when any step fails.
package transform

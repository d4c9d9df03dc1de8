package transform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediafixer/internal/logging"
	"mediafixer/internal/queue"
	"mediafixer/internal/testsupport"
	"mediafixer/internal/transform"
)

func readArgsLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read args log: %v", err)
	}
	return string(data)
}

func TestProcessRemuxOnlyPromotesAndRemovesOriginal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, argsLog := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin

	dir := t.TempDir()
	source := testsupport.WriteMediaFile(t, dir, "movie.mp4", "")

	runner := transform.NewRunner(cfg, logging.NewNop(), false)
	item := queue.WorkItem{Path: source, Remux: true}
	if err := runner.Process(context.Background(), item); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	final := filepath.Join(dir, "movie.mkv")
	if _, err := os.Stat(final); err != nil {
		t.Fatalf("expected final file %s: %v", final, err)
	}
	if _, err := os.Stat(source); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected original removed after extension change, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if transform.IsArtifact(entry.Name()) {
			t.Fatalf("leftover artifact after success: %s", entry.Name())
		}
	}

	log := readArgsLog(t, argsLog)
	if !strings.Contains(log, "-c copy") {
		t.Fatalf("expected stream-copy remux invocation, got %q", log)
	}
	if strings.Contains(log, "scale=") {
		t.Fatalf("unexpected scale filter in remux-only run: %q", log)
	}
}

func TestProcessEncodeAndResizeCommands(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, argsLog := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin

	dir := t.TempDir()
	source := testsupport.WriteMediaFile(t, dir, "show.mkv", "")

	runner := transform.NewRunner(cfg, logging.NewNop(), false)
	item := queue.WorkItem{Path: source, Reencode: true, Resize: true}
	if err := runner.Process(context.Background(), item); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	log := readArgsLog(t, argsLog)
	if !strings.Contains(log, "-c:v libsvtav1") {
		t.Fatalf("expected policy encoder in invocation, got %q", log)
	}
	if !strings.Contains(log, "scale=1280:720:flags=lanczos") {
		t.Fatalf("expected scale filter, got %q", log)
	}
	if !strings.Contains(log, "-c:a copy") || !strings.Contains(log, "-c:s copy") {
		t.Fatalf("expected audio/subtitle streams copied, got %q", log)
	}

	// Same extension target: the final file replaces the original in place.
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("expected final file at original path: %v", err)
	}
}

func TestProcessResizeWithoutCodecChangeStillEncodes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, argsLog := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin

	dir := t.TempDir()
	source := testsupport.WriteMediaFile(t, dir, "tall.mkv", "")

	runner := transform.NewRunner(cfg, logging.NewNop(), false)
	if err := runner.Process(context.Background(), queue.WorkItem{Path: source, Resize: true}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	log := readArgsLog(t, argsLog)
	if strings.Contains(log, "-c:v copy") {
		t.Fatalf("scaling requires encoding, got stream copy: %q", log)
	}
	if !strings.Contains(log, "scale=1280:720") {
		t.Fatalf("expected scale filter, got %q", log)
	}
}

func TestProcessFailureLeavesOriginalUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, _ := testsupport.StubFFmpeg(t, 1)
	cfg.FFmpeg.Binary = bin

	dir := t.TempDir()
	source := testsupport.WriteMediaFile(t, dir, "movie.mp4", "")
	before, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}

	runner := transform.NewRunner(cfg, logging.NewNop(), false)
	err = runner.Process(context.Background(), queue.WorkItem{Path: source, Remux: true, Reencode: true})
	if err == nil {
		t.Fatal("expected step failure")
	}
	var stepErr *transform.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T: %v", err, err)
	}
	if stepErr.Step != "remux" {
		t.Fatalf("expected remux step to fail first, got %q", stepErr.Step)
	}
	if !strings.Contains(stepErr.Output, "forced failure") {
		t.Fatalf("expected tool diagnostics captured, got %q", stepErr.Output)
	}

	after, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("original missing after failure: %v", err)
	}
	if string(after) != string(before) {
		t.Fatal("original contents changed on failure")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if transform.IsArtifact(entry.Name()) {
			t.Fatalf("artifact not cleaned up after failure: %s", entry.Name())
		}
	}
}

func TestProcessDryRunTouchesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.FFmpeg.Binary = "/nonexistent/ffmpeg"

	dir := t.TempDir()
	source := testsupport.WriteMediaFile(t, dir, "movie.mp4", "")

	runner := transform.NewRunner(cfg, logging.NewNop(), true)
	if err := runner.Process(context.Background(), queue.WorkItem{Path: source, Remux: true}); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "movie.mp4" {
		t.Fatalf("dry run modified the directory: %v", entries)
	}
}

func TestProcessMissingOriginal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := transform.NewRunner(cfg, logging.NewNop(), false)
	err := runner.Process(context.Background(), queue.WorkItem{Path: filepath.Join(t.TempDir(), "gone.mp4"), Remux: true})
	if err == nil {
		t.Fatal("expected error for missing original")
	}
}

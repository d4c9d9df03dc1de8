package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mediafixer/internal/logging"
	"mediafixer/internal/queue"
	"mediafixer/internal/testsupport"
)

func newStore(t *testing.T, dir string) *queue.Store {
	t.Helper()
	store, err := queue.Open(dir, "")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Initialize(); err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	return store
}

func TestScanRoutesFilesIntoQueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.FFmpeg.ProbeBinary = testsupport.StubProbe(t)
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	needsWork := testsupport.WriteMediaFile(t, root, "shows/pilot.mp4",
		testsupport.ProbeJSON("mov,mp4,m4a,3gp,3g2,mj2", "h264", 1920, 1080))
	conforming := testsupport.WriteMediaFile(t, root, "movies/done.mkv",
		testsupport.ProbeJSON("matroska,webm", "av1", 1280, 720))
	broken := testsupport.WriteMediaFile(t, root, "movies/corrupt.avi", "")
	audioOnly := testsupport.WriteMediaFile(t, root, "movies/silent.mkv",
		testsupport.ProbeJSONAudioOnly("matroska,webm"))
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not a video"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	leftover := filepath.Join(root, "movies", "old.mfx-working")
	if err := os.WriteFile(leftover, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write leftover: %v", err)
	}

	scanner := New(cfg, store, logging.NewNop(), false)
	summary, err := scanner.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if summary.Queued != 1 || summary.Skipped != 1 || summary.Failed != 2 || summary.Leftovers != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	pending, err := store.Entries(queue.Pending)
	if err != nil {
		t.Fatalf("read pending: %v", err)
	}
	want := needsWork + "|||| True True True"
	if len(pending) != 1 || pending[0] != want {
		t.Fatalf("pending = %v, want [%s]", pending, want)
	}

	skipped, _ := store.Entries(queue.Skipped)
	if len(skipped) != 1 || skipped[0] != conforming {
		t.Fatalf("skipped = %v, want [%s]", skipped, conforming)
	}

	failed, _ := store.Entries(queue.Failed)
	if len(failed) != 2 {
		t.Fatalf("failed = %v, want two entries", failed)
	}
	got := map[string]bool{failed[0]: true, failed[1]: true}
	if !got[broken] || !got[audioOnly] {
		t.Fatalf("failed = %v, want %s and %s", failed, broken, audioOnly)
	}

	leftovers, _ := store.Entries(queue.Leftover)
	if len(leftovers) != 1 || leftovers[0] != leftover {
		t.Fatalf("leftover = %v, want [%s]", leftovers, leftover)
	}
	if _, err := os.Stat(leftover); err != nil {
		t.Fatalf("leftover artifact should survive when deletion is off: %v", err)
	}
}

func TestScanDeletesLeftoversWhenConfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.FFmpeg.ProbeBinary = testsupport.StubProbe(t)
	cfg.Scan.DeleteLeftovers = true
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	leftover := filepath.Join(root, "stale.mfx-encoded.mkv")
	if err := os.WriteFile(leftover, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write leftover: %v", err)
	}

	scanner := New(cfg, store, logging.NewNop(), false)
	summary, err := scanner.Run(context.Background(), root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if summary.Leftovers != 1 {
		t.Fatalf("summary.Leftovers = %d, want 1", summary.Leftovers)
	}
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Fatalf("leftover artifact should be deleted, stat err = %v", err)
	}
	if leftovers, _ := store.Entries(queue.Leftover); len(leftovers) != 0 {
		t.Fatalf("leftover queue = %v, want empty after deletion", leftovers)
	}
}

func TestScanDryRunNeverDeletes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.FFmpeg.ProbeBinary = testsupport.StubProbe(t)
	cfg.Scan.DeleteLeftovers = true
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	leftover := filepath.Join(root, "stale.mfx-working")
	if err := os.WriteFile(leftover, []byte("stale"), 0o644); err != nil {
		t.Fatalf("write leftover: %v", err)
	}

	scanner := New(cfg, store, logging.NewNop(), true)
	if _, err := scanner.Run(context.Background(), root); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := os.Stat(leftover); err != nil {
		t.Fatalf("dry run must not delete artifacts: %v", err)
	}
	for _, name := range queue.Names {
		if n, _ := store.Length(name); n != 0 {
			t.Fatalf("dry run must not write queue %s", name)
		}
	}
}

func TestScanOrderIsDeterministic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.FFmpeg.ProbeBinary = testsupport.StubProbe(t)
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	probe := testsupport.ProbeJSON("mov,mp4,m4a,3gp,3g2,mj2", "h264", 1280, 720)
	for _, name := range []string{"c.mp4", "a.mp4", "b/nested.mp4"} {
		testsupport.WriteMediaFile(t, root, name, probe)
	}

	scanner := New(cfg, store, logging.NewNop(), false)
	if _, err := scanner.Run(context.Background(), root); err != nil {
		t.Fatalf("scan: %v", err)
	}

	pending, err := store.Entries(queue.Pending)
	if err != nil {
		t.Fatalf("read pending: %v", err)
	}
	wantOrder := []string{
		filepath.Join(root, "a.mp4"),
		filepath.Join(root, "b", "nested.mp4"),
		filepath.Join(root, "c.mp4"),
	}
	if len(pending) != len(wantOrder) {
		t.Fatalf("pending = %v, want %d entries", pending, len(wantOrder))
	}
	for i, path := range wantOrder {
		item, err := queue.ParseWorkItem(pending[i])
		if err != nil {
			t.Fatalf("parse entry %d: %v", i, err)
		}
		if item.Path != path {
			t.Fatalf("pending[%d].Path = %s, want %s", i, item.Path, path)
		}
	}
}

package work

import (
	"context"
	"os"
	"path/filepath"
	"strings"
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

func remuxEntry(path string) string {
	return queue.WorkItem{Path: path, Remux: true}.Encode()
}

func TestRunProcessesPendingInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, _ := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	var entries []string
	for _, name := range []string{"first.mp4", "second.mp4", "third.mp4"} {
		path := testsupport.WriteMediaFile(t, root, name, "")
		entry := remuxEntry(path)
		entries = append(entries, entry)
		if err := store.Append(queue.Pending, entry); err != nil {
			t.Fatalf("seed pending: %v", err)
		}
	}

	worker := New(cfg, store, logging.NewNop(), false)
	summary, err := worker.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 3 || summary.Completed != 3 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	completed, err := store.Entries(queue.Completed)
	if err != nil {
		t.Fatalf("read completed: %v", err)
	}
	if len(completed) != 3 {
		t.Fatalf("completed = %v, want 3 entries", completed)
	}
	for i, entry := range entries {
		if completed[i] != entry {
			t.Fatalf("completed[%d] = %s, want %s (queue order must hold)", i, completed[i], entry)
		}
	}

	for _, name := range []queue.Name{queue.Pending, queue.InProgress} {
		if n, _ := store.Length(name); n != 0 {
			t.Fatalf("queue %s not drained", name)
		}
	}

	for _, name := range []string{"first", "second", "third"} {
		final := filepath.Join(root, name+".mkv")
		if _, err := os.Stat(final); err != nil {
			t.Fatalf("final output missing for %s: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(root, name+".mp4")); !os.IsNotExist(err) {
			t.Fatalf("original %s.mp4 should be removed after promotion", name)
		}
	}
}

func TestRunContainsPerItemFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, _ := testsupport.StubFFmpeg(t, 1)
	cfg.FFmpeg.Binary = bin
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	first := testsupport.WriteMediaFile(t, root, "broken.mp4", "")
	second := testsupport.WriteMediaFile(t, root, "also-broken.mp4", "")
	for _, path := range []string{first, second} {
		if err := store.Append(queue.Pending, remuxEntry(path)); err != nil {
			t.Fatalf("seed pending: %v", err)
		}
	}

	worker := New(cfg, store, logging.NewNop(), false)
	summary, err := worker.Run(context.Background())
	if err != nil {
		t.Fatalf("per-item failures must not abort the run: %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 2 || summary.Completed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	failed, _ := store.Entries(queue.Failed)
	if len(failed) != 2 {
		t.Fatalf("failed = %v, want both entries", failed)
	}
	for _, path := range []string{first, second} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("original must survive a failed transformation: %v", err)
		}
		if string(data) != "original media payload" {
			t.Fatalf("original %s was modified", path)
		}
	}
}

func TestRunReconcilesInterruptedItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, _ := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	interrupted := remuxEntry(testsupport.WriteMediaFile(t, root, "interrupted.mp4", ""))
	queued := remuxEntry(testsupport.WriteMediaFile(t, root, "queued.mp4", ""))

	// Simulate a crash mid-claim: the entry sits in both queues.
	if err := store.Append(queue.InProgress, interrupted); err != nil {
		t.Fatalf("seed in_progress: %v", err)
	}
	if err := store.Append(queue.Pending, interrupted); err != nil {
		t.Fatalf("seed pending: %v", err)
	}
	if err := store.Append(queue.Pending, queued); err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	worker := New(cfg, store, logging.NewNop(), false)
	summary, err := worker.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 2 || summary.Completed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	completed, _ := store.Entries(queue.Completed)
	if len(completed) != 2 || completed[0] != interrupted || completed[1] != queued {
		t.Fatalf("completed = %v, want interrupted item first and exactly once", completed)
	}
	if n, _ := store.Length(queue.InProgress); n != 0 {
		t.Fatalf("in_progress should be empty after reconciliation")
	}
}

func TestRunReclassifiesBareEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, _ := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin
	cfg.FFmpeg.ProbeBinary = testsupport.StubProbe(t)
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	conforming := testsupport.WriteMediaFile(t, root, "done.mkv",
		testsupport.ProbeJSON("matroska,webm", "av1", 1280, 720))
	unreadable := testsupport.WriteMediaFile(t, root, "still-broken.avi", "")
	for _, path := range []string{conforming, unreadable} {
		if err := store.Append(queue.Pending, path); err != nil {
			t.Fatalf("seed pending: %v", err)
		}
	}

	worker := New(cfg, store, logging.NewNop(), false)
	summary, err := worker.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Completed != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	completed, _ := store.Entries(queue.Completed)
	if len(completed) != 1 || completed[0] != conforming {
		t.Fatalf("completed = %v, want [%s]", completed, conforming)
	}
	failed, _ := store.Entries(queue.Failed)
	if len(failed) != 1 || failed[0] != unreadable {
		t.Fatalf("failed = %v, want [%s]", failed, unreadable)
	}
}

func TestRunDryRunLeavesQueuesUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, argsLog := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	path := testsupport.WriteMediaFile(t, root, "movie.mp4", "")
	entry := remuxEntry(path)
	if err := store.Append(queue.Pending, entry); err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	worker := New(cfg, store, logging.NewNop(), true)
	summary, err := worker.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	pending, _ := store.Entries(queue.Pending)
	if len(pending) != 1 || pending[0] != entry {
		t.Fatalf("pending = %v, dry run must not consume entries", pending)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("dry run must not touch the original: %v", err)
	}
	if _, err := os.Stat(argsLog); !os.IsNotExist(err) {
		t.Fatalf("dry run must not execute ffmpeg")
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	bin, _ := testsupport.StubFFmpeg(t, 0)
	cfg.FFmpeg.Binary = bin
	store := newStore(t, cfg.Paths.QueueDir)

	root := t.TempDir()
	if err := store.Append(queue.Pending, remuxEntry(testsupport.WriteMediaFile(t, root, "a.mp4", ""))); err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker := New(cfg, store, logging.NewNop(), false)
	if _, err := worker.Run(ctx); err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("run with cancelled context: err = %v", err)
	}
}

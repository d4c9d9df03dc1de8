package queue

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrLocked indicates another run already owns the queue set.
var ErrLocked = errors.New("queue set is locked by another run")

// Store manages the queue files under a single directory + filename prefix.
// One store owns its queue set exclusively; Open acquires a lock file to
// enforce the single-writer model.
type Store struct {
	dir    string
	prefix string
	lock   *flock.Flock
}

// Open prepares a store rooted at dir with the given filename prefix and
// acquires its lock file. It fails with ErrLocked when another process
// already holds the same queue set.
func Open(dir, prefix string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("queue directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create queue directory %q: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, prefix+"queue.lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire queue lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	}

	return &Store{dir: dir, prefix: prefix, lock: lock}, nil
}

// OpenReadOnly prepares a store for inspection without taking the queue
// lock, so status can be read while a run is active. Callers must not mutate
// a read-only store.
func OpenReadOnly(dir, prefix string) *Store {
	return &Store{dir: dir, prefix: prefix}
}

// Close releases the queue set lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Dir returns the directory holding the queue files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the backing file for a queue.
func (s *Store) Path(name Name) string {
	return filepath.Join(s.dir, s.prefix+"queue."+string(name))
}

// Initialize truncates every queue file, destroying any prior run's state.
// Callers must only invoke it when starting a fresh scan.
func (s *Store) Initialize() error {
	for _, name := range Names {
		if err := os.WriteFile(s.Path(name), nil, 0o644); err != nil {
			return fmt.Errorf("initialize queue %s: %w", name, err)
		}
	}
	return nil
}

// Append adds entry as the new last line of the named queue. Entries must
// not contain newlines; each append is a single line write so an unrelated
// crash cannot corrupt earlier entries.
func (s *Store) Append(name Name, entry string) error {
	if !name.valid() {
		return fmt.Errorf("unknown queue %q", name)
	}
	if strings.ContainsAny(entry, "\n\r") {
		return fmt.Errorf("queue entry contains newline: %q", entry)
	}

	file, err := os.OpenFile(s.Path(name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open queue %s: %w", name, err)
	}
	defer file.Close()

	if _, err := file.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("append to queue %s: %w", name, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync queue %s: %w", name, err)
	}
	return file.Close()
}

// Length reports the number of entries remaining in the named queue.
// A queue file that does not exist counts as empty.
func (s *Store) Length(name Name) (int, error) {
	entries, err := s.Entries(name)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Entries returns a snapshot of the named queue in FIFO order.
func (s *Store) Entries(name Name) ([]string, error) {
	if !name.valid() {
		return nil, fmt.Errorf("unknown queue %q", name)
	}
	file, err := os.Open(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open queue %s: %w", name, err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read queue %s: %w", name, err)
	}
	return entries, nil
}

// Peek returns the first entry without removing it. The boolean reports
// whether the queue had any entry.
func (s *Store) Peek(name Name) (string, bool, error) {
	entries, err := s.Entries(name)
	if err != nil || len(entries) == 0 {
		return "", false, err
	}
	return entries[0], true, nil
}

// PopFront atomically removes and returns the first entry. An empty or
// missing queue reports ok=false without error.
func (s *Store) PopFront(name Name) (string, bool, error) {
	entries, err := s.Entries(name)
	if err != nil || len(entries) == 0 {
		return "", false, err
	}
	if err := s.rewrite(name, entries[1:]); err != nil {
		return "", false, err
	}
	return entries[0], true, nil
}

// Claim moves the first entry of from into to, returning it. The entry is
// appended to the destination before it is removed from the source, so a
// crash mid-claim leaves it discoverable in both queues rather than in
// neither; Reconcile deduplicates that window on restart.
func (s *Store) Claim(from, to Name) (string, bool, error) {
	entry, ok, err := s.Peek(from)
	if err != nil || !ok {
		return "", false, err
	}
	if err := s.Append(to, entry); err != nil {
		return "", false, err
	}
	if _, _, err := s.PopFront(from); err != nil {
		return "", false, err
	}
	return entry, true, nil
}

// Resolve records the terminal outcome for a claimed entry: it is appended
// to the terminal queue first and then removed from in_progress. A crash
// between the two writes leaves the entry in both; Reconcile drops the
// in_progress copy when a terminal queue already holds it.
func (s *Store) Resolve(entry string, terminal Name) error {
	if terminal != Completed && terminal != Failed {
		return fmt.Errorf("resolve to non-terminal queue %q", terminal)
	}
	if err := s.Append(terminal, entry); err != nil {
		return err
	}
	return s.removeFirst(InProgress, entry)
}

// Reconcile returns items stranded in in_progress by an interrupted run to
// the front of pending so they are retried first. Entries already recorded
// in pending, completed, or failed are dropped instead of duplicated.
// Unresolved items go back to pending rather than failed: an interrupt says
// nothing about whether the item itself is processable.
func (s *Store) Reconcile() (int, error) {
	stranded, err := s.Entries(InProgress)
	if err != nil {
		return 0, err
	}
	if len(stranded) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{})
	for _, name := range []Name{Pending, Completed, Failed} {
		entries, err := s.Entries(name)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			seen[entry] = struct{}{}
		}
	}

	var requeue []string
	for _, entry := range stranded {
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		requeue = append(requeue, entry)
	}

	if len(requeue) > 0 {
		pending, err := s.Entries(Pending)
		if err != nil {
			return 0, err
		}
		if err := s.rewrite(Pending, append(requeue, pending...)); err != nil {
			return 0, err
		}
	}
	if err := s.rewrite(InProgress, nil); err != nil {
		return 0, err
	}
	return len(requeue), nil
}

// RetryFailed drains the failed queue back into pending and reports how
// many entries moved.
func (s *Store) RetryFailed() (int, error) {
	entries, err := s.Entries(Failed)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := s.Append(Pending, entry); err != nil {
			return 0, err
		}
	}
	if err := s.rewrite(Failed, nil); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Counts returns the length of every queue.
func (s *Store) Counts() (map[Name]int, error) {
	counts := make(map[Name]int, len(Names))
	for _, name := range Names {
		length, err := s.Length(name)
		if err != nil {
			return nil, err
		}
		counts[name] = length
	}
	return counts, nil
}

func (s *Store) removeFirst(name Name, entry string) error {
	entries, err := s.Entries(name)
	if err != nil {
		return err
	}
	for i, candidate := range entries {
		if candidate == entry {
			return s.rewrite(name, append(entries[:i:i], entries[i+1:]...))
		}
	}
	return fmt.Errorf("entry not found in queue %s: %q", name, entry)
}

// rewrite replaces the queue contents via a temp file renamed into place so
// readers never observe a partially written queue.
func (s *Store) rewrite(name Name, entries []string) error {
	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, s.prefix+"queue."+string(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("stage queue %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := bufio.NewWriter(tmp)
	for _, entry := range entries {
		if _, err := writer.WriteString(entry + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("stage queue %s: %w", name, err)
		}
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("stage queue %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync queue %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close staged queue %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace queue %s: %w", name, err)
	}
	return nil
}

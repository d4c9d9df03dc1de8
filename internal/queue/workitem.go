package queue

import (
	"fmt"
	"strings"
)

// Delimiter separates the file path from the action flags in a pending
// entry. Four pipes cannot occur in a filesystem path component produced by
// the scanner, so splitting on it is unambiguous.
const Delimiter = "||||"

// WorkItem describes one pending file and the transformations it needs.
type WorkItem struct {
	Path     string
	Remux    bool
	Reencode bool
	Resize   bool
}

// NeedsWork reports whether any transformation flag is set. Items with no
// work are filtered out at classification time and never enqueued.
func (w WorkItem) NeedsWork() bool {
	return w.Remux || w.Reencode || w.Resize
}

// Encode renders the item as a single queue line:
// path, the delimiter, then the remux/reencode/resize flags as
// space-separated True/False tokens.
func (w WorkItem) Encode() string {
	return fmt.Sprintf("%s%s %s %s %s",
		w.Path, Delimiter,
		boolToken(w.Remux), boolToken(w.Reencode), boolToken(w.Resize))
}

// ParseWorkItem decodes a pending queue line back into a WorkItem.
func ParseWorkItem(entry string) (WorkItem, error) {
	path, flagPart, found := strings.Cut(entry, Delimiter)
	if !found {
		return WorkItem{}, fmt.Errorf("work item missing delimiter: %q", entry)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return WorkItem{}, fmt.Errorf("work item missing path: %q", entry)
	}

	flags := strings.Fields(flagPart)
	if len(flags) != 3 {
		return WorkItem{}, fmt.Errorf("work item has %d flags, want 3: %q", len(flags), entry)
	}

	item := WorkItem{Path: path}
	for i, dst := range []*bool{&item.Remux, &item.Reencode, &item.Resize} {
		value, err := parseBoolToken(flags[i])
		if err != nil {
			return WorkItem{}, fmt.Errorf("work item flag %d: %w", i, err)
		}
		*dst = value
	}
	return item, nil
}

func boolToken(value bool) string {
	if value {
		return "True"
	}
	return "False"
}

func parseBoolToken(token string) (bool, error) {
	switch token {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	return false, fmt.Errorf("not a True/False token: %q", token)
}

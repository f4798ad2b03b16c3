package diffcfg

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/angeloszaimis/uwsgicfg/config"
	"github.com/angeloszaimis/uwsgicfg/internal/inifile"
)

// Kind classifies a single difference.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Entry is one key-level difference between two documents.
type Entry struct {
	Kind Kind
	Key  string
	Old  []string
	New  []string
}

func (e Entry) String() string {
	switch e.Kind {
	case Added:
		return fmt.Sprintf("+ %s = %s", e.Key, strings.Join(e.New, ", "))
	case Removed:
		return fmt.Sprintf("- %s = %s", e.Key, strings.Join(e.Old, ", "))
	default:
		return fmt.Sprintf("~ %s: %s -> %s", e.Key,
			strings.Join(e.Old, ", "), strings.Join(e.New, ", "))
	}
}

// Documents compares two documents key by key. Repeated keys are compared
// as their ordered occurrence lists. Entries follow the old document's key
// order, with additions appended in the new document's order.
func Documents(old, new *inifile.Document) []Entry {
	var entries []Entry

	seen := make(map[string]struct{})

	for _, key := range old.Keys() {
		seen[key] = struct{}{}

		oldValues := old.Values(key)
		newValues := new.Values(key)

		switch {
		case newValues == nil:
			entries = append(entries, Entry{Kind: Removed, Key: key, Old: oldValues})
		case !equalValues(oldValues, newValues):
			entries = append(entries, Entry{Kind: Changed, Key: key, Old: oldValues, New: newValues})
		}
	}

	for _, key := range new.Keys() {
		if _, ok := seen[key]; ok {
			continue
		}

		entries = append(entries, Entry{Kind: Added, Key: key, New: new.Values(key)})
	}

	return entries
}

// Records compares the typed view of two documents with go-cmp. The empty
// string means the records are equivalent.
func Records(old, new *config.Config) string {
	return cmp.Diff(old, new)
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

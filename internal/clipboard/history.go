// Package clipboard tracks recent clipboard text and exposes it to the
// launcher as an action.
package clipboard

import (
	"sync"
	"time"

	"github.com/runger/summon/internal/item"
)

// DefaultMaxEntries is the history capacity used when none is configured.
const DefaultMaxEntries = 50

// Entry is one captured clipboard value.
type Entry struct {
	Text       string
	CapturedAt time.Time
}

// History is a bounded list of clipboard snapshots ordered most-recent-first.
// A value equal to the current front is not pushed again; older duplicates
// are kept.
type History struct {
	mu      sync.RWMutex
	entries []Entry // entries[0] is the front
	max     int
}

// NewHistory creates a history holding at most max entries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &History{max: max, entries: make([]Entry, 0, max)}
}

// Max returns the configured capacity.
func (h *History) Max() int {
	return h.max
}

// Push records text captured at the given time. It reports whether a new
// entry was added.
func (h *History) Push(text string, at time.Time) bool {
	if text == "" {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	added := false
	if len(h.entries) == 0 || h.entries[0].Text != text {
		h.entries = append(h.entries, Entry{})
		copy(h.entries[1:], h.entries)
		h.entries[0] = Entry{Text: text, CapturedAt: at}
		added = true
	}
	for len(h.entries) > h.max {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return added
}

// Seed loads previously persisted entries given oldest first. Front
// deduplication and the capacity limit apply as for Push.
func (h *History) Seed(entries []Entry) {
	for _, e := range entries {
		h.Push(e.Text, e.CapturedAt)
	}
}

// Snapshot returns a copy of the entries, front first. It does not wait for
// a writer: if the history is being modified it fails with item.ErrLocked.
func (h *History) Snapshot() ([]Entry, error) {
	if !h.mu.TryRLock() {
		return nil, item.NewError(item.ErrLocked, "Unable to unlock history")
	}
	defer h.mu.RUnlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out, nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

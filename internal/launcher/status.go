// Package launcher is the interactive controller: a bubbletea model that
// owns the interaction state, turns keys into working-set operations and
// projects every state onto a UI.
package launcher

import (
	"fmt"
	"time"

	"github.com/runger/summon/internal/workset"
)

// Status is the interaction state. Exactly one variant is current.
type Status interface {
	isStatus()
	String() string
}

// Selection is the filter and cursor shared by the filtering states.
// SelectedIdx indexes MatchIndices and is -1 when nothing matches.
type Selection struct {
	SelectedIdx  int
	FilterText   string
	MatchIndices []int
}

// Initial is the neutral state right after show or reset.
type Initial struct{}

// FilteringNone lists the working set without a filter or cursor.
type FilteringNone struct{}

// FilteringEntering is typing a filter. It reverts to FilteringNone once
// LastEdit is older than the decay grace period.
type FilteringEntering struct {
	Selection
	LastEdit time.Time
}

// FilteringMoving is navigating a filtered (or full) list.
type FilteringMoving struct {
	Selection
}

// EnteringText collects free text for the listed item at Index.
type EnteringText struct {
	Index int
}

// Running waits for the action started under RunID.
type Running struct {
	RunID   string
	Results <-chan workset.Result
}

// Error shows a failed action until the next key.
type Error struct {
	Err error
}

func (Initial) isStatus()           {}
func (FilteringNone) isStatus()     {}
func (FilteringEntering) isStatus() {}
func (FilteringMoving) isStatus()   {}
func (EnteringText) isStatus()      {}
func (Running) isStatus()           {}
func (Error) isStatus()             {}

func (Initial) String() string       { return "Initial" }
func (FilteringNone) String() string { return "FilteringNone" }

func (s FilteringEntering) String() string {
	return fmt.Sprintf("FilteringEntering(%q, %d/%d)", s.FilterText, s.SelectedIdx, len(s.MatchIndices))
}

func (s FilteringMoving) String() string {
	return fmt.Sprintf("FilteringMoving(%q, %d/%d)", s.FilterText, s.SelectedIdx, len(s.MatchIndices))
}

func (s EnteringText) String() string { return fmt.Sprintf("EnteringText(%d)", s.Index) }
func (s Running) String() string      { return "Running(" + s.RunID + ")" }
func (s Error) String() string        { return fmt.Sprintf("Error(%v)", s.Err) }

// selection returns the shared filter record of the filtering states.
func selection(s Status) (Selection, bool) {
	switch s := s.(type) {
	case FilteringEntering:
		return s.Selection, true
	case FilteringMoving:
		return s.Selection, true
	}
	return Selection{}, false
}

// clampIdx keeps i within [0, n-1], or returns -1 when n is zero.
func clampIdx(i, n int) int {
	if n <= 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

package storage

import (
	"context"
	"time"

	"github.com/runger/summon/internal/clipboard"
)

// Run outcomes recorded by RecordRun.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
)

// Run is a finished action run.
type Run struct {
	RunID      string
	Title      string
	Outcome    string
	ItemCount  int
	Error      string
	FinishedAt time.Time
}

// Store is the persistence interface used by the daemon and CLI.
type Store interface {
	// AppendClip records a clipboard capture.
	AppendClip(ctx context.Context, e clipboard.Entry) error

	// RecentClips returns up to limit captures, newest first.
	RecentClips(ctx context.Context, limit int) ([]clipboard.Entry, error)

	// PruneClips keeps the newest keep captures and returns how many were
	// deleted.
	PruneClips(ctx context.Context, keep int) (int64, error)

	// ClearClips deletes every capture.
	ClearClips(ctx context.Context) error

	// RecordRun records a finished action run.
	RecordRun(ctx context.Context, r Run) error

	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}

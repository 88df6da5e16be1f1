package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/runger/summon/internal/clipboard"
)

// AppendClip records a clipboard capture.
func (s *SQLiteStore) AppendClip(ctx context.Context, e clipboard.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clipboard_history (text, captured_at_unix_ms) VALUES (?, ?)`,
		e.Text, e.CapturedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to append clip: %w", err)
	}
	return nil
}

// RecentClips returns up to limit captures, newest first.
func (s *SQLiteStore) RecentClips(ctx context.Context, limit int) ([]clipboard.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, captured_at_unix_ms FROM clipboard_history
		ORDER BY captured_at_unix_ms DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query clips: %w", err)
	}
	defer rows.Close()

	var entries []clipboard.Entry
	for rows.Next() {
		var (
			text string
			ms   int64
		)
		if err := rows.Scan(&text, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan clip: %w", err)
		}
		entries = append(entries, clipboard.Entry{Text: text, CapturedAt: time.UnixMilli(ms)})
	}
	return entries, rows.Err()
}

// PruneClips keeps the newest keep captures.
func (s *SQLiteStore) PruneClips(ctx context.Context, keep int) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if keep <= 0 {
		res, err = s.db.ExecContext(ctx, `DELETE FROM clipboard_history`)
	} else {
		res, err = s.db.ExecContext(ctx, `
			DELETE FROM clipboard_history WHERE id NOT IN (
				SELECT id FROM clipboard_history
				ORDER BY captured_at_unix_ms DESC, id DESC
				LIMIT ?
			)
		`, keep)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to prune clips: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ClearClips deletes every capture.
func (s *SQLiteStore) ClearClips(ctx context.Context) error {
	_, err := s.PruneClips(ctx, 0)
	return err
}

// RecordRun records a finished action run.
func (s *SQLiteStore) RecordRun(ctx context.Context, r Run) error {
	var errText sql.NullString
	if r.Error != "" {
		errText = sql.NullString{String: r.Error, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO action_runs (run_id, title, outcome, item_count, error, finished_at_unix_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.RunID, r.Title, r.Outcome, r.ItemCount, errText, r.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, title, outcome, item_count, error, finished_at_unix_ms
		FROM action_runs
		ORDER BY finished_at_unix_ms DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			errText sql.NullString
			ms      int64
		)
		if err := rows.Scan(&r.RunID, &r.Title, &r.Outcome, &r.ItemCount, &errText, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Error = errText.String
		r.FinishedAt = time.UnixMilli(ms)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Package storage persists launcher state in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// walCheckpointInterval bounds WAL growth in the resident process.
const walCheckpointInterval = 5 * time.Minute

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db        *sql.DB
	logger    *slog.Logger
	stopCh    chan struct{}
	stoppedCh chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// brings its schema up to date.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{
		db:        db,
		logger:    logger,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	go store.walCheckpointLoop()
	return store, nil
}

// Close stops background work and closes the database. It is safe to call
// more than once.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		<-s.stoppedCh
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

func (s *SQLiteStore) walCheckpointLoop() {
	defer close(s.stoppedCh)

	ticker := time.NewTicker(walCheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
				s.logger.Warn("WAL checkpoint failed", "error", err)
			}
		}
	}
}

var migrations = []struct {
	version int
	sql     string
}{
	{version: 1, sql: `
		CREATE TABLE IF NOT EXISTS schema_meta (
			version            INTEGER PRIMARY KEY,
			applied_at_unix_ms INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS clipboard_history (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			text                TEXT NOT NULL,
			captured_at_unix_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_clipboard_history_captured
			ON clipboard_history (captured_at_unix_ms);
	`},
	{version: 2, sql: `
		CREATE TABLE IF NOT EXISTS action_runs (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              TEXT NOT NULL,
			title               TEXT NOT NULL,
			outcome             TEXT NOT NULL,
			item_count          INTEGER NOT NULL DEFAULT 0,
			error               TEXT,
			finished_at_unix_ms INTEGER NOT NULL
		);
	`},
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	current := 0
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1`).Scan(&current)
	switch {
	case err == nil, errors.Is(err, sql.ErrNoRows), isTableNotFoundError(err):
	default:
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms) VALUES (?, ?)`,
			m.version, time.Now().UnixMilli()); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
		s.logger.Debug("migration applied", "version", m.version)
	}
	return nil
}

func isTableNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

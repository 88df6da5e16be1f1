// Package logging builds the process logger: charmbracelet/log output behind
// the standard *slog.Logger API used throughout summon.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	charmLog "github.com/charmbracelet/log"
)

const appName = "summon"

// Options configures a logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or logfmt
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level := charmLog.InfoLevel
	if opts.Level != "" {
		parsed, err := charmLog.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse logging level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	formatter := charmLog.TextFormatter
	switch opts.Format {
	case "", "text":
	case "logfmt":
		formatter = charmLog.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown logging format %q", opts.Format)
	}

	handler := charmLog.NewWithOptions(w, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	})
	return slog.New(handler), nil
}

// Open returns a logger appending to the file at path. The terminal belongs
// to the launcher UI, so the resident process never logs to stderr. Close
// the returned closer on exit.
func Open(path string, opts Options) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := New(f, opts)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

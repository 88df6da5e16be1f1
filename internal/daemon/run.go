// Package daemon runs the resident launcher: the bubbletea program, the
// trigger server that shows and hides it, the clipboard watcher and the
// config watcher, all under a single-instance lock.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/runger/summon/internal/actions"
	"github.com/runger/summon/internal/clipboard"
	"github.com/runger/summon/internal/config"
	"github.com/runger/summon/internal/filter"
	"github.com/runger/summon/internal/ipc"
	"github.com/runger/summon/internal/launcher"
	"github.com/runger/summon/internal/logging"
	"github.com/runger/summon/internal/sanitize"
	"github.com/runger/summon/internal/storage"
	"github.com/runger/summon/internal/workset"
)

// storeTimeout bounds a single persistence write made off the UI loop.
const storeTimeout = 2 * time.Second

// Options configures Run.
type Options struct {
	// Config is the loaded configuration (default: config.Load).
	Config *config.Config

	// ConfigPath is watched for changes when set.
	ConfigPath string

	// Paths locates the socket, lock, database and log (default:
	// config.DefaultPaths).
	Paths *config.Paths

	// Clipboard is the clipboard backend (default: clipboard.System).
	Clipboard clipboard.Backend

	// Input and Output are the terminal (default: stdin and stdout).
	Input  io.Reader
	Output io.Writer

	// StartVisible shows the launcher immediately.
	StartVisible bool

	// Logger overrides the file logger built from Config.Log.
	Logger *slog.Logger
}

// SocketPath returns the trigger socket from cfg, falling back to paths.
func SocketPath(cfg *config.Config, paths *config.Paths) string {
	if cfg != nil && cfg.Launcher.SocketPath != "" {
		return cfg.Launcher.SocketPath
	}
	if paths == nil {
		paths = config.DefaultPaths()
	}
	return paths.SocketFile()
}

// Run starts the launcher and blocks until it quits. SIGTERM, SIGINT and
// SIGHUP shut it down; so does a quit trigger.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	paths := opts.Paths
	if paths == nil {
		paths = config.DefaultPaths()
	}

	logger := opts.Logger
	if logger == nil {
		logPath := cfg.Log.File
		if logPath == "" {
			logPath = paths.LogFile()
		}
		fileLogger, closer, err := logging.Open(logPath, logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer closer.Close()
		logger = fileLogger
	}

	lock := NewLockFile(paths.LockFile())
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	var store storage.Store
	if cfg.Clipboard.Persist {
		s, err := storage.NewSQLiteStore(paths.DatabaseFile(), logger)
		if err != nil {
			logger.Warn("persistence disabled", "error", err)
		} else {
			defer s.Close()
			store = s
		}
	}

	backend := opts.Clipboard
	if backend == nil {
		backend = clipboard.System{}
	}
	clipboardAvailable(backend, logger)
	history := clipboard.NewHistory(cfg.Clipboard.MaxEntries)
	if store != nil {
		if err := seedHistory(ctx, store, history); err != nil {
			logger.Warn("failed to restore clipboard history", "error", err)
		}
	}

	index, err := filter.New(cfg.Filter.Algorithm)
	if err != nil {
		return err
	}
	deps := actions.Deps{History: history, Clipboard: backend, Logger: logger}
	acts, err := actions.FromConfig(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to build actions: %w", err)
	}

	ws := workset.New(workset.Options{
		Actions:   acts,
		Filter:    index,
		Clipboard: backend,
		Logger:    logger,
		Context:   ctx,
	})
	screen := launcher.NewScreen(launcher.ScreenOptions{
		OnShow: cfg.Window.OnShow,
		OnHide: cfg.Window.OnHide,
		Logger: logger,
	})
	model := launcher.New(launcher.Options{
		Workset:       ws,
		UI:            screen,
		Decay:         time.Duration(cfg.Launcher.DecayMs) * time.Millisecond,
		PageSize:      cfg.Launcher.PageSize,
		Logger:        logger,
		StartVisible:  opts.StartVisible,
		OnRunFinished: runRecorder(store, logger),
	})

	input, output := opts.Input, opts.Output
	if input == nil {
		input = os.Stdin
	}
	if output == nil {
		output = os.Stdout
	}
	lipgloss.SetColorProfile(termenv.NewOutput(output).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
	)

	server, err := ipc.NewServer(ipc.ServerConfig{
		SocketPath: SocketPath(cfg, paths),
		Handler:    triggerHandler(p.Send, p.Quit),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	watcher := clipboard.NewWatcher(clipboard.WatcherConfig{
		Backend:  backend,
		History:  history,
		Interval: time.Duration(cfg.Clipboard.PollIntervalMs) * time.Millisecond,
		Logger:   logger,
		OnPush:   clipPersister(ctx, store, history.Max(), secretDetector(cfg), logger),
	})
	go watcher.Run(ctx)

	if opts.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, logger, func(next *config.Config) {
				reloaded, err := actions.FromConfig(next, deps)
				if err != nil {
					logger.Warn("keeping previous actions", "error", err)
					return
				}
				p.Send(launcher.ReloadMsg{Actions: reloaded})
			})
			if err != nil {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	logger.Info("launcher started", "pid", os.Getpid(), "actions", len(acts))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	logger.Info("launcher stopped")
	return err
}

// triggerHandler maps triggers onto program messages.
func triggerHandler(send func(tea.Msg), quit func()) ipc.HandlerFunc {
	return func(_ context.Context, t ipc.Trigger) error {
		switch t {
		case ipc.TriggerShow:
			send(launcher.ShowMsg{})
		case ipc.TriggerShowClipboard:
			send(launcher.ShowMsg{WithClipboard: true})
		case ipc.TriggerHide:
			send(launcher.HideMsg{})
		case ipc.TriggerQuit:
			quit()
		case ipc.TriggerPing:
		default:
			return fmt.Errorf("unhandled trigger %q", t)
		}
		return nil
	}
}

// clipboardAvailable reports whether backend can reach a clipboard, warning
// when the system clipboard has no helper utility installed.
func clipboardAvailable(backend clipboard.Backend, logger *slog.Logger) bool {
	probe, ok := backend.(interface{ Available() bool })
	if !ok || probe.Available() {
		return true
	}
	logger.Warn("no clipboard utility found (install xclip, xsel or wl-clipboard); clipboard history stays empty")
	return false
}

// seedHistory restores persisted clips into h.
func seedHistory(ctx context.Context, store storage.Store, h *clipboard.History) error {
	clips, err := store.RecentClips(ctx, h.Max())
	if err != nil {
		return err
	}
	// RecentClips is newest first; Seed wants oldest first.
	for i, j := 0, len(clips)-1; i < j; i, j = i+1, j-1 {
		clips[i], clips[j] = clips[j], clips[i]
	}
	h.Seed(clips)
	return nil
}

// secretDetector returns the credential check applied before persisting,
// or nil when credentials may be written.
func secretDetector(cfg *config.Config) func(string) (string, bool) {
	if cfg.Clipboard.PersistSecrets {
		return nil
	}
	return sanitize.New().Detect
}

// clipPersister writes captured clips to store and trims it to keep. Clips
// that detect flags stay in memory only.
func clipPersister(ctx context.Context, store storage.Store, keep int, detect func(string) (string, bool), logger *slog.Logger) func(clipboard.Entry) {
	if store == nil {
		return nil
	}
	return func(e clipboard.Entry) {
		if detect != nil {
			if kind, ok := detect(e.Text); ok {
				logger.Debug("clip not persisted", "reason", kind)
				return
			}
		}
		ctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		if err := store.AppendClip(ctx, e); err != nil {
			logger.Warn("failed to persist clip", "error", err)
			return
		}
		if _, err := store.PruneClips(ctx, keep); err != nil {
			logger.Warn("failed to prune clips", "error", err)
		}
	}
}

// runRecorder records finished runs without blocking the UI loop.
func runRecorder(store storage.Store, logger *slog.Logger) func(launcher.RunReport) {
	if store == nil {
		return nil
	}
	return func(r launcher.RunReport) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			if err := store.RecordRun(ctx, runFromReport(r)); err != nil {
				logger.Warn("failed to record run", "run", r.RunID, "error", err)
			}
		}()
	}
}

func runFromReport(r launcher.RunReport) storage.Run {
	run := storage.Run{
		RunID:      r.RunID,
		Title:      r.Title,
		Outcome:    storage.OutcomeSucceeded,
		ItemCount:  len(r.Result.Items),
		FinishedAt: r.FinishedAt,
	}
	switch {
	case r.Abandoned:
		run.Outcome = storage.OutcomeAbandoned
	case r.Result.Err != nil:
		run.Outcome = storage.OutcomeFailed
	}
	if r.Result.Err != nil {
		run.Error = r.Result.Err.Error()
	}
	return run
}

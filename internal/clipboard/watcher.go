package clipboard

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPollInterval is how often the clipboard is sampled. The desktop
// clipboard on X11 and Wayland offers no portable change notification, so
// changes are detected by polling.
const DefaultPollInterval = 500 * time.Millisecond

// Watcher feeds clipboard changes into a History.
type Watcher struct {
	backend  Backend
	history  *History
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// OnPush, if set, is called after a new entry was added.
	OnPush func(Entry)

	last string
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Backend  Backend
	History  *History
	Interval time.Duration
	Logger   *slog.Logger
	OnPush   func(Entry)
}

// NewWatcher creates a watcher. Zero values fall back to defaults.
func NewWatcher(cfg WatcherConfig) *Watcher {
	if cfg.Backend == nil {
		cfg.Backend = System{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Watcher{
		backend:  cfg.Backend,
		history:  cfg.History,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		now:      time.Now,
		OnPush:   cfg.OnPush,
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll samples the clipboard once. Read failures and empty content (which is
// what non-text selections look like) are skipped.
func (w *Watcher) Poll() {
	text, err := w.backend.ReadText()
	if err != nil {
		w.logger.Debug("clipboard read skipped", "error", err)
		return
	}
	if text == "" || text == w.last {
		return
	}
	w.last = text

	at := w.now()
	if !w.history.Push(text, at) {
		w.logger.Debug("duplicate clipboard text, not pushed")
		return
	}
	w.logger.Debug("clipboard captured", "bytes", len(text))
	if w.OnPush != nil {
		w.OnPush(Entry{Text: text, CapturedAt: at})
	}
}

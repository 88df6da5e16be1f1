package actions

import (
	"fmt"
	"log/slog"

	"github.com/runger/summon/internal/clipboard"
	"github.com/runger/summon/internal/config"
	"github.com/runger/summon/internal/item"
)

// Deps are the shared services actions are built on.
type Deps struct {
	History   *clipboard.History
	Clipboard clipboard.Backend
	Opener    Opener
	Logger    *slog.Logger
}

// FromConfig builds the action registry in display order: clipboard
// history, files, user commands, web search, then the reference-only
// actions.
func FromConfig(cfg *config.Config, deps Deps) ([]item.Action, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opener := deps.Opener
	if opener == nil {
		opener = CommandOpener{Command: cfg.Launcher.Opener}
	}

	var out []item.Action

	if deps.History != nil {
		out = append(out, clipboard.NewHistoryAction(deps.History))
	}

	if cfg.Files.Enabled {
		root := cfg.Files.Root
		if root == "" {
			root = config.HomeDir()
		}
		fb, err := NewFileBrowser(FileBrowserConfig{
			Dir:        root,
			ShowHidden: cfg.Files.ShowHidden,
			Ignore:     cfg.Files.Ignore,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, fb)
	}

	for _, def := range cfg.Commands {
		c, err := NewCommand(def)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	if cfg.Search.Enabled {
		ws, err := NewWebSearch(cfg.Search.Name, cfg.Search.URL, opener)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}

	out = append(out, NewOpenWith(opener))
	if deps.Clipboard != nil {
		out = append(out, NewCopy(deps.Clipboard))
	}

	logger.Debug("actions registered", "count", len(out))
	if len(out) == 0 {
		return nil, fmt.Errorf("no actions configured")
	}
	return out, nil
}

// Root returns the descriptions of the actions that run without input,
// in registry order.
func Root(acts []item.Action) []item.Item {
	var out []item.Item
	for _, a := range acts {
		if a.AcceptsEmptyInput() {
			out = append(out, a.Describe())
		}
	}
	return out
}

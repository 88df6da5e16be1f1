package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"

	"github.com/runger/summon/internal/item"
)

// FileBrowser lists a directory. Subdirectories carry their own
// FileBrowser, so selecting one descends into it.
type FileBrowser struct {
	item.Base
	dir        string
	root       bool
	showHidden bool
	ignore     []glob.Glob
	now        func() time.Time
}

var _ item.Action = (*FileBrowser)(nil)

// FileBrowserConfig configures NewFileBrowser.
type FileBrowserConfig struct {
	Dir        string
	ShowHidden bool
	Ignore     []string
}

// NewFileBrowser returns the root browser for cfg.Dir.
func NewFileBrowser(cfg FileBrowserConfig) (*FileBrowser, error) {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("file browser: %w", err)
	}
	ignore := make([]glob.Glob, 0, len(cfg.Ignore))
	for _, p := range cfg.Ignore {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("file browser: ignore pattern %q: %w", p, err)
		}
		ignore = append(ignore, g)
	}
	return &FileBrowser{
		dir:        dir,
		root:       true,
		showHidden: cfg.ShowHidden,
		ignore:     ignore,
		now:        time.Now,
	}, nil
}

func (b *FileBrowser) child(dir string) *FileBrowser {
	c := *b
	c.dir = dir
	c.root = false
	return &c
}

func (b *FileBrowser) Describe() item.Item {
	if b.root {
		return item.Item{
			Title:    "Browse Files",
			Subtitle: b.dir,
			Icon:     item.NamedIcon("system-file-manager"),
			Action:   b,
		}
	}
	return item.Item{
		Title:    filepath.Base(b.dir) + string(filepath.Separator),
		Subtitle: b.dir,
		Icon:     item.NamedIcon("folder"),
		Data:     dataPtr(item.PathData(b.dir)),
		Action:   b,
	}
}

func (b *FileBrowser) AcceptsEmptyInput() bool { return true }

// AcceptsReference accepts directory paths.
func (b *FileBrowser) AcceptsReference(ref item.ItemData) bool {
	if ref.Kind != item.DataPath {
		return false
	}
	info, err := os.Stat(ref.Path)
	return err == nil && info.IsDir()
}

func (b *FileBrowser) ReturnsItems() bool { return true }

func (b *FileBrowser) Run(ctx context.Context) ([]item.Item, error) {
	return b.list(ctx, b.dir)
}

func (b *FileBrowser) RunWithReference(ctx context.Context, ref item.ItemData) ([]item.Item, error) {
	if !b.AcceptsReference(ref) {
		return b.Base.RunWithReference(ctx, ref)
	}
	return b.list(ctx, ref.Path)
}

func (b *FileBrowser) ignored(name string) bool {
	if !b.showHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, g := range b.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (b *FileBrowser) list(ctx context.Context, dir string) ([]item.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, item.Failed(fmt.Errorf("read %s: %w", dir, err))
	}

	var dirs, files []item.Item
	now := b.now()
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, item.Failed(err)
		}
		name := e.Name()
		if b.ignored(name) {
			continue
		}
		full := filepath.Join(dir, name)
		info, err := e.Info()
		if err != nil {
			continue
		}
		// Follow symlinks for the directory check.
		if e.Type()&os.ModeSymlink != 0 {
			if target, err := os.Stat(full); err == nil {
				info = target
			}
		}

		if info.IsDir() {
			it := b.child(full).Describe()
			it.Subtitle = "modified " + humanize.RelTime(info.ModTime(), now, "ago", "from now")
			dirs = append(dirs, it)
			continue
		}

		it := item.NewPathItem(full)
		it.Subtitle = fmt.Sprintf("%s, modified %s", humanize.Bytes(uint64(info.Size())), //nolint:gosec // G115: file sizes are non-negative
			humanize.RelTime(info.ModTime(), now, "ago", "from now"))
		it.Icon = item.NamedIcon("text-x-generic")
		files = append(files, it)
	}

	if len(dirs)+len(files) == 0 {
		return nil, item.NewError(item.ErrNoData, "Directory is empty: "+dir)
	}

	byTitle := func(items []item.Item) {
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
	}
	byTitle(dirs)
	byTitle(files)
	return append(dirs, files...), nil
}

func dataPtr(d item.ItemData) *item.ItemData {
	return &d
}

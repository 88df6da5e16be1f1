// Package workset holds the launcher's working set: the items currently
// listed, the reference bound to the session, and the operations that run
// actions against them.
package workset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/runger/summon/internal/actions"
	"github.com/runger/summon/internal/clipboard"
	"github.com/runger/summon/internal/filter"
	"github.com/runger/summon/internal/item"
)

// Result is what an asynchronous selection yields.
type Result struct {
	Items []item.Item
	Err   error
}

// Options configures New.
type Options struct {
	Actions   []item.Action
	Filter    filter.Index      // defaults to filter.Rank
	Clipboard clipboard.Backend // may be nil
	Logger    *slog.Logger

	// Context is passed to every action run. Runs are not cancelled by
	// the launcher, so this is normally the process context.
	Context context.Context
}

// Context is the working set. It is owned by the launcher's event loop;
// only AsyncSelect and AsyncSelectWithText do work on another goroutine,
// and those operate on copies.
type Context struct {
	ListItems []item.Item
	Reference *item.ItemData

	actions   []item.Action
	index     filter.Index
	clipboard clipboard.Backend
	logger    *slog.Logger
	runCtx    context.Context
}

// New returns a working set reset to the root list.
func New(opts Options) *Context {
	c := &Context{
		actions:   opts.Actions,
		index:     opts.Filter,
		clipboard: opts.Clipboard,
		logger:    opts.Logger,
		runCtx:    opts.Context,
	}
	if c.index == nil {
		c.index = filter.Rank{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.runCtx == nil {
		c.runCtx = context.Background()
	}
	c.Reset()
	return c
}

// SetActions replaces the registry. The root list changes on the next Reset.
func (c *Context) SetActions(acts []item.Action) {
	c.actions = acts
}

// Actions returns the registry.
func (c *Context) Actions() []item.Action {
	return c.actions
}

// Reset lists the root actions and clears the reference.
func (c *Context) Reset() {
	c.ListItems = actions.Root(c.actions)
	c.Reference = nil
}

// Len returns the number of listed items.
func (c *Context) Len() int {
	return len(c.ListItems)
}

// Item returns the listed item at i.
func (c *Context) Item(i int) (item.Item, bool) {
	if i < 0 || i >= len(c.ListItems) {
		return item.Item{}, false
	}
	return c.ListItems[i], true
}

// All returns every index of the list in order.
func (c *Context) All() []int {
	out := make([]int, len(c.ListItems))
	for i := range out {
		out[i] = i
	}
	return out
}

// Filter returns the indices of the listed items matching query, best first.
func (c *Context) Filter(query string) []int {
	titles := make([]string, len(c.ListItems))
	for i, it := range c.ListItems {
		titles[i] = it.Title
	}
	return c.index.Filter(query, titles)
}

// Selectable reports whether it can run without further input.
func (c *Context) Selectable(it item.Item) bool {
	if it.Action == nil {
		return false
	}
	if c.Reference != nil {
		return it.Action.AcceptsReference(*c.Reference)
	}
	return it.Action.AcceptsEmptyInput()
}

// SelectableWithText reports whether it can run on free text.
func (c *Context) SelectableWithText(it item.Item) bool {
	return it.Action != nil && c.Reference == nil && it.Action.AcceptsText()
}

// QuicksendAble reports whether it carries data to bind as reference.
func (c *Context) QuicksendAble(it item.Item) bool {
	return it.Data != nil
}

// Quicksend binds the item's data as the reference and lists the actions
// that accept it.
func (c *Context) Quicksend(it item.Item) error {
	if it.Data == nil {
		return item.NewError(item.ErrNotSelectable, fmt.Sprintf("%q carries no data", it.Title))
	}
	ref := *it.Data

	var listed []item.Item
	for _, a := range c.actions {
		if a.AcceptsReference(ref) {
			listed = append(listed, a.Describe())
		}
	}
	if len(listed) == 0 {
		return item.NewError(item.ErrNoData, "No action accepts this data")
	}

	c.Reference = &ref
	c.ListItems = listed
	c.logger.Debug("reference bound", "kind", kindName(ref), "actions", len(listed))
	return nil
}

// QuicksendFromClipboard binds the clipboard text as the reference.
func (c *Context) QuicksendFromClipboard() error {
	if c.clipboard == nil {
		return item.NewError(item.ErrNoData, "No clipboard available")
	}
	text, err := c.clipboard.ReadText()
	if err != nil {
		return item.Failed(err)
	}
	if strings.TrimSpace(text) == "" {
		return item.NewError(item.ErrNoData, "Clipboard is empty")
	}
	return c.Quicksend(item.NewTextItem(text))
}

// CopyContentToClipboard writes the item's data, or its title when it
// carries none.
func (c *Context) CopyContentToClipboard(it item.Item) error {
	if c.clipboard == nil {
		return item.NewError(item.ErrNoData, "No clipboard available")
	}
	text := it.Title
	if it.Data != nil {
		text = it.Data.String()
	}
	if err := c.clipboard.WriteText(text); err != nil {
		return item.Failed(err)
	}
	return nil
}

// AsyncSelect runs the item's action on a new goroutine, with the bound
// reference when there is one. onComplete is called exactly once, from
// that goroutine.
func (c *Context) AsyncSelect(it item.Item, onComplete func(Result)) {
	it = it.Clone()
	var ref *item.ItemData
	if c.Reference != nil {
		r := *c.Reference
		ref = &r
	}
	ctx := c.runCtx
	go func() {
		onComplete(run(it, func(a item.Action) ([]item.Item, error) {
			if ref != nil {
				return a.RunWithReference(ctx, *ref)
			}
			return a.Run(ctx)
		}))
	}()
}

// AsyncSelectWithText runs the item's action on text. onComplete is called
// exactly once, from a new goroutine.
func (c *Context) AsyncSelectWithText(it item.Item, text string, onComplete func(Result)) {
	it = it.Clone()
	ctx := c.runCtx
	go func() {
		onComplete(run(it, func(a item.Action) ([]item.Item, error) {
			return a.RunWithText(ctx, text)
		}))
	}()
}

// AsyncSelectCallback replaces the list with the items of a finished run
// and clears the reference.
func (c *Context) AsyncSelectCallback(items []item.Item) {
	c.ListItems = item.CloneAll(items)
	c.Reference = nil
}

func run(it item.Item, fn func(item.Action) ([]item.Item, error)) (res Result) {
	if it.Action == nil {
		return Result{Err: item.NewError(item.ErrNotSelectable, fmt.Sprintf("%q has no action", it.Title))}
	}
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: &item.Error{
				Kind: item.ErrActionFailed,
				Msg:  fmt.Sprintf("%s: panic: %v", it.Title, r),
			}}
		}
	}()
	items, err := fn(it.Action)
	if err != nil {
		return Result{Err: item.Failed(err)}
	}
	return Result{Items: items}
}

func kindName(d item.ItemData) string {
	if d.Kind == item.DataPath {
		return "path"
	}
	return "text"
}

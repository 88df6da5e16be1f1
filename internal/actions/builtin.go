package actions

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/runger/summon/internal/clipboard"
	"github.com/runger/summon/internal/item"
)

// WebSearch opens a search URL for the given text.
type WebSearch struct {
	item.Base
	name   string
	url    string // contains %s
	opener Opener
}

var _ item.Action = (*WebSearch)(nil)

// NewWebSearch returns a search action. urlTemplate must contain %s.
func NewWebSearch(name, urlTemplate string, opener Opener) (*WebSearch, error) {
	if !strings.Contains(urlTemplate, "%s") {
		return nil, fmt.Errorf("web search %q: url must contain %%s", name)
	}
	if name == "" {
		name = "Search the Web"
	}
	return &WebSearch{name: name, url: urlTemplate, opener: opener}, nil
}

func (w *WebSearch) Describe() item.Item {
	return item.Item{
		Title:    w.name,
		Subtitle: w.url,
		Icon:     item.NamedIcon("web-browser"),
		Action:   w,
	}
}

func (w *WebSearch) AcceptsText() bool { return true }

func (w *WebSearch) AcceptsReference(ref item.ItemData) bool { return ref.Kind == item.DataText }

// URL substitutes the escaped query for the first %s; other % sequences
// in the template are kept as written.
func (w *WebSearch) URL(query string) string {
	return strings.Replace(w.url, "%s", url.QueryEscape(strings.TrimSpace(query)), 1)
}

func (w *WebSearch) RunWithText(ctx context.Context, text string) ([]item.Item, error) {
	if strings.TrimSpace(text) == "" {
		return nil, item.NewError(item.ErrNoData, "Nothing to search for")
	}
	if err := w.opener.Open(ctx, w.URL(text)); err != nil {
		return nil, item.Failed(err)
	}
	return nil, nil
}

func (w *WebSearch) RunWithReference(ctx context.Context, ref item.ItemData) ([]item.Item, error) {
	if !w.AcceptsReference(ref) {
		return w.Base.RunWithReference(ctx, ref)
	}
	return w.RunWithText(ctx, ref.Text)
}

// OpenWith opens a bound reference with the desktop's default handler.
type OpenWith struct {
	item.Base
	opener Opener
}

var _ item.Action = (*OpenWith)(nil)

// NewOpenWith returns the default-application action.
func NewOpenWith(opener Opener) *OpenWith {
	return &OpenWith{opener: opener}
}

func (o *OpenWith) Describe() item.Item {
	return item.Item{
		Title:    "Default Application",
		Subtitle: "Open with the desktop's default handler",
		Icon:     item.NamedIcon("document-open"),
		Action:   o,
	}
}

func (o *OpenWith) AcceptsReference(ref item.ItemData) bool {
	if ref.Kind == item.DataPath {
		return true
	}
	u, err := url.Parse(strings.TrimSpace(ref.Text))
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (o *OpenWith) RunWithReference(ctx context.Context, ref item.ItemData) ([]item.Item, error) {
	if !o.AcceptsReference(ref) {
		return o.Base.RunWithReference(ctx, ref)
	}
	if err := o.opener.Open(ctx, strings.TrimSpace(ref.String())); err != nil {
		return nil, item.Failed(err)
	}
	return nil, nil
}

// Copy writes a bound reference to the clipboard.
type Copy struct {
	item.Base
	backend clipboard.Backend
}

var _ item.Action = (*Copy)(nil)

// NewCopy returns the copy action.
func NewCopy(backend clipboard.Backend) *Copy {
	return &Copy{backend: backend}
}

func (c *Copy) Describe() item.Item {
	return item.Item{
		Title:    "Copy",
		Subtitle: "Copy to clipboard",
		Icon:     item.NamedIcon("edit-copy"),
		Action:   c,
	}
}

func (c *Copy) AcceptsReference(item.ItemData) bool { return true }

func (c *Copy) RunWithReference(_ context.Context, ref item.ItemData) ([]item.Item, error) {
	if err := c.backend.WriteText(ref.String()); err != nil {
		return nil, item.Failed(err)
	}
	return nil, nil
}

// Package item defines the entries shown by the launcher and the actions
// they can carry.
package item

import (
	"context"
	"path/filepath"
)

// IconKind identifies which Icon variant is active.
type IconKind int

const (
	IconNamed IconKind = iota + 1
	IconFile
	IconChar
)

// Icon is a tagged variant: a platform icon name, an image file, or a glyph
// rendered in a font. Build it with NamedIcon, FileIcon or CharIcon.
type Icon struct {
	Kind  IconKind
	Name  string
	Path  string
	Glyph rune
	Font  string
}

// NamedIcon returns a platform icon reference.
func NamedIcon(name string) *Icon {
	return &Icon{Kind: IconNamed, Name: name}
}

// FileIcon returns an icon loaded from an image file.
func FileIcon(path string) *Icon {
	return &Icon{Kind: IconFile, Path: path}
}

// CharIcon returns a glyph icon.
func CharIcon(glyph rune, font string) *Icon {
	return &Icon{Kind: IconChar, Glyph: glyph, Font: font}
}

// DataKind identifies which ItemData variant is active.
type DataKind int

const (
	DataText DataKind = iota + 1
	DataPath
)

// ItemData is a reference payload an action can operate on.
type ItemData struct {
	Kind DataKind
	Text string
	Path string
}

// TextData wraps a text payload.
func TextData(text string) ItemData {
	return ItemData{Kind: DataText, Text: text}
}

// PathData wraps a filesystem path payload.
func PathData(path string) ItemData {
	return ItemData{Kind: DataPath, Path: filepath.Clean(path)}
}

// String returns the payload as text.
func (d ItemData) String() string {
	if d.Kind == DataPath {
		return d.Path
	}
	return d.Text
}

// Len returns the payload size in bytes.
func (d ItemData) Len() int {
	return len(d.String())
}

// Item is one selectable entry.
//
// An empty Subtitle or Badge means the field is absent. Items are values:
// Clone copies the optional pointers so snapshots never share them.
type Item struct {
	Title    string
	Subtitle string
	Badge    string
	Icon     *Icon
	Data     *ItemData
	Action   Action
}

// NewTextItem returns an item whose title and data are text.
func NewTextItem(text string) Item {
	d := TextData(text)
	return Item{Title: text, Data: &d}
}

// NewPathItem returns an item titled by the base name of path and carrying
// the path as data.
func NewPathItem(path string) Item {
	d := PathData(path)
	return Item{Title: filepath.Base(d.Path), Subtitle: d.Path, Data: &d}
}

// Clone returns a deep copy of the item. The action is shared; actions are
// safe for concurrent use.
func (it Item) Clone() Item {
	out := it
	if it.Icon != nil {
		ic := *it.Icon
		out.Icon = &ic
	}
	if it.Data != nil {
		d := *it.Data
		out.Data = &d
	}
	return out
}

// CloneAll copies a slice of items.
func CloneAll(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Action is a capability an item may carry. Implementations must be safe to
// call from a goroutine other than the one driving the UI, and Describe must
// have no side effects.
type Action interface {
	// Describe returns the item that represents the action itself in a list.
	Describe() Item

	AcceptsEmptyInput() bool
	AcceptsText() bool
	AcceptsReference(ref ItemData) bool

	// ReturnsItems reports whether running the action produces a new list
	// (chaining) rather than only a side effect.
	ReturnsItems() bool

	Run(ctx context.Context) ([]Item, error)
	RunWithText(ctx context.Context, text string) ([]Item, error)
	RunWithReference(ctx context.Context, ref ItemData) ([]Item, error)
}

// Base implements Action by rejecting every kind of input. Embed it and
// override the methods an action supports.
type Base struct{}

func (Base) Describe() Item { return Item{} }
func (Base) AcceptsEmptyInput() bool { return false }
func (Base) AcceptsText() bool { return false }
func (Base) AcceptsReference(ItemData) bool { return false }
func (Base) ReturnsItems() bool { return false }
func (Base) Run(context.Context) ([]Item, error) { return nil, errUnsupported("empty input") }

func (Base) RunWithText(context.Context, string) ([]Item, error) {
	return nil, errUnsupported("text input")
}

func (Base) RunWithReference(context.Context, ItemData) ([]Item, error) {
	return nil, errUnsupported("reference input")
}

func errUnsupported(what string) error {
	return &Error{Kind: ErrNotSelectable, Msg: "action does not accept " + what}
}

var _ Action = Base{}

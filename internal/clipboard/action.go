package clipboard

import (
	"context"
	"fmt"

	"github.com/runger/summon/internal/item"
)

// historyTimeLayout renders capture times like "14:03:27 Mar  5".
const historyTimeLayout = "15:04:05 Jan _2"

const iconFont = "FontAwesome"

// HistoryAction lists the clipboard history.
type HistoryAction struct {
	item.Base
	history *History
}

var _ item.Action = (*HistoryAction)(nil)

// NewHistoryAction returns an action backed by h.
func NewHistoryAction(h *History) *HistoryAction {
	return &HistoryAction{history: h}
}

func (a *HistoryAction) Describe() item.Item {
	return item.Item{
		Title:    "Clipboard History",
		Subtitle: fmt.Sprintf("View clipboard history up to %d entries", a.history.Max()),
		Icon:     item.CharIcon('\uf0ea', iconFont),
		Action:   a,
	}
}

func (a *HistoryAction) AcceptsEmptyInput() bool { return true }

func (a *HistoryAction) ReturnsItems() bool { return true }

// Run returns the history front first, one text item per entry.
func (a *HistoryAction) Run(context.Context) ([]item.Item, error) {
	entries, err := a.history.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, item.NewError(item.ErrNoData, "No clipboard history available")
	}

	items := make([]item.Item, 0, len(entries))
	for _, e := range entries {
		it := item.NewTextItem(e.Text)
		it.Subtitle = fmt.Sprintf("%s, %d bytes", e.CapturedAt.Format(historyTimeLayout), len(e.Text))
		it.Icon = item.CharIcon('\uf0f6', iconFont)
		items = append(items, it)
	}
	return items, nil
}

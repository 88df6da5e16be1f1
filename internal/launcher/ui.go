package launcher

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/summon/internal/item"
)

// UI receives the projection of the current status. The item list handed
// to SetItems is already windowed to the page size, with highlight
// relative to that window (-1 for none).
type UI interface {
	Show()
	Hide()
	SetEntry(it *item.Item)
	SetEntryEditable()
	EntryText() string
	SetFilterText(text string)
	SetActionName(name string) // "" clears the label
	SetReference(ref *item.ItemData)
	SetItems(items []item.Item, highlight int)
	SetSpinning(spinning bool)
	SetError(err error) // nil clears the panel
}

// Widget is a UI that is also drawn by the bubbletea program. Pending
// returns the commands queued by projection calls (cursor blink, spinner
// ticks, window hooks).
type Widget interface {
	UI
	Update(msg tea.Msg) tea.Cmd
	View() string
	Pending() tea.Cmd
}

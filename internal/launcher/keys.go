package launcher

import (
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap lists the keys the launcher intercepts. Alphabetic runes are
// handled separately as filter input.
type KeyMap struct {
	Enter  key.Binding
	Space  key.Binding
	Escape key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Copy   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Space:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "enter text")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "send to")),
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑/ctrl+k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓/ctrl+j", "down")),
		Copy:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy")),
	}
}

// intercepted reports whether msg is one of the launcher's keys.
func (k KeyMap) intercepted(msg tea.KeyMsg) bool {
	if _, ok := filterRune(msg); ok {
		return true
	}
	return key.Matches(msg, k.Enter, k.Space, k.Escape, k.Tab, k.Up, k.Down, k.Copy)
}

// filterRune returns the alphabetic rune typed by msg.
func filterRune(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if !unicode.IsLetter(r) {
		return 0, false
	}
	return r, true
}

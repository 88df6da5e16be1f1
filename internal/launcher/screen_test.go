package launcher

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/summon/internal/item"
	"github.com/runger/summon/internal/logging"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		n, hl      int
		start, end int
	}{
		{"empty", 0, -1, 0, 0},
		{"short list", 3, 1, 0, 3},
		{"no highlight", 10, -1, 0, 5},
		{"top", 10, 0, 0, 5},
		{"centred", 10, 5, 3, 8},
		{"near end keeps full page", 10, 8, 5, 10},
		{"last", 10, 9, 5, 10},
		{"exact page", 5, 4, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.n, tt.hl, 5)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestWindow_HighlightAlwaysVisible(t *testing.T) {
	for n := 1; n < 30; n++ {
		for hl := 0; hl < n; hl++ {
			start, end := Window(n, hl, DefaultPageSize)
			require.GreaterOrEqual(t, hl, start)
			require.Less(t, hl, end)
			require.LessOrEqual(t, end-start, DefaultPageSize)
		}
	}
}

func TestMiddleTruncate(t *testing.T) {
	assert.Equal(t, "short", MiddleTruncate("short", 10))
	assert.Equal(t, "abc…xyz", MiddleTruncate("abcdefghijklmnopqrstuvwxyz", 7))
	assert.Equal(t, "ab", MiddleTruncate("abcdef", 2))
	assert.Equal(t, "", MiddleTruncate("abc", 0))

	wide := MiddleTruncate("日本語のテキストです", 9)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 9)
	assert.Contains(t, wide, "…")
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "red text", displayText("\x1b[31mred\x1b[0m text"))
	assert.Equal(t, "a b c", displayText("a\nb\tc"))
	assert.Equal(t, "title", displayText("\x1b]0;title\x07title"))
	assert.Equal(t, "bad \uFFFD byte", displayText("bad \xff byte"))
}

func TestScreen_RowsStripEscapes(t *testing.T) {
	s := newTestScreen()
	s.Show()
	s.SetItems([]item.Item{{Title: "\x1b[1mbold\x1b[0m\nline"}}, -1)
	view := s.View()
	assert.Contains(t, view, "bold line")
	assert.NotContains(t, view, "\x1b[1mbold")
}

func newTestScreen() *Screen {
	s := NewScreen(ScreenOptions{Logger: logging.Discard()})
	s.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return s
}

func TestScreen_HiddenView(t *testing.T) {
	s := newTestScreen()
	assert.Contains(t, s.View(), "summon show")
	assert.False(t, s.Visible())
}

func TestScreen_RendersRows(t *testing.T) {
	s := newTestScreen()
	s.Show()
	chain := &fakeAction{title: "Files", empty: true, items: []item.Item{{Title: "x"}}}
	s.SetItems([]item.Item{
		chain.Describe(),
		{Title: "Notes", Subtitle: "~/notes", Badge: "new"},
	}, 1)

	view := s.View()
	assert.Contains(t, view, "Files "+markerChain)
	assert.Contains(t, view, "> Notes")
	assert.Contains(t, view, "[new]")
	assert.Contains(t, view, "~/notes")
	assert.Contains(t, view, "Type to filter")
}

func TestScreen_ReferencePanel(t *testing.T) {
	s := newTestScreen()
	s.Show()

	text := item.TextData("hello")
	s.SetReference(&text)
	s.SetActionName(actionName(&text))
	view := s.View()
	assert.Contains(t, view, "Text data: 5 bytes")
	assert.Contains(t, view, "Open Text with")

	path := item.PathData("/tmp/x")
	s.SetReference(&path)
	s.SetActionName(actionName(&path))
	view = s.View()
	assert.Contains(t, view, "Path data")
	assert.Contains(t, view, "Open Path with")

	s.SetReference(nil)
	s.SetActionName("")
	assert.NotContains(t, s.View(), "data")
}

func TestScreen_ErrorPanel(t *testing.T) {
	s := newTestScreen()
	s.Show()
	s.SetItems([]item.Item{{Title: "hidden row"}}, 0)
	s.SetError(errors.New("exit status 1"))

	view := s.View()
	assert.Contains(t, view, errorTitle)
	assert.Contains(t, view, "exit status 1")
	assert.NotContains(t, view, "hidden row")

	s.SetError(nil)
	assert.NotContains(t, s.View(), errorTitle)
}

func TestScreen_FilterAndEntry(t *testing.T) {
	s := newTestScreen()
	s.Show()
	it := item.Item{Title: "Browse Files"}
	s.SetEntry(&it)
	s.SetFilterText("bro")
	view := s.View()
	assert.Contains(t, view, "Browse Files")
	assert.Contains(t, view, "/bro")
}

func TestScreen_EditableEntryTakesInput(t *testing.T) {
	s := newTestScreen()
	s.Show()
	s.Pending()

	it := item.Item{Title: "Search the Web"}
	s.SetEntry(&it)
	s.SetEntryEditable()
	assert.NotNil(t, s.Pending())

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("go")})
	assert.Equal(t, "go", s.EntryText())

	// Re-projecting the same entry keeps the typed text.
	s.SetEntry(&it)
	s.SetEntryEditable()
	assert.Equal(t, "go", s.EntryText())

	s.SetEntry(nil)
	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "go", s.EntryText(), "input ignored when not editable")
}

func TestScreen_SpinnerTicksOnlyWhileSpinning(t *testing.T) {
	s := newTestScreen()
	s.Pending()

	s.SetSpinning(true)
	cmd := s.Pending()
	require.NotNil(t, cmd)
	tick, ok := cmd().(spinner.TickMsg)
	require.True(t, ok)

	s.SetSpinning(true)
	assert.Nil(t, s.Pending(), "already spinning")

	assert.NotNil(t, s.Update(tick))
	s.SetSpinning(false)
	assert.Nil(t, s.Update(tick))
}

func TestScreen_HooksQueuedOnVisibilityChange(t *testing.T) {
	s := NewScreen(ScreenOptions{OnShow: "true", OnHide: "true", Logger: logging.Discard()})
	s.Show()
	require.NotNil(t, s.Pending())
	s.Show()
	assert.Nil(t, s.Pending(), "already visible")
	s.Hide()
	cmd := s.Pending()
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
}

func TestScreen_NoHooksConfigured(t *testing.T) {
	s := newTestScreen()
	s.Show()
	s.Hide()
	assert.Nil(t, s.Pending())
}

func TestScreen_DrivenByModel(t *testing.T) {
	s := newTestScreen()
	ws := newHarness(t, rootActions()...).m.Workset()
	m := New(Options{Workset: ws, UI: s, Logger: logging.Discard()})
	m.Init()

	next, _ := m.Update(ShowMsg{})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)

	view := m.View()
	assert.True(t, strings.Contains(view, "> alpha"), view)
	assert.Contains(t, view, "epsilon")
}

package launcher

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"
	"github.com/mattn/go-runewidth"
	"golang.org/x/sys/execabs"

	"github.com/runger/summon/internal/item"
)

const errorTitle = "Error occurred during execution"

var (
	entryStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	filterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	referenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	normalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Row markers.
const (
	markerChain = "→"
	markerText  = "…"
)

// ScreenOptions configures NewScreen.
type ScreenOptions struct {
	// OnShow and OnHide are command lines run when the screen is shown or
	// hidden, e.g. to toggle a drop-down terminal.
	OnShow string
	OnHide string
	Logger *slog.Logger
}

// Screen is the terminal UI. It keeps the last projected values and draws
// them in View.
type Screen struct {
	visible    bool
	entry      *item.Item
	editable   bool
	input      textinput.Model
	spin       spinner.Model
	spinning   bool
	filterText string
	actionName string
	reference  *item.ItemData
	items      []item.Item
	highlight  int
	err        error
	width      int

	onShow  string
	onHide  string
	logger  *slog.Logger
	pending []tea.Cmd
}

var _ Widget = (*Screen)(nil)

// NewScreen returns a hidden screen.
func NewScreen(opts ScreenOptions) *Screen {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4096

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen{
		input:     input,
		spin:      spin,
		highlight: -1,
		onShow:    opts.OnShow,
		onHide:    opts.OnHide,
		logger:    logger,
	}
}

// Visible reports whether the launcher is shown.
func (s *Screen) Visible() bool { return s.visible }

func (s *Screen) Show() {
	if !s.visible {
		s.queueHook("on_show", s.onShow)
	}
	s.visible = true
}

func (s *Screen) Hide() {
	if s.visible {
		s.queueHook("on_hide", s.onHide)
	}
	s.visible = false
}

func (s *Screen) SetEntry(it *item.Item) {
	if it == nil {
		s.entry = nil
		s.editable = false
		s.input.Blur()
		return
	}
	if s.editable && s.entry != nil && s.entry.Title == it.Title {
		return // keep the text being typed
	}
	c := it.Clone()
	s.entry = &c
	s.editable = false
	s.input.Blur()
}

func (s *Screen) SetEntryEditable() {
	if s.editable {
		return
	}
	s.editable = true
	s.input.Reset()
	if s.entry != nil {
		s.input.Placeholder = s.entry.Title
	}
	s.pending = append(s.pending, s.input.Focus(), textinput.Blink)
}

func (s *Screen) EntryText() string { return s.input.Value() }

func (s *Screen) SetFilterText(text string) { s.filterText = text }

func (s *Screen) SetActionName(name string) { s.actionName = name }

func (s *Screen) SetReference(ref *item.ItemData) {
	if ref == nil {
		s.reference = nil
		return
	}
	r := *ref
	s.reference = &r
}

func (s *Screen) SetItems(items []item.Item, highlight int) {
	s.items = items
	s.highlight = highlight
}

func (s *Screen) SetSpinning(spinning bool) {
	if spinning && !s.spinning {
		s.pending = append(s.pending, s.spin.Tick)
	}
	s.spinning = spinning
}

func (s *Screen) SetError(err error) { s.err = err }

// Pending returns and clears the queued commands.
func (s *Screen) Pending() tea.Cmd {
	cmds := s.pending
	s.pending = nil
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// Update handles terminal resizes, spinner ticks and text entry.
func (s *Screen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.input.Width = max(msg.Width-4, 10)
		return nil

	case spinner.TickMsg:
		if !s.spinning {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd
	}

	if !s.editable {
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *Screen) queueHook(name, commandLine string) {
	if strings.TrimSpace(commandLine) == "" {
		return
	}
	logger := s.logger
	s.pending = append(s.pending, func() tea.Msg {
		argv, err := shlex.Split(commandLine)
		if err != nil || len(argv) == 0 {
			logger.Warn("invalid window hook", "hook", name, "command", commandLine, "err", err)
			return nil
		}
		cmd := execabs.Command(argv[0], argv[1:]...) //nolint:gosec // G204: hooks come from user config
		if out, err := cmd.CombinedOutput(); err != nil {
			logger.Warn("window hook failed", "hook", name, "err", err, "output", strings.TrimSpace(string(out)))
		}
		return nil
	})
}

// View implements the drawing half of Widget.
func (s *Screen) View() string {
	if !s.visible {
		return dimStyle.Render("summon is hidden. Run `summon show` to bring it back.")
	}

	var b strings.Builder
	b.WriteString(s.viewEntry())
	b.WriteRune('\n')

	if s.reference != nil {
		b.WriteString(s.viewReference())
		b.WriteRune('\n')
	}

	if s.err != nil {
		b.WriteString(errorStyle.Render(errorTitle))
		b.WriteRune('\n')
		b.WriteString(normalStyle.Render(s.truncate(s.err.Error(), 2)))
		return b.String()
	}

	b.WriteString(s.viewItems())
	return b.String()
}

func (s *Screen) viewEntry() string {
	var line string
	switch {
	case s.editable:
		line = s.input.View()
	case s.entry != nil:
		line = entryStyle.Render(s.truncate(s.entry.Title, 4))
	default:
		line = dimStyle.Render("Type to filter")
	}
	if s.filterText != "" {
		line += "  " + filterStyle.Render("/"+s.filterText)
	}
	if s.spinning {
		line += "  " + s.spin.View()
	}
	return line
}

func (s *Screen) viewReference() string {
	var desc string
	if s.reference.Kind == item.DataPath {
		desc = "Path data"
	} else {
		desc = fmt.Sprintf("Text data: %d bytes", s.reference.Len())
	}
	line := referenceStyle.Render(desc)
	if s.actionName != "" {
		line = labelStyle.Render(s.actionName) + "  " + line
	}
	return line
}

func (s *Screen) viewItems() string {
	if len(s.items) == 0 {
		return dimStyle.Render("No items")
	}
	rows := make([]string, 0, len(s.items))
	for i, it := range s.items {
		rows = append(rows, s.viewRow(it, i == s.highlight))
	}
	return strings.Join(rows, "\n")
}

func (s *Screen) viewRow(it item.Item, highlighted bool) string {
	marker := "  "
	if highlighted {
		marker = "> "
	}
	var suffix string
	if it.Action != nil {
		if it.Action.ReturnsItems() {
			suffix += " " + markerChain
		}
		if it.Action.AcceptsText() {
			suffix += " " + markerText
		}
	}

	title := s.truncate(it.Title, 6)
	style := normalStyle
	if highlighted {
		style = selectedStyle
	}
	row := style.Render(marker+title) + suffix
	if it.Badge != "" {
		row += " " + badgeStyle.Render("["+it.Badge+"]")
	}
	if it.Subtitle != "" {
		row += "  " + subtitleStyle.Render(s.truncate(it.Subtitle, runewidth.StringWidth(title)+10))
	}
	return row
}

// truncate fits text into the screen width minus reserved columns.
func (s *Screen) truncate(text string, reserved int) string {
	text = displayText(text)
	if s.width <= 0 {
		return text
	}
	return MiddleTruncate(text, s.width-reserved)
}

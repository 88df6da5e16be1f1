package launcher

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/runger/summon/internal/item"
	"github.com/runger/summon/internal/workset"
)

// DefaultDecay is how long typing mode lasts after the last keystroke.
const DefaultDecay = time.Second

// ShowMsg brings the launcher up, optionally bound to the clipboard text.
type ShowMsg struct {
	WithClipboard bool
}

// HideMsg hides the launcher without changing its state.
type HideMsg struct{}

// ReloadMsg replaces the action registry.
type ReloadMsg struct {
	Actions []item.Action
}

// decayMsg fires after a keystroke; edit identifies the keystroke.
type decayMsg struct {
	edit time.Time
}

// runDoneMsg carries the result of the run started under runID.
type runDoneMsg struct {
	runID  string
	title  string
	result workset.Result
}

// RunReport describes a finished run. Abandoned is set when the user left
// Running before the result arrived.
type RunReport struct {
	RunID      string
	Title      string
	Result     workset.Result
	Abandoned  bool
	FinishedAt time.Time
}

// Options configures New.
type Options struct {
	Workset      *workset.Context
	UI           UI
	Keys         *KeyMap
	Decay        time.Duration
	PageSize     int
	Logger       *slog.Logger
	StartVisible bool

	// Now replaces time.Now for the decay check.
	Now func() time.Time

	// OnRunFinished is called from Update for every delivered result. It
	// must not block.
	OnRunFinished func(RunReport)
}

// Model is the launcher's bubbletea model. Every transition produces a new
// Model and re-projects the new status onto the UI.
type Model struct {
	status       Status
	ws           *workset.Context
	ui           UI
	keys         KeyMap
	decay        time.Duration
	pageSize     int
	logger       *slog.Logger
	now          func() time.Time
	startVisible bool
	onRun        func(RunReport)
}

// New returns a Model in the Initial state.
func New(opts Options) Model {
	m := Model{
		status:       Initial{},
		ws:           opts.Workset,
		ui:           opts.UI,
		keys:         DefaultKeyMap(),
		decay:        opts.Decay,
		pageSize:     opts.PageSize,
		logger:       opts.Logger,
		now:          opts.Now,
		startVisible: opts.StartVisible,
		onRun:        opts.OnRunFinished,
	}
	if opts.Keys != nil {
		m.keys = *opts.Keys
	}
	if m.ws == nil {
		m.ws = workset.New(workset.Options{})
	}
	if m.ui == nil {
		m.ui = NewScreen(ScreenOptions{Logger: opts.Logger})
	}
	if m.decay <= 0 {
		m.decay = DefaultDecay
	}
	if m.pageSize <= 0 {
		m.pageSize = DefaultPageSize
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Status returns the current interaction state.
func (m Model) Status() Status {
	return m.status
}

// Workset returns the working set the model drives.
func (m Model) Workset() *workset.Context {
	return m.ws
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.startVisible {
		m.ui.Show()
	} else {
		m.ui.Hide()
	}
	m.project()
	return m.pending()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case ShowMsg:
		return m.handleShow(msg)

	case HideMsg:
		m.ui.Hide()
		return m, m.pending()

	case ReloadMsg:
		m.ws.SetActions(msg.Actions)
		if _, ok := m.status.(Initial); ok {
			m.ws.Reset()
		}
		m.logger.Info("actions reloaded", "count", len(msg.Actions))
		return m.transition(m.status, nil)

	case decayMsg:
		return m.handleDecay(msg)

	case runDoneMsg:
		return m.handleRunDone(msg)
	}

	if w, ok := m.ui.(Widget); ok {
		return m, w.Update(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if w, ok := m.ui.(Widget); ok {
		return w.View()
	}
	return ""
}

// transition installs s, projects it and batches cmd with the UI's queued
// commands.
func (m Model) transition(s Status, cmd tea.Cmd) (Model, tea.Cmd) {
	m.status = s
	m.project()
	return m, tea.Batch(cmd, m.pending())
}

func (m Model) pending() tea.Cmd {
	if w, ok := m.ui.(Widget); ok {
		return w.Pending()
	}
	return nil
}

func (m Model) handleShow(msg ShowMsg) (tea.Model, tea.Cmd) {
	var next Status = Initial{}
	m.ws.Reset()
	if msg.WithClipboard {
		if err := m.ws.QuicksendFromClipboard(); err != nil {
			m.logger.Warn("clipboard quicksend failed", "err", err)
		} else {
			next = FilteringNone{}
		}
	}
	m.ui.Show()
	return m.transition(next, nil)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := m.status.(type) {
	case Running:
		if key.Matches(msg, m.keys.Escape) {
			m.logger.Warn("dropping running action", "run", s.RunID)
			return m.transition(FilteringNone{}, nil)
		}
		return m, nil

	case EnteringText:
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m.submitText(s)
		case key.Matches(msg, m.keys.Escape):
			return m.transition(FilteringNone{}, nil)
		}
		if w, ok := m.ui.(Widget); ok {
			return m, w.Update(msg)
		}
		return m, nil

	case Error:
		if m.keys.intercepted(msg) {
			return m.transition(FilteringNone{}, nil)
		}
		return m, nil
	}

	if r, ok := filterRune(msg); ok {
		return m.handleChar(r)
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.handleEscape()
	case key.Matches(msg, m.keys.Up):
		return m.handleMove(-1)
	case key.Matches(msg, m.keys.Down):
		return m.handleMove(1)
	case key.Matches(msg, m.keys.Enter):
		return m.handleEnter()
	case key.Matches(msg, m.keys.Space):
		return m.handleSpace()
	case key.Matches(msg, m.keys.Tab):
		return m.handleTab()
	case key.Matches(msg, m.keys.Copy):
		return m.handleCopy()
	}
	return m, nil
}

func (m Model) handleEscape() (tea.Model, tea.Cmd) {
	switch m.status.(type) {
	case Initial:
		m.ui.Hide()
		return m.transition(Initial{}, nil)
	case FilteringNone:
		m.ws.Reset()
		return m.transition(Initial{}, nil)
	}
	return m.transition(FilteringNone{}, nil)
}

func (m Model) handleChar(r rune) (tea.Model, tea.Cmd) {
	var text string
	switch m.status.(type) {
	case Initial, FilteringNone:
		text = string(r)
	case FilteringEntering, FilteringMoving:
		sel, _ := selection(m.status)
		text = sel.FilterText + string(r)
	default:
		return m, nil
	}

	matches := m.ws.Filter(text)
	edit := m.now()
	next := FilteringEntering{
		Selection: Selection{
			SelectedIdx:  clampIdx(0, len(matches)),
			FilterText:   text,
			MatchIndices: matches,
		},
		LastEdit: edit,
	}
	return m.transition(next, tea.Tick(m.decay, func(time.Time) tea.Msg {
		return decayMsg{edit: edit}
	}))
}

func (m Model) handleDecay(msg decayMsg) (tea.Model, tea.Cmd) {
	s, ok := m.status.(FilteringEntering)
	if !ok || !s.LastEdit.Equal(msg.edit) {
		return m, nil // Stale timer.
	}
	if m.now().Sub(s.LastEdit) < m.decay {
		return m, nil
	}
	return m.transition(FilteringNone{}, nil)
}

func (m Model) handleMove(delta int) (tea.Model, tea.Cmd) {
	switch m.status.(type) {
	case Initial, FilteringNone:
		all := m.ws.All()
		return m.transition(FilteringMoving{Selection: Selection{
			SelectedIdx:  clampIdx(0, len(all)),
			MatchIndices: all,
		}}, nil)
	case FilteringEntering, FilteringMoving:
		sel, _ := selection(m.status)
		sel.SelectedIdx = clampIdx(sel.SelectedIdx+delta, len(sel.MatchIndices))
		return m.transition(FilteringMoving{Selection: sel}, nil)
	}
	return m, nil
}

// selected returns the highlighted item and its index in the working set.
func (m Model) selected() (item.Item, int, bool) {
	sel, ok := selection(m.status)
	if !ok || sel.SelectedIdx < 0 || sel.SelectedIdx >= len(sel.MatchIndices) {
		return item.Item{}, -1, false
	}
	idx := sel.MatchIndices[sel.SelectedIdx]
	it, ok := m.ws.Item(idx)
	if !ok {
		return item.Item{}, -1, false
	}
	return it, idx, true
}

func (m Model) notSelectable(key string) (tea.Model, tea.Cmd) {
	it, _, ok := m.selected()
	if !ok {
		m.logger.Warn("no item selected", "key", key, "err", item.ErrNotSelectable)
	} else {
		m.logger.Warn("item not selectable", "key", key, "item", it.Title, "err", item.ErrNotSelectable)
	}
	return m, nil
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	it, idx, ok := m.selected()
	if !ok {
		return m.notSelectable("enter")
	}
	switch {
	case m.ws.Selectable(it):
		return m.startRun(func(done func(workset.Result)) { m.ws.AsyncSelect(it, done) }, it)
	case m.ws.SelectableWithText(it):
		return m.transition(EnteringText{Index: idx}, nil)
	}
	return m.notSelectable("enter")
}

func (m Model) handleSpace() (tea.Model, tea.Cmd) {
	it, idx, ok := m.selected()
	if !ok || !m.ws.SelectableWithText(it) || m.ws.Selectable(it) {
		return m.notSelectable("space")
	}
	return m.transition(EnteringText{Index: idx}, nil)
}

func (m Model) handleTab() (tea.Model, tea.Cmd) {
	it, _, ok := m.selected()
	if !ok || !m.ws.QuicksendAble(it) {
		return m.notSelectable("tab")
	}
	if err := m.ws.Quicksend(it); err != nil {
		return m.transition(Error{Err: err}, nil)
	}
	return m.transition(FilteringNone{}, nil)
}

func (m Model) handleCopy() (tea.Model, tea.Cmd) {
	it, _, ok := m.selected()
	if !ok {
		return m.notSelectable("ctrl+c")
	}
	if err := m.ws.CopyContentToClipboard(it); err != nil {
		m.logger.Warn("unable to copy item", "item", it.Title, "error", err)
	} else {
		m.logger.Debug("copied to clipboard", "item", it.Title)
	}
	sel, _ := selection(m.status)
	return m.transition(FilteringMoving{Selection: sel}, nil)
}

func (m Model) submitText(s EnteringText) (tea.Model, tea.Cmd) {
	it, ok := m.ws.Item(s.Index)
	if !ok {
		m.logger.Warn("text entry target vanished", "index", s.Index)
		return m.transition(FilteringNone{}, nil)
	}
	text := m.ui.EntryText()
	return m.startRun(func(done func(workset.Result)) { m.ws.AsyncSelectWithText(it, text, done) }, it)
}

// startRun dispatches an action and enters Running. The result travels
// over a one-slot channel drained by a command on the program's side.
func (m Model) startRun(dispatch func(func(workset.Result)), it item.Item) (tea.Model, tea.Cmd) {
	runID := uuid.NewString()
	results := make(chan workset.Result, 1)
	logger := m.logger.With("run", runID)

	dispatch(func(r workset.Result) {
		select {
		case results <- r:
		default:
			logger.Warn("run result not delivered", "err", item.ErrChannelFailed)
		}
	})
	logger.Info("action started", "item", it.Title)

	wait := func() tea.Msg {
		return runDoneMsg{runID: runID, title: it.Title, result: <-results}
	}
	return m.transition(Running{RunID: runID, Results: results}, wait)
}

func (m Model) handleRunDone(msg runDoneMsg) (tea.Model, tea.Cmd) {
	s, ok := m.status.(Running)
	abandoned := !ok || s.RunID != msg.runID
	if m.onRun != nil {
		m.onRun(RunReport{
			RunID:      msg.runID,
			Title:      msg.title,
			Result:     msg.result,
			Abandoned:  abandoned,
			FinishedAt: m.now(),
		})
	}
	if abandoned {
		m.logger.Debug("discarding abandoned run", "run", msg.runID)
		return m, nil
	}
	if err := msg.result.Err; err != nil {
		m.logger.Warn("action failed", "run", msg.runID, "err", err)
		return m.transition(Error{Err: err}, nil)
	}
	m.ws.AsyncSelectCallback(msg.result.Items)
	m.logger.Info("action finished", "run", msg.runID, "items", len(msg.result.Items))
	return m.transition(FilteringNone{}, nil)
}

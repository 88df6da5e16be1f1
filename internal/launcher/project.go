package launcher

import (
	"github.com/runger/summon/internal/item"
)

// Action-name labels for a bound reference.
const (
	actionNameText = "Open Text with"
	actionNamePath = "Open Path with"
)

// actionName labels the action list for the bound reference.
func actionName(ref *item.ItemData) string {
	if ref == nil {
		return ""
	}
	if ref.Kind == item.DataPath {
		return actionNamePath
	}
	return actionNameText
}

// project derives the whole UI from the current status and working set.
// It handles every Status variant.
func (m Model) project() {
	ref := m.ws.Reference
	m.ui.SetReference(ref)
	m.ui.SetActionName(actionName(ref))

	switch s := m.status.(type) {
	case Initial:
		m.projectList("", nil, nil, -1)

	case FilteringNone:
		if m.ws.Len() == 0 {
			m.logger.Warn("No more listing items")
			m.ui.Hide()
		}
		m.projectList("", nil, m.ws.ListItems, -1)

	case FilteringEntering:
		m.projectSelection(s.Selection)

	case FilteringMoving:
		m.projectSelection(s.Selection)

	case EnteringText:
		it, ok := m.ws.Item(s.Index)
		if !ok {
			m.projectList("", nil, m.ws.ListItems, -1)
			break
		}
		m.projectList("", &it, nil, -1)
		m.ui.SetActionName(it.Title)
		m.ui.SetEntryEditable()

	case Running:
		m.ui.SetEntry(nil)
		m.ui.SetFilterText("")
		m.ui.SetSpinning(true)
		m.ui.SetError(nil)
		m.setItems(nil, -1)

	case Error:
		m.ui.SetEntry(nil)
		m.ui.SetFilterText("")
		m.ui.SetSpinning(false)
		m.ui.SetError(s.Err)
		m.setItems(nil, -1)

	default:
		m.projectList("", nil, m.ws.ListItems, -1)
	}
}

// projectList shows items in a settled (not running, no error) state.
func (m Model) projectList(filterText string, entry *item.Item, items []item.Item, highlight int) {
	m.ui.SetEntry(entry)
	m.ui.SetFilterText(filterText)
	m.ui.SetSpinning(false)
	m.ui.SetError(nil)
	m.setItems(items, highlight)
}

// projectSelection shows the matched items in match order with the cursor
// on SelectedIdx.
func (m Model) projectSelection(sel Selection) {
	matched := make([]item.Item, 0, len(sel.MatchIndices))
	for _, idx := range sel.MatchIndices {
		if it, ok := m.ws.Item(idx); ok {
			matched = append(matched, it)
		}
	}
	highlight := sel.SelectedIdx
	if highlight >= len(matched) {
		highlight = len(matched) - 1
	}

	var entry *item.Item
	if highlight >= 0 {
		it := matched[highlight]
		entry = &it
	}
	m.projectList(sel.FilterText, entry, matched, highlight)
}

// setItems windows items around highlight.
func (m Model) setItems(items []item.Item, highlight int) {
	start, end := Window(len(items), highlight, m.pageSize)
	if highlight >= 0 {
		highlight -= start
	}
	m.ui.SetItems(item.CloneAll(items[start:end]), highlight)
}

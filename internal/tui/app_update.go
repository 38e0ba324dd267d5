package tui

import (
	"context"

	"preflight-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "ctrl+c" {
		m.quitArmed = false
	}
	m.status = ""

	switch key {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.hasUnsaved() && !m.quitArmed {
			m.quitArmed = true
			m.status = "unsaved changes; press q again to discard, or s to save"
			return m, nil
		}
		m.persistUIState()
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursorTo(0)
	case "G", "end":
		m.cursorTo(len(m.d.VisibleIDs()) - 1)

	case "v":
		// Set the range anchor; j/k now extend the selection from it.
		if id := m.activeID(); id != "" {
			m.anchorID = id
			m.d.SelectSingle(id)
		}
	case "esc":
		m.anchorID = ""
		m.d.Selection().Clear()
		m.syncCursor()

	case " ":
		if id := m.activeID(); id != "" {
			if m.d.ToggleCollapse(id) {
				m.syncCursor()
			}
		}

	case "tab":
		if id := m.activeID(); id != "" {
			if res := m.d.Indent(id); !res.Changed {
				m.status = "cannot indent further"
			}
		}
	case "shift+tab":
		if id := m.activeID(); id != "" {
			if res := m.d.Outdent(id); !res.Changed {
				m.status = "cannot outdent further"
			}
		}

	case "n":
		m.insertItem(model.KindChallengeResponse)
	case "N":
		m.insertItem(model.KindTitle)

	case "d":
		if id := m.activeID(); id != "" {
			if res := m.d.RemoveItems(id); res.Changed {
				m.anchorID = ""
				m.syncCursor()
			}
		}
	case "y":
		if id := m.activeID(); id != "" {
			if res := m.d.DuplicateItems(id); res.Changed {
				m.d.SelectSingle(res.ID)
				m.syncCursor()
			}
		}

	case "J":
		m.reorder(1)
	case "K":
		m.reorder(-1)

	case "e", "enter":
		m.openEditor()

	case "u":
		if m.d.Undo() {
			m.anchorID = ""
			m.syncCursor()
		} else {
			m.status = "nothing to undo"
		}
	case "ctrl+r":
		if m.d.Redo() {
			m.anchorID = ""
			m.syncCursor()
		} else {
			m.status = "nothing to redo"
		}

	case "s":
		m.save()

	case "]":
		m.cycleChecklist(1)
	case "[":
		m.cycleChecklist(-1)
	}

	return m, nil
}

func (m *appModel) moveCursor(delta int) {
	ids := m.d.VisibleIDs()
	if len(ids) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > len(ids)-1 {
		next = len(ids) - 1
	}
	m.cursor = next
	m.applyCursorSelection(ids[next])
}

func (m *appModel) cursorTo(i int) {
	ids := m.d.VisibleIDs()
	if len(ids) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(ids)-1 {
		i = len(ids) - 1
	}
	m.cursor = i
	m.applyCursorSelection(ids[i])
}

// applyCursorSelection makes the item under the cursor the active one: a
// plain move selects it alone, a move while extending re-derives the range
// from the fixed anchor.
func (m *appModel) applyCursorSelection(targetID string) {
	if m.anchorID == "" {
		m.d.SelectSingle(targetID)
		return
	}
	m.d.SelectSingle(m.anchorID)
	m.d.SelectRange(targetID)
}

func (m *appModel) insertItem(kind model.ItemKind) {
	ckl, ok := m.d.CurrentChecklist()
	if !ok {
		return
	}
	afterIdx := -1
	if id := m.activeID(); id != "" {
		afterIdx = ckl.IndexOf(id)
	}
	res := m.d.InsertItem(kind, afterIdx)
	if !res.Changed {
		return
	}
	m.anchorID = ""
	m.d.SelectSingle(res.ID)
	m.syncCursor()
	m.openEditor()
}

// reorder moves the active item, widened to the whole selection when the
// active item is part of one, a single step in document order.
func (m *appModel) reorder(delta int) {
	id := m.activeID()
	if id == "" {
		return
	}
	ckl, ok := m.d.CurrentChecklist()
	if !ok {
		return
	}
	itemIDs := make([]string, len(ckl.Items))
	for i := range ckl.Items {
		itemIDs[i] = ckl.Items[i].ID
	}
	moving := map[string]bool{}
	for _, sid := range m.d.Selection().Scope(id, itemIDs) {
		moving[sid] = true
	}

	// The block's current drop index is the number of unmoved items before
	// its first member; one step from there, whichever row is active.
	pos := 0
	for _, it := range ckl.Items {
		if moving[it.ID] {
			break
		}
		pos++
	}
	if res := m.d.MoveItems(id, pos+delta); res.Changed {
		m.syncCursor()
	}
}

func (m *appModel) openEditor() {
	id := m.activeID()
	if id == "" {
		return
	}
	ckl, _ := m.d.CurrentChecklist()
	i := ckl.IndexOf(id)
	if i < 0 {
		return
	}

	m.mode = modeEdit
	m.editItemID = id
	m.challengeInput.SetValue(ckl.Items[i].Challenge)
	m.responseInput.SetValue(ckl.Items[i].Response)
	m.editFocus = 0
	m.challengeInput.Focus()
	m.responseInput.Blur()
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.editItemID = ""
		return m, nil

	case "tab", "shift+tab":
		m.editFocus = 1 - m.editFocus
		if m.editFocus == 0 {
			m.challengeInput.Focus()
			m.responseInput.Blur()
		} else {
			m.responseInput.Focus()
			m.challengeInput.Blur()
		}
		return m, nil

	case "enter":
		// One completed edit, one history entry.
		m.d.SetItemText(m.editItemID, m.challengeInput.Value(), m.responseInput.Value())
		m.mode = modeList
		m.editItemID = ""
		return m, nil
	}

	var cmd tea.Cmd
	if m.editFocus == 0 {
		m.challengeInput, cmd = m.challengeInput.Update(msg)
	} else {
		m.responseInput, cmd = m.responseInput.Update(msg)
	}
	return m, cmd
}

func (m *appModel) cycleChecklist(delta int) {
	ids := m.allChecklistIDs()
	if len(ids) < 2 {
		return
	}
	_, cur := m.d.Current()
	at := 0
	for i, id := range ids {
		if id == cur {
			at = i
			break
		}
	}
	next := (at + delta + len(ids)) % len(ids)
	fileID := m.d.Files()[0].ID
	if m.d.SetCurrent(fileID, ids[next]) {
		m.anchorID = ""
		m.cursor = 0
		m.syncCursor()
	}
}

func (m *appModel) hasUnsaved() bool {
	for _, f := range m.d.Files() {
		if f.Dirty {
			return true
		}
	}
	return false
}

func (m *appModel) save() {
	for _, f := range m.d.Files() {
		if !f.Dirty {
			continue
		}
		if err := m.store.SaveFile(f); err != nil {
			m.status = "save failed: " + err.Error()
			return
		}
		m.d.MarkSaved(f.ID)
	}
	m.persistUIState()
	m.status = "saved"
}

// persistUIState writes collapse sets and the open position to the sidecar.
// Best-effort: UI state loss is never worth interrupting the user.
func (m *appModel) persistUIState() {
	ctx := context.Background()
	_, cur := m.d.Current()
	_ = m.store.SetLastPosition(ctx, m.fileName, cur)
	for _, id := range m.allChecklistIDs() {
		_ = m.store.SaveCollapseState(ctx, id, m.d.CollapsedIDs(id))
	}
}

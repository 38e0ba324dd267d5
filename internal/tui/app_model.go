package tui

import (
	"context"

	"preflight-cli/internal/doc"
	"preflight-cli/internal/model"
	"preflight-cli/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeEdit
)

type appModel struct {
	store    store.Store
	d        *doc.Store
	fileName string

	width  int
	height int

	mode   mode
	cursor int // index into the visible rows
	status string

	// Range-selection anchor; "" when not extending.
	anchorID string

	// Quit guard: q with unsaved changes asks once.
	quitArmed bool

	// Edit modal state.
	editItemID     string
	challengeInput textinput.Model
	responseInput  textinput.Model
	editFocus      int // 0 = challenge, 1 = response
}

func newAppModel(s store.Store, fileName string) (appModel, error) {
	f, err := s.LoadFile(fileName)
	if err != nil {
		return appModel{}, err
	}

	d := doc.New()
	d.Add(f)

	// Seed collapse state and the last open checklist from the sidecar.
	ctx := context.Background()
	for cklID, itemIDs := range s.LoadCollapseState(ctx) {
		d.SetCollapsed(cklID, itemIDs)
	}
	_, lastCkl := s.LastPosition(ctx)
	if lastCkl == "" || !d.SetCurrent(f.ID, lastCkl) {
		if ckl, ok := firstChecklist(f); ok {
			d.SetCurrent(f.ID, ckl)
		}
	}
	_ = s.TouchRecentFile(ctx, fileName)

	m := appModel{
		store:    s,
		d:        d,
		fileName: fileName,
	}
	m.challengeInput = newInput("Challenge")
	m.responseInput = newInput("Response")
	m.syncCursor()
	return m, nil
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 48
	return ti
}

func firstChecklist(f model.File) (string, bool) {
	for _, g := range f.Groups {
		if len(g.Checklists) > 0 {
			return g.Checklists[0].ID, true
		}
	}
	return "", false
}

// allChecklistIDs returns every checklist of the open file in display order.
func (m *appModel) allChecklistIDs() []string {
	var out []string
	for _, f := range m.d.Files() {
		for _, g := range f.Groups {
			for _, c := range g.Checklists {
				out = append(out, c.ID)
			}
		}
	}
	return out
}

// activeID returns the item id under the cursor, or "".
func (m *appModel) activeID() string {
	ids := m.d.VisibleIDs()
	if m.cursor < 0 || m.cursor >= len(ids) {
		return ""
	}
	return ids[m.cursor]
}

// syncCursor clamps the cursor to the visible rows and aligns the selection
// manager's active item with it. Called after every mutation, undo and
// collapse change.
func (m *appModel) syncCursor() {
	ids := m.d.VisibleIDs()
	if len(ids) == 0 {
		m.cursor = 0
		return
	}

	// Follow the engine's active item when it is still visible.
	if act := m.d.Selection().Active(); act != "" {
		for i, id := range ids {
			if id == act {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(ids) {
		m.cursor = len(ids) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.d.SelectSingle(ids[m.cursor])
}

func (m appModel) Init() tea.Cmd { return nil }

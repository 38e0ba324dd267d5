package tui

import (
	"fmt"
	"strings"

	"preflight-cli/internal/model"
	"preflight-cli/internal/outline"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if m.mode == modeEdit {
		return m.viewEditor()
	}
	return m.viewList()
}

func (m appModel) viewList() string {
	ckl, ok := m.d.CurrentChecklist()
	if !ok {
		return styleMuted().Render("No checklist in this file. Add one with `preflight checklists add`.")
	}

	header := m.renderHeader(ckl.Name)

	width := m.width
	if width < 40 {
		width = 40
	}
	bodyHeight := m.height - 4
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	idxs := outline.VisibleIndices(ckl.Items, m.collapsedSet(ckl))
	rows := make([]string, 0, len(idxs))
	sel := m.d.Selection()
	for vi, i := range idxs {
		rows = append(rows, m.renderRow(ckl.Items, i, width,
			vi == m.cursor, sel.Len() > 1 && sel.Contains(ckl.Items[i].ID)))
	}
	if len(rows) == 0 {
		rows = append(rows, styleMuted().Render("  (empty checklist; press n to add an item)"))
	}

	// Keep the cursor row inside the viewport.
	top := 0
	if m.cursor >= bodyHeight {
		top = m.cursor - bodyHeight + 1
	}
	if top > len(rows) {
		top = len(rows)
	}
	end := top + bodyHeight
	if end > len(rows) {
		end = len(rows)
	}
	body := strings.Join(rows[top:end], "\n")

	footer := styleMuted().Render(
		"j/k move  space fold  n new  e edit  d delete  y dup  J/K reorder  tab indent  v select  u undo  s save  q quit")
	if m.status != "" {
		footer = lipgloss.NewStyle().Foreground(colorAccent).Render(m.status)
	}

	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m appModel) renderHeader(checklistName string) string {
	dirty := ""
	if m.hasUnsaved() {
		dirty = lipgloss.NewStyle().Foreground(colorDirty).Render(" [+]")
	}
	title := lipgloss.NewStyle().Bold(true).
		Render(fmt.Sprintf("%s / %s", m.fileName, checklistName))
	return title + dirty
}

func (m appModel) renderRow(items []model.Item, i, width int, cursor, selected bool) string {
	it := items[i]

	fold := "  "
	if outline.ChildCount(items, i) > 0 {
		fold = "▾ "
		if m.d.IsCollapsed(it.ID) {
			fold = "▸ "
		}
	}

	text := it.Challenge
	if it.Kind == model.KindChallengeResponse && it.Response != "" {
		text = fmt.Sprintf("%s %s %s", it.Challenge, styleMuted().Render("·····"), it.Response)
	}

	line := strings.Repeat("  ", it.Depth) + fold + kindGlyph(it.Kind) + " " + text
	line = ansi.Truncate(line, width-2, "…")
	if it.Centered {
		if pad := (width - ansi.StringWidth(line)) / 2; pad > 0 {
			line = strings.Repeat(" ", pad) + line
		}
	}

	st := lipgloss.NewStyle()
	switch it.Kind {
	case model.KindTitle:
		st = st.Bold(true)
	case model.KindNote:
		st = styleMuted()
	case model.KindWarning:
		st = st.Foreground(colorWarning)
	case model.KindCaution:
		st = st.Foreground(colorCaution)
	}
	if selected {
		st = st.Foreground(colorAccent)
	}
	if cursor {
		st = st.Background(colorSelectedBg).Foreground(colorSelectedFg)
	}
	return st.Render(line)
}

func kindGlyph(k model.ItemKind) string {
	switch k {
	case model.KindTitle:
		return "■"
	case model.KindChallengeResponse:
		return "□"
	case model.KindChallengeOnly:
		return "◦"
	case model.KindNote:
		return "·"
	case model.KindWarning:
		return "!"
	case model.KindCaution:
		return "∆"
	default:
		return "?"
	}
}

func (m appModel) viewEditor() string {
	title := lipgloss.NewStyle().Bold(true).Render("Edit item")
	help := styleMuted().Render("tab: switch field  enter: apply  esc: cancel")
	return strings.Join([]string{
		title,
		"",
		"Challenge: " + m.challengeInput.View(),
		"Response:  " + m.responseInput.View(),
		"",
		help,
	}, "\n")
}

// collapsedSet projects the store's collapse state for one checklist into
// the resolver's input shape.
func (m appModel) collapsedSet(ckl model.Checklist) map[string]bool {
	out := map[string]bool{}
	for _, it := range ckl.Items {
		if m.d.IsCollapsed(it.ID) {
			out[it.ID] = true
		}
	}
	return out
}

package tui

import (
	"preflight-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the named file from the workspace and starts the interactive
// editor on it.
func Run(s store.Store, fileName string) error {
	applyColorProfilePreference()
	applyThemePreference()

	m, err := newAppModel(s, fileName)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionEnder is the session scope the TUI clears on exit.
type SessionEnder interface {
	End(ctx context.Context) error
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if opts.Session != nil {
		if endErr := opts.Session.End(context.Background()); endErr != nil {
			m.log.Warn("end session", "err", endErr)
		}
	}
	return err
}

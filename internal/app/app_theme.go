package app

import (
	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/theme"
)

// toggleTheme switches to the next palette, repaints every pane and saves
// the choice.
func (a *App) toggleTheme() {
	a.theme = theme.Next(a.theme)
	a.list.SetColors(a.theme.Colors)
	a.hints.SetColors(a.theme.Colors)
	if a.editor != nil {
		a.editor.SetStyle(a.theme.Syntax)
	}
	a.layout.Invalidate()

	a.cfg.UI.Theme = string(a.theme.ID)
	if err := a.cfg.SaveUISettings(); err != nil {
		logging.Warn("save theme: %v", err)
	}
	a.hints.SetStatus("theme: " + a.theme.Name)
}

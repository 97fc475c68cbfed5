package app

import "github.com/andyrewlee/reqtty/internal/perf"

// render draws changed borders and stale panes, then places or hides the
// terminal cursor, and commits everything in one flush. A tick with nothing
// to draw writes nothing.
func (a *App) render() error {
	defer perf.Time("render")()
	drew := a.layout.RenderBorders(a.console, a.theme.Colors)
	if a.layout.RenderPanes(a.console) {
		drew = true
	}
	a.placeCursor(drew)
	return a.console.Flush()
}

func (a *App) placeCursor(drew bool) {
	x, y, ok := a.layout.CursorTarget()
	shown := a.console.CursorVisible()
	if !ok {
		if shown {
			a.console.HideCursor()
		}
		return
	}
	if drew || !shown || x != a.cursorX || y != a.cursorY {
		a.console.MoveTo(x, y)
		a.cursorX, a.cursorY = x, y
	}
	if !shown {
		a.console.ShowCursor()
	}
}

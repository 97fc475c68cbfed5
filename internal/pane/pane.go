// Package pane defines the contract between the layout and the content it
// hosts.
package pane

import (
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

// Pane is a content provider rendered into a viewport.
type Pane interface {
	// Output renders the current state into v through c. It clears the
	// pane's re-render flag.
	Output(c *console.Console, v *viewport.Viewport)
	// OnEvent consumes one input event. It fails only when bytes could not
	// be delivered to a child process.
	OnEvent(msg tea.Msg) error
	// NeedsReRender reports whether Output has anything new to draw.
	NeedsReRender() bool
}

// Cursor is implemented by text-capable panes. The terminal cursor is shown
// at the returned screen cell while the pane is active.
type Cursor interface {
	CursorPosition(v *viewport.Viewport) (x, y int)
}

// Focusable panes are told when they become or stop being active.
type Focusable interface {
	Focus()
	Blur()
}

// Invalidator panes can be forced to redraw, e.g. after the screen was
// cleared underneath them.
type Invalidator interface {
	Invalidate()
}

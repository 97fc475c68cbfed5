// Package hints is the bottom bar listing the navigation shortcuts.
package hints

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/keymap"
	"github.com/andyrewlee/reqtty/internal/theme"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

// Hints shows the shortcut line and, right-aligned, the latest status.
type Hints struct {
	text   string
	status string
	colors theme.Colors
	stale  bool
}

// New builds the hint bar for km.
func New(km keymap.KeyMap, colors theme.Colors) *Hints {
	return &Hints{text: keymap.HintLine(km), colors: colors, stale: true}
}

// Text returns the shortcut line.
func (h *Hints) Text() string { return h.text }

// SetStatus replaces the status message. An empty message clears it.
func (h *Hints) SetStatus(msg string) {
	msg = strings.Join(strings.Fields(msg), " ")
	if msg == h.status {
		return
	}
	h.status = msg
	h.stale = true
}

// Status returns the current status message.
func (h *Hints) Status() string { return h.status }

// SetColors switches the palette.
func (h *Hints) SetColors(colors theme.Colors) {
	h.colors = colors
	h.stale = true
}

// OnEvent ignores input; the bar is never focused.
func (h *Hints) OnEvent(tea.Msg) error { return nil }

// NeedsReRender reports whether the status changed.
func (h *Hints) NeedsReRender() bool { return h.stale }

// Invalidate forces a redraw.
func (h *Hints) Invalidate() { h.stale = true }

// Output draws the line.
func (h *Hints) Output(c *console.Console, v *viewport.Viewport) {
	width := v.Inner().W
	text := runewidth.Truncate(h.text, width, "…")
	status := ""
	if room := width - runewidth.StringWidth(text) - 2; room > 0 && h.status != "" {
		status = runewidth.Truncate(h.status, room, "…")
	}
	gap := width - runewidth.StringWidth(text) - runewidth.StringWidth(status)

	c.ResetColor()
	v.Reset()
	v.WriteString(c, text)
	if gap > 0 {
		v.WriteString(c, strings.Repeat(" ", gap))
	}
	if status != "" {
		c.SetForeground(h.colors.Muted)
		v.WriteString(c, status)
		c.ResetColor()
	}
	v.Reset()
	h.stale = false
}

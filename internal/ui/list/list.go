// Package list renders the saved requests as a selectable column of method
// badges and titles.
package list

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/data"
	"github.com/andyrewlee/reqtty/internal/keymap"
	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/theme"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

// Options configures a List.
type Options struct {
	KeyMap keymap.KeyMap
	Colors theme.Colors
	// OnSelect is called with the new index whenever the selection moves.
	OnSelect func(index int)
	// OnCopy is called with the selected index when the copy key is pressed.
	OnCopy func(index int) error
}

// List is the request list pane.
type List struct {
	opts Options

	items       []data.Title
	selected    int
	offset      int
	methodWidth int

	// drawnRows is how many rows the last Output filled, so shorter
	// contents can blank the leftovers.
	drawnRows int
	stale     bool
}

// New creates an empty list.
func New(opts Options) *List {
	return &List{opts: opts, stale: true}
}

// SetItems replaces the entries. The selection is kept when still in range.
func (l *List) SetItems(items []data.Title) {
	l.items = append(l.items[:0:0], items...)
	l.methodWidth = 0
	for _, it := range l.items {
		l.methodWidth = max(l.methodWidth, runewidth.StringWidth(strings.ToUpper(it.Method)))
	}
	if l.selected >= len(l.items) {
		l.selected = max(len(l.items)-1, 0)
	}
	l.stale = true
}

// SetColors switches the palette.
func (l *List) SetColors(colors theme.Colors) {
	l.opts.Colors = colors
	l.stale = true
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.items) }

// Selected returns the selected index, or -1 when the list is empty.
func (l *List) Selected() int {
	if len(l.items) == 0 {
		return -1
	}
	return l.selected
}

// Select moves the selection to index, clamped to the entries.
func (l *List) Select(index int) {
	if len(l.items) == 0 {
		return
	}
	index = max(0, min(index, len(l.items)-1))
	if index == l.selected {
		return
	}
	l.selected = index
	l.stale = true
	if l.opts.OnSelect != nil {
		l.opts.OnSelect(index)
	}
}

// OnEvent moves the selection or copies the selected URL.
func (l *List) OnEvent(msg tea.Msg) error {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, l.opts.KeyMap.ListUp):
		l.Select(l.selected - 1)
	case key.Matches(keyMsg, l.opts.KeyMap.ListDown):
		l.Select(l.selected + 1)
	case key.Matches(keyMsg, l.opts.KeyMap.CopyURL):
		l.copySelected()
	}
	return nil
}

// copySelected hands the selected index to OnCopy.
func (l *List) copySelected() {
	if l.opts.OnCopy == nil || len(l.items) == 0 {
		return
	}
	if err := l.opts.OnCopy(l.selected); err != nil {
		logging.Warn("copy url: %v", err)
	}
}

// NeedsReRender reports whether the list changed since the last Output.
func (l *List) NeedsReRender() bool { return l.stale }

// Invalidate forces a full redraw.
func (l *List) Invalidate() { l.stale = true }

// Output draws one row per visible entry, scrolled so that the selection is
// on screen.
func (l *List) Output(c *console.Console, v *viewport.Viewport) {
	inner := v.Inner()
	l.scrollTo(inner.H)

	rows := 0
	for i := l.offset; i < len(l.items) && rows < inner.H; i++ {
		v.MoveTo(c, 0, rows)
		l.renderRow(c, v, i, inner.W)
		rows++
	}
	blank := strings.Repeat(" ", inner.W)
	for row := rows; row < l.drawnRows && row < inner.H; row++ {
		v.MoveTo(c, 0, row)
		v.WriteString(c, blank)
	}
	l.drawnRows = rows
	v.Reset()
	l.stale = false
}

func (l *List) scrollTo(height int) {
	if height <= 0 {
		return
	}
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+height {
		l.offset = l.selected - height + 1
	}
	l.offset = max(0, min(l.offset, max(len(l.items)-height, 0)))
}

func (l *List) renderRow(c *console.Console, v *viewport.Viewport, i, width int) {
	item := l.items[i]
	colors := l.opts.Colors
	selected := i == l.selected

	badge := Badge(item.Method, l.methodWidth)
	methodColor := colors.MethodColor(item.Method)
	if selected {
		c.SetColors(colors.SelectionFg, methodColor)
	} else {
		c.SetColors(methodColor, nil)
	}
	badge = runewidth.Truncate(badge, width, "")
	v.WriteString(c, badge)

	rest := width - runewidth.StringWidth(badge)
	if rest > 0 {
		if selected {
			c.SetColors(colors.SelectionFg, colors.SelectionBg)
		} else {
			c.ResetColor()
		}
		v.WriteString(c, TitleCell(item.Title, rest))
	}
	c.ResetColor()
}

// Badge centers the upper-cased method in a cell two columns wider than
// methodWidth, with at least one space on the left.
func Badge(method string, methodWidth int) string {
	method = strings.ToUpper(method)
	pad := max(methodWidth-runewidth.StringWidth(method), 0) + 2
	left := max(1, pad/2)
	right := pad - left
	return strings.Repeat(" ", left) + method + strings.Repeat(" ", right)
}

// TitleCell renders a leading space and the title, truncated or padded to
// exactly width columns.
func TitleCell(title string, width int) string {
	if width <= 0 {
		return ""
	}
	cell := " " + title
	if runewidth.StringWidth(cell) > width {
		cell = runewidth.Truncate(cell, width, "…")
	}
	return runewidth.FillRight(cell, width)
}

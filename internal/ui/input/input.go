// Package input is the single-line text field pane used for the request URL.
package input

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/keymap"
	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/ui/common"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

var pasteFromClipboard = common.PasteFromClipboard

// Input is a single-line text field.
type Input struct {
	model  textinput.Model
	keymap keymap.KeyMap

	width int
	// clear is set when the drawn text may be longer than what is about
	// to be drawn.
	clear bool
	stale bool
}

// New creates an empty field.
func New(km keymap.KeyMap) *Input {
	m := textinput.New()
	m.Prompt = ""
	m.SetStyles(textinput.Styles{})
	m.SetVirtualCursor(false)
	return &Input{model: m, keymap: km, stale: true}
}

// Value returns the text with surrounding space trimmed.
func (i *Input) Value() string {
	return strings.TrimSpace(i.model.Value())
}

// SetValue replaces the text and moves the cursor to the end.
func (i *Input) SetValue(s string) {
	i.model.SetValue(common.SingleLine(s))
	i.model.CursorEnd()
	i.clear = true
	i.stale = true
}

// Focus gives the field keyboard input.
func (i *Input) Focus() {
	_ = i.model.Focus()
	i.stale = true
}

// Blur takes keyboard input away.
func (i *Input) Blur() {
	i.model.Blur()
	i.stale = true
}

// OnEvent edits the text. Enter is ignored.
func (i *Input) OnEvent(msg tea.Msg) error {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch {
		case keyMsg.Code == tea.KeyEnter:
			return nil
		case key.Matches(keyMsg, i.keymap.Paste):
			text, err := pasteFromClipboard()
			if err != nil {
				logging.Warn("paste: %v", err)
				return nil
			}
			msg = tea.PasteMsg{Content: text}
		}
	}
	if paste, ok := msg.(tea.PasteMsg); ok {
		msg = tea.PasteMsg{Content: common.SingleLine(paste.Content)}
	}

	before, pos := i.model.Value(), i.model.Position()
	i.model, _ = i.model.Update(msg)
	if i.model.Value() != before || i.model.Position() != pos {
		if len(i.model.Value()) < len(before) {
			i.clear = true
		}
		i.stale = true
	}
	return nil
}

// NeedsReRender reports whether the text or cursor moved.
func (i *Input) NeedsReRender() bool { return i.stale }

// Invalidate forces a full redraw.
func (i *Input) Invalidate() {
	i.clear = true
	i.stale = true
}

// Output redraws the visible part of the text.
func (i *Input) Output(c *console.Console, v *viewport.Viewport) {
	inner := v.Inner()
	if w := max(inner.W-1, 1); w != i.width {
		i.width = w
		i.model.SetWidth(w)
		i.model.SetCursor(i.model.Position())
		i.clear = true
	}
	if i.clear {
		v.Clear(c)
		i.clear = false
	}
	v.Reset()
	v.WriteString(c, i.model.View())
	v.Reset()
	i.stale = false
}

// CursorPosition returns the screen cell of the text cursor.
func (i *Input) CursorPosition(v *viewport.Viewport) (x, y int) {
	inner := v.Inner()
	col := i.model.Position()
	if cur := i.model.Cursor(); cur != nil {
		col = cur.Position.X
	}
	return inner.X + min(col, inner.W-1), inner.Y
}

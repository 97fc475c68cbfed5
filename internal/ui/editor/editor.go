// Package editor is a small multi-line editor pane for request bodies. Its
// contents are drawn with JSON syntax highlighting.
package editor

import (
	"bytes"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

// Editor is the body editor pane.
type Editor struct {
	buf buffer

	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter

	// top is the first visible line, left the first visible rune column.
	top, left int
	stale     bool
}

// New creates an empty editor highlighting with the named chroma style.
func New(styleName string) *Editor {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	e := &Editor{
		buf:       newBuffer(""),
		lexer:     chroma.Coalesce(lexer),
		formatter: formatter,
		stale:     true,
	}
	e.SetStyle(styleName)
	return e
}

// SetStyle switches the chroma style. Unknown names use the fallback style.
func (e *Editor) SetStyle(name string) {
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}
	e.style = style
	e.stale = true
}

// Value returns the text.
func (e *Editor) Value() string { return e.buf.String() }

// SetValue replaces the text and moves the cursor to the start.
func (e *Editor) SetValue(s string) {
	e.buf.set(s)
	e.top, e.left = 0, 0
	e.stale = true
}

// OnEvent edits the text.
func (e *Editor) OnEvent(msg tea.Msg) error {
	changed := false
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		changed = e.handleKey(msg)
	case tea.PasteMsg:
		e.buf.insert(msg.Content)
		changed = msg.Content != ""
	}
	if changed {
		e.stale = true
	}
	return nil
}

func (e *Editor) handleKey(msg tea.KeyPressMsg) bool {
	switch msg.Code {
	case tea.KeyEnter:
		e.buf.splitLine()
		return true
	case tea.KeyBackspace:
		return e.buf.backspace()
	case tea.KeyDelete:
		return e.buf.deleteForward()
	case tea.KeyLeft:
		return e.buf.left()
	case tea.KeyRight:
		return e.buf.right()
	case tea.KeyUp:
		return e.buf.up()
	case tea.KeyDown:
		return e.buf.down()
	case tea.KeyHome:
		return e.buf.home()
	case tea.KeyEnd:
		return e.buf.end()
	case tea.KeyTab:
		e.buf.insert("\t")
		return true
	}
	if msg.Mod&(tea.ModCtrl|tea.ModAlt|tea.ModMeta|tea.ModSuper|tea.ModHyper) != 0 {
		return false
	}
	if msg.Text == "" {
		return false
	}
	e.buf.insert(msg.Text)
	return true
}

// NeedsReRender reports whether the text or cursor changed.
func (e *Editor) NeedsReRender() bool { return e.stale }

// Invalidate forces a full redraw.
func (e *Editor) Invalidate() { e.stale = true }

// Output redraws every visible line. Lines are cut at the right edge rather
// than wrapped.
func (e *Editor) Output(c *console.Console, v *viewport.Viewport) {
	inner := v.Inner()
	e.scrollTo(inner.W, inner.H)

	for row := 0; row < inner.H; row++ {
		v.MoveTo(c, 0, row)
		text := ""
		if i := e.top + row; i < len(e.buf.lines) {
			text = visible(e.buf.lines[i], e.left, inner.W)
		}
		if text != "" {
			v.WriteString(c, e.highlight(text))
		}
		c.ResetColor()
		if pad := inner.W - runewidth.StringWidth(text); pad > 0 {
			v.WriteString(c, strings.Repeat(" ", pad))
		}
	}
	v.Reset()
	e.stale = false
}

// scrollTo keeps the cursor inside a w by h window.
func (e *Editor) scrollTo(w, h int) {
	b := &e.buf
	if b.row < e.top {
		e.top = b.row
	}
	if b.row >= e.top+h {
		e.top = b.row - h + 1
	}
	if b.col < e.left {
		e.left = b.col
	}
	for e.left < b.col && runewidth.StringWidth(string(b.line()[e.left:b.col])) > w-1 {
		e.left++
	}
}

// visible returns the part of line starting at rune left that fits in width
// cells.
func visible(line []rune, left, width int) string {
	if left >= len(line) {
		return ""
	}
	return runewidth.Truncate(string(line[left:]), width, "")
}

func (e *Editor) highlight(text string) string {
	it, err := e.lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := e.formatter.Format(&buf, e.style, it); err != nil {
		return text
	}
	// The lexer appends a newline to the last token.
	return strings.ReplaceAll(buf.String(), "\n", "")
}

// CursorPosition returns the screen cell of the edit cursor.
func (e *Editor) CursorPosition(v *viewport.Viewport) (x, y int) {
	inner := v.Inner()
	b := &e.buf
	col := 0
	if e.left < b.col {
		col = runewidth.StringWidth(string(b.line()[e.left:b.col]))
	}
	x = inner.X + min(col, inner.W-1)
	y = inner.Y + max(0, min(b.row-e.top, inner.H-1))
	return x, y
}

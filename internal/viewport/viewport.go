// Package viewport implements bounded, optionally bordered drawing regions.
// A Viewport owns a cursor inside its inner rectangle and interprets a small
// subset of terminal escape sequences so that a child program's output can be
// relocated into it.
package viewport

import (
	"strings"

	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/theme"
)

const (
	boxTopLeft     = "┌"
	boxTopRight    = "┐"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxVertical    = "│"
	boxHorizontal  = "─"
)

// FocusState is the per-viewport focus state. Exclusivity across viewports is
// maintained by the layout, not here.
type FocusState int

const (
	Inactive FocusState = iota
	Selected
	Active
)

func (s FocusState) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Selected:
		return "selected"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Rect is a screen rectangle in zero-based cells.
type Rect struct {
	X, Y int
	W, H int
}

// Viewport is a rectangular sub-region of the screen.
type Viewport struct {
	outer  Rect
	inner  Rect
	border bool
	state  FocusState

	cx, cy int

	// synced is true while the terminal cursor is known to sit at (cx, cy).
	synced bool
	parser escapeParser
}

// New creates a viewport whose outer rectangle, border included, starts at
// (x, y) and spans w by h cells.
func New(x, y, w, h int, border bool) *Viewport {
	outer := Rect{X: x, Y: y, W: max(w, 0), H: max(h, 0)}
	inner := outer
	if border {
		inner = Rect{X: x + 1, Y: y + 1, W: w - 2, H: h - 2}
	}
	inner.W = max(inner.W, 1)
	inner.H = max(inner.H, 1)

	v := &Viewport{outer: outer, inner: inner, border: border}
	v.Reset()
	return v
}

// Outer returns the rectangle including the border.
func (v *Viewport) Outer() Rect { return v.outer }

// Inner returns the drawable rectangle inside the border.
func (v *Viewport) Inner() Rect { return v.inner }

// State returns the focus state.
func (v *Viewport) State() FocusState { return v.state }

// SetState sets the focus state.
func (v *Viewport) SetState(s FocusState) { v.state = s }

// Cursor returns the absolute screen position of the viewport cursor.
func (v *Viewport) Cursor() (x, y int) { return v.cx, v.cy }

// RelativeCursor returns the cursor relative to the inner origin.
func (v *Viewport) RelativeCursor() (col, row int) {
	return v.cx - v.inner.X, v.cy - v.inner.Y
}

// Reset moves the cursor to the inner origin without touching the screen.
// Any partially received escape sequence is discarded.
func (v *Viewport) Reset() {
	v.cx = v.inner.X
	v.cy = v.inner.Y
	v.synced = false
	v.parser.reset()
}

// MoveTo places the cursor at the inner-relative cell (col, row), clipped to
// the inner rectangle, and moves the terminal cursor there.
func (v *Viewport) MoveTo(c *console.Console, col, row int) {
	v.cx = clamp(v.inner.X+col, v.inner.X, v.inner.X+v.inner.W-1)
	v.cy = clamp(v.inner.Y+row, v.inner.Y, v.inner.Y+v.inner.H-1)
	v.sync(c)
}

// ToLineStart moves the cursor to column 0 of the current row.
func (v *Viewport) ToLineStart(c *console.Console) {
	v.cx = v.inner.X
	v.sync(c)
}

// NextLine moves the cursor to column 0 of the next row. On the last row the
// cursor stays on that row and NextLine reports false.
func (v *Viewport) NextLine(c *console.Console) bool {
	v.cx = v.inner.X
	if v.cy+1 >= v.inner.Y+v.inner.H {
		v.sync(c)
		return false
	}
	v.cy++
	v.sync(c)
	return true
}

func (v *Viewport) sync(c *console.Console) {
	c.MoveTo(v.cx, v.cy)
	v.synced = true
}

// RenderBorder draws the box around the outer rectangle, colored by focus
// state. It is a no-op for borderless viewports.
func (v *Viewport) RenderBorder(c *console.Console, colors theme.Colors) {
	if !v.border || v.outer.W < 2 || v.outer.H < 2 {
		return
	}

	switch v.state {
	case Active:
		c.SetForeground(colors.BorderActive)
	case Selected:
		c.SetForeground(colors.BorderSelected)
	default:
		c.SetForeground(colors.Border)
	}

	x, y, w, h := v.outer.X, v.outer.Y, v.outer.W, v.outer.H
	edge := strings.Repeat(boxHorizontal, w-2)

	c.MoveTo(x, y)
	c.Write(boxTopLeft + edge + boxTopRight)
	for row := y + 1; row < y+h-1; row++ {
		c.MoveTo(x, row)
		c.Write(boxVertical)
		c.MoveTo(x+w-1, row)
		c.Write(boxVertical)
	}
	c.MoveTo(x, y+h-1)
	c.Write(boxBottomLeft + edge + boxBottomRight)

	c.ResetColor()
	v.synced = false
}

// Clear blanks the inner rectangle and resets the cursor.
func (v *Viewport) Clear(c *console.Console) {
	blank := strings.Repeat(" ", v.inner.W)
	for row := 0; row < v.inner.H; row++ {
		c.MoveTo(v.inner.X, v.inner.Y+row)
		c.Write(blank)
	}
	v.Reset()
}

// WriteString is Write for strings.
func (v *Viewport) WriteString(c *console.Console, s string) {
	v.Write(c, []byte(s))
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

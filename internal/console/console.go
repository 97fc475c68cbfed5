// Package console is the output sink every component draws through. Drawing
// calls only queue bytes; nothing reaches the terminal until Flush.
package console

import (
	"bytes"
	"image/color"
	"io"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Console queues drawing primitives for the terminal behind out.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	buf bytes.Buffer

	cursorVisible bool
}

// New returns a console that commits to out on Flush.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) queue(s string) {
	c.mu.Lock()
	c.buf.WriteString(s)
	c.mu.Unlock()
}

// MoveTo queues a cursor move to the zero-based cell (x, y).
func (c *Console) MoveTo(x, y int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	c.queue(ansi.CursorPosition(x+1, y+1))
}

// SetForeground queues a foreground color change. A nil color selects the
// terminal default.
func (c *Console) SetForeground(fg color.Color) {
	c.queue(ansi.Style{}.ForegroundColor(fg).String())
}

// SetBackground queues a background color change. A nil color selects the
// terminal default.
func (c *Console) SetBackground(bg color.Color) {
	c.queue(ansi.Style{}.BackgroundColor(bg).String())
}

// SetColors queues both colors.
func (c *Console) SetColors(fg, bg color.Color) {
	c.SetForeground(fg)
	c.SetBackground(bg)
}

// ResetColor queues an SGR reset.
func (c *Console) ResetColor() {
	c.queue(ansi.ResetStyle)
}

// Write queues text at the current terminal cursor.
func (c *Console) Write(s string) {
	c.queue(s)
}

// WriteRaw queues bytes verbatim, escape sequences included.
func (c *Console) WriteRaw(p []byte) {
	c.mu.Lock()
	c.buf.Write(p)
	c.mu.Unlock()
}

// HideCursor queues a cursor hide.
func (c *Console) HideCursor() {
	c.mu.Lock()
	c.cursorVisible = false
	c.mu.Unlock()
	c.queue(ansi.HideCursor)
}

// ShowCursor queues a cursor show.
func (c *Console) ShowCursor() {
	c.mu.Lock()
	c.cursorVisible = true
	c.mu.Unlock()
	c.queue(ansi.ShowCursor)
}

// CursorVisible reports whether the last queued visibility change was a show.
func (c *Console) CursorVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursorVisible
}

// Clear queues an erase of the whole screen.
func (c *Console) Clear() {
	c.queue(ansi.EraseEntireScreen)
}

// Pending returns the number of queued bytes not yet flushed.
func (c *Console) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Len()
}

// Flush commits everything queued in a single write.
func (c *Console) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf.Len() == 0 {
		return nil
	}
	_, err := c.out.Write(c.buf.Bytes())
	c.buf.Reset()
	return err
}

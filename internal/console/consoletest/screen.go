// Package consoletest replays console output onto a cell grid for tests.
package consoletest

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/reqtty/internal/console"
)

// Screen is a grid of cells written by replayed output. It follows cursor
// position sequences and skips every other escape sequence.
type Screen struct {
	cells map[[2]int]rune
	x, y  int
}

// New returns a console writing into a buffer, and the buffer.
func New() (*console.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return console.New(&out), &out
}

// Replay builds a Screen from raw output.
func Replay(out string) *Screen {
	s := &Screen{cells: map[[2]int]rune{}}
	s.Apply(out)
	return s
}

// Apply replays more output onto s.
func (s *Screen) Apply(out string) {
	for i := 0; i < len(out); {
		if out[i] == 0x1b {
			i = s.escape(out, i)
			continue
		}
		r, size := utf8.DecodeRuneInString(out[i:])
		s.cells[[2]int{s.x, s.y}] = r
		s.x += max(runewidth.RuneWidth(r), 1)
		i += size
	}
}

func (s *Screen) escape(out string, i int) int {
	if i+1 >= len(out) || out[i+1] != '[' {
		return i + 2
	}
	j := i + 2
	for j < len(out) && (out[j] < 0x40 || out[j] > 0x7e) {
		j++
	}
	if j < len(out) && out[j] == 'H' {
		row, col := 1, 1
		parts := strings.Split(out[i+2:j], ";")
		if n, err := strconv.Atoi(parts[0]); err == nil {
			row = n
		}
		if len(parts) > 1 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				col = n
			}
		}
		s.x, s.y = col-1, row-1
	}
	return j + 1
}

// Row returns w cells of row y starting at column x, right-trimmed.
func (s *Screen) Row(x, y, w int) string {
	var b strings.Builder
	for col := x; col < x+w; col++ {
		if r, ok := s.cells[[2]int{col, y}]; ok {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Flush flushes c and replays everything written to out so far.
func Flush(c *console.Console, out *bytes.Buffer) (*Screen, error) {
	if err := c.Flush(); err != nil {
		return nil, err
	}
	return Replay(out.String()), nil
}

package editor

import "strings"

// buffer is a list of lines with a cursor. Columns count runes.
type buffer struct {
	lines    [][]rune
	row, col int
}

func newBuffer(text string) buffer {
	b := buffer{}
	b.set(text)
	return b
}

func (b *buffer) set(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	b.lines = make([][]rune, len(parts))
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
	b.row, b.col = 0, 0
}

func (b *buffer) String() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (b *buffer) line() []rune { return b.lines[b.row] }

// insert adds text at the cursor. Newlines split the line.
func (b *buffer) insert(text string) {
	for _, r := range strings.ReplaceAll(text, "\r\n", "\n") {
		switch r {
		case '\n', '\r':
			b.splitLine()
		case '\t':
			b.insertRune(' ')
			b.insertRune(' ')
		default:
			if r >= 0x20 && r != 0x7f {
				b.insertRune(r)
			}
		}
	}
}

func (b *buffer) insertRune(r rune) {
	l := b.line()
	l = append(l[:b.col], append([]rune{r}, l[b.col:]...)...)
	b.lines[b.row] = l
	b.col++
}

// splitLine breaks the current line at the cursor.
func (b *buffer) splitLine() {
	l := b.line()
	head := append([]rune(nil), l[:b.col]...)
	tail := append([]rune(nil), l[b.col:]...)
	b.lines[b.row] = head
	b.lines = append(b.lines[:b.row+1], append([][]rune{tail}, b.lines[b.row+1:]...)...)
	b.row++
	b.col = 0
}

// backspace deletes the rune before the cursor, joining with the previous
// line at column 0.
func (b *buffer) backspace() bool {
	if b.col > 0 {
		l := b.line()
		b.lines[b.row] = append(l[:b.col-1], l[b.col:]...)
		b.col--
		return true
	}
	if b.row == 0 {
		return false
	}
	prev := b.lines[b.row-1]
	b.col = len(prev)
	b.lines[b.row-1] = append(prev, b.line()...)
	b.lines = append(b.lines[:b.row], b.lines[b.row+1:]...)
	b.row--
	return true
}

// deleteForward deletes the rune under the cursor, joining with the next
// line at the end of a line.
func (b *buffer) deleteForward() bool {
	l := b.line()
	if b.col < len(l) {
		b.lines[b.row] = append(l[:b.col], l[b.col+1:]...)
		return true
	}
	if b.row+1 >= len(b.lines) {
		return false
	}
	b.lines[b.row] = append(l, b.lines[b.row+1]...)
	b.lines = append(b.lines[:b.row+1], b.lines[b.row+2:]...)
	return true
}

func (b *buffer) left() bool {
	switch {
	case b.col > 0:
		b.col--
	case b.row > 0:
		b.row--
		b.col = len(b.line())
	default:
		return false
	}
	return true
}

func (b *buffer) right() bool {
	switch {
	case b.col < len(b.line()):
		b.col++
	case b.row+1 < len(b.lines):
		b.row++
		b.col = 0
	default:
		return false
	}
	return true
}

func (b *buffer) up() bool {
	if b.row == 0 {
		return false
	}
	b.row--
	b.col = min(b.col, len(b.line()))
	return true
}

func (b *buffer) down() bool {
	if b.row+1 >= len(b.lines) {
		return false
	}
	b.row++
	b.col = min(b.col, len(b.line()))
	return true
}

func (b *buffer) home() bool {
	moved := b.col != 0
	b.col = 0
	return moved
}

func (b *buffer) end() bool {
	moved := b.col != len(b.line())
	b.col = len(b.line())
	return moved
}

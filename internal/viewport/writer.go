package viewport

import (
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/reqtty/internal/console"
)

// maxSequenceLen bounds an escape sequence; longer ones are dropped.
const maxSequenceLen = 256

type parseState int

const (
	stateNormal       parseState = iota
	stateEscape                  // after ESC
	stateCSI                     // after ESC [
	stateString                  // OSC, DCS, APC, PM, SOS body
	stateStringEscape            // ESC inside a string body, expecting '\'
)

// escapeParser holds parse state across Write calls, so sequences and runes
// split between PTY reads are still recognized.
type escapeParser struct {
	state parseState
	seq   []byte
	rune  []byte
}

func (p *escapeParser) reset() {
	p.state = stateNormal
	p.seq = p.seq[:0]
	p.rune = p.rune[:0]
}

func (p *escapeParser) begin(b byte) {
	p.state = stateEscape
	p.seq = append(p.seq[:0], b)
}

func (p *escapeParser) end() {
	p.state = stateNormal
	p.seq = p.seq[:0]
}

// Write interprets p at the viewport cursor and queues the result on c.
//
// CR returns to the line start and LF advances to the next line. A cursor
// position sequence (ESC [ row ; col H) is translated into viewport
// coordinates; every other escape sequence is passed through unchanged.
// Printable text is written at the cursor and wraps at the right edge. Once a
// line advance would leave the bottom row, the rest of p is discarded.
//
// Other viewports share the terminal cursor, so each call repositions it
// before the first byte that draws.
func (v *Viewport) Write(c *console.Console, p []byte) {
	v.synced = false
	for _, b := range p {
		if !v.step(c, b) {
			return
		}
	}
}

// step consumes one byte. It returns false when the cursor ran off the
// bottom and the rest of the current write must be discarded.
func (v *Viewport) step(c *console.Console, b byte) bool {
	ps := &v.parser
	switch ps.state {
	case stateEscape:
		ps.seq = append(ps.seq, b)
		switch {
		case b == '[':
			ps.state = stateCSI
		case b == ']' || b == 'P' || b == '_' || b == '^' || b == 'X':
			ps.state = stateString
		case b == ansi.ESC:
			ps.begin(b)
		case b >= 0x20 && b <= 0x2f:
			// intermediate
		case b >= 0x30 && b <= 0x7e:
			v.passThrough(c)
		default:
			ps.end()
		}
		v.checkSequenceLen()
		return true

	case stateCSI:
		if b == ansi.ESC {
			ps.begin(b)
			return true
		}
		ps.seq = append(ps.seq, b)
		if b >= 0x40 && b <= 0x7e {
			if b == 'H' {
				v.cursorPosition(c)
				ps.end()
			} else {
				v.passThrough(c)
			}
			return true
		}
		v.checkSequenceLen()
		return true

	case stateString:
		ps.seq = append(ps.seq, b)
		switch b {
		case ansi.BEL:
			v.passThrough(c)
		case ansi.ESC:
			ps.state = stateStringEscape
		}
		v.checkSequenceLen()
		return true

	case stateStringEscape:
		ps.seq = append(ps.seq, b)
		if b == '\\' {
			v.passThrough(c)
		} else {
			ps.state = stateString
		}
		v.checkSequenceLen()
		return true
	}

	if len(ps.rune) > 0 {
		if !utf8.RuneStart(b) {
			ps.rune = append(ps.rune, b)
			return v.flushRune(c)
		}
		// Truncated rune; drop it and handle b on its own.
		ps.rune = ps.rune[:0]
	}

	switch {
	case b == ansi.CR:
		v.ToLineStart(c)
	case b == ansi.LF:
		return v.NextLine(c)
	case b == ansi.ESC:
		ps.begin(b)
	case b == ansi.BS:
		if v.cx > v.inner.X {
			v.cx--
			v.sync(c)
		}
	case b == ansi.HT:
		col := v.cx - v.inner.X
		v.cx = min(v.inner.X+(col/8+1)*8, v.inner.X+v.inner.W-1)
		v.sync(c)
	case b < 0x20 || b == ansi.DEL:
		// Other C0 controls have no cell to occupy.
	case b < utf8.RuneSelf:
		return v.put(c, rune(b), []byte{b})
	case utf8.RuneStart(b):
		ps.rune = append(ps.rune, b)
		return v.flushRune(c)
	}
	return true
}

func (v *Viewport) flushRune(c *console.Console) bool {
	ps := &v.parser
	if !utf8.FullRune(ps.rune) {
		return true
	}
	r, size := utf8.DecodeRune(ps.rune)
	raw := append([]byte(nil), ps.rune[:size]...)
	ps.rune = ps.rune[:0]
	if r == utf8.RuneError && size <= 1 {
		return true
	}
	return v.put(c, r, raw)
}

// put writes one rune at the cursor and advances it, wrapping at the right
// edge.
func (v *Viewport) put(c *console.Console, r rune, raw []byte) bool {
	right := v.inner.X + v.inner.W
	w := runewidth.RuneWidth(r)
	if w > v.inner.W {
		return true
	}
	if w > 0 && v.cx+w > right {
		if !v.NextLine(c) {
			return false
		}
	}
	if !v.synced {
		v.sync(c)
	}
	c.WriteRaw(raw)
	v.cx += w
	if v.cx >= right {
		return v.NextLine(c)
	}
	return true
}

// cursorPosition handles ESC [ row ; col H. Empty or zero fields mean 1.
// Anything that is not two decimal fields is dropped.
func (v *Viewport) cursorPosition(c *console.Console) {
	params := v.parser.seq[2 : len(v.parser.seq)-1]
	row, col := 1, 1
	field := 0
	n, seen := 0, false
	for i := 0; i <= len(params); i++ {
		if i == len(params) || params[i] == ';' {
			if seen && n > 0 {
				if field == 0 {
					row = n
				} else {
					col = n
				}
			}
			field++
			if field > 2 {
				return
			}
			n, seen = 0, false
			continue
		}
		d := params[i]
		if d < '0' || d > '9' {
			return
		}
		n = n*10 + int(d-'0')
		if n > 1<<16 {
			n = 1 << 16
		}
		seen = true
	}
	v.MoveTo(c, col-1, row-1)
}

func (v *Viewport) passThrough(c *console.Console) {
	if !v.synced {
		v.sync(c)
	}
	c.WriteRaw(v.parser.seq)
	v.parser.end()
}

func (v *Viewport) checkSequenceLen() {
	if len(v.parser.seq) > maxSequenceLen {
		v.parser.end()
	}
}

// Package keys translates key presses into the bytes a program running in a
// pseudoterminal expects.
package keys

import (
	"strings"
	"unicode"

	tea "charm.land/bubbletea/v2"
)

// ToBytes converts a key press message to bytes for the child process.
// Keys without a translation yield nil.
func ToBytes(msg tea.KeyPressMsg) []byte {
	key := msg.Key()

	switch key.Code {
	case tea.KeyEscape:
		return []byte{0x1b}
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyBackspace:
		return []byte{0x7f}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeyUp:
		return []byte{0x1b, '[', 'A'}
	case tea.KeyDown:
		return []byte{0x1b, '[', 'B'}
	case tea.KeyRight:
		return []byte{0x1b, '[', 'C'}
	case tea.KeyLeft:
		return []byte{0x1b, '[', 'D'}
	}

	// ctrl+letter maps onto C0 so line editors like nano can save and exit.
	if key.Mod&tea.ModCtrl != 0 {
		if key.Code >= 'a' && key.Code <= 'z' {
			return []byte{byte(key.Code-'a') + 1}
		}
		return nil
	}
	if key.Mod&(tea.ModAlt|tea.ModMeta|tea.ModSuper|tea.ModHyper) != 0 {
		return nil
	}

	text := key.Text
	if text == "" && key.Code != 0 && unicode.IsPrint(key.Code) {
		text = string(key.Code)
	}
	if text == "" {
		return nil
	}
	if key.Mod&tea.ModShift != 0 {
		text = strings.ToUpper(text)
	}
	return []byte(text)
}

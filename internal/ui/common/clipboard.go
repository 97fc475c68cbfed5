package common

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard backends. Tests replace these.
var (
	writeClipboard = clipboard.WriteAll
	readClipboard  = clipboard.ReadAll
	pbcopy         = func(text string) error {
		cmd := exec.Command("pbcopy")
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
)

// CopyToClipboard writes text to the system clipboard, falling back to
// pbcopy on macOS.
func CopyToClipboard(text string) error {
	// pbcopy is more reliable than the library inside macOS terminals.
	if runtime.GOOS == "darwin" {
		if err := pbcopy(text); err == nil {
			return nil
		}
	}
	return writeClipboard(text)
}

// PasteFromClipboard returns the clipboard text with line breaks removed, for
// pasting into single-line fields.
func PasteFromClipboard() (string, error) {
	text, err := readClipboard()
	if err != nil {
		return "", err
	}
	return SingleLine(text), nil
}

// SingleLine drops CR and LF from s.
func SingleLine(s string) string {
	return strings.NewReplacer("\r\n", "", "\r", "", "\n", "").Replace(s)
}

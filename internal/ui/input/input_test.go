package input

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/console/consoletest"
	"github.com/andyrewlee/reqtty/internal/keymap"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

func typeText(t *testing.T, in *Input, s string) {
	t.Helper()
	for _, r := range s {
		if err := in.OnEvent(tea.KeyPressMsg{Code: r, Text: string(r)}); err != nil {
			t.Fatalf("OnEvent(%q) error = %v", r, err)
		}
	}
}

func newFocusedInput() *Input {
	in := New(keymap.New(config.KeyMapConfig{}))
	in.Focus()
	return in
}

func TestTypingAndBackspace(t *testing.T) {
	in := newFocusedInput()
	typeText(t, in, "http://x")
	_ = in.OnEvent(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if got := in.Value(); got != "http://" {
		t.Fatalf("Value() = %q", got)
	}
	if !in.clear {
		t.Fatal("deleting should schedule a clear")
	}
}

func TestEnterIsIgnored(t *testing.T) {
	in := newFocusedInput()
	typeText(t, in, "ab")
	c, out := consoletest.New()
	in.Output(c, viewport.New(0, 0, 20, 3, true))
	out.Reset()

	if err := in.OnEvent(tea.KeyPressMsg{Code: tea.KeyEnter}); err != nil {
		t.Fatal(err)
	}
	if in.Value() != "ab" || in.NeedsReRender() {
		t.Fatalf("Enter changed state: value=%q stale=%v", in.Value(), in.NeedsReRender())
	}
}

func TestBlurredInputIgnoresKeys(t *testing.T) {
	in := New(keymap.New(config.KeyMapConfig{}))
	typeText(t, in, "abc")
	if in.Value() != "" {
		t.Fatalf("Value() = %q, want empty", in.Value())
	}
}

func TestPasteKeyReadsClipboard(t *testing.T) {
	orig := pasteFromClipboard
	t.Cleanup(func() { pasteFromClipboard = orig })
	pasteFromClipboard = func() (string, error) { return "/users", nil }

	in := newFocusedInput()
	typeText(t, in, "http://api")
	if err := in.OnEvent(tea.KeyPressMsg{Code: 'v', Mod: tea.ModCtrl}); err != nil {
		t.Fatal(err)
	}
	if got := in.Value(); got != "http://api/users" {
		t.Fatalf("Value() = %q", got)
	}
}

func TestPasteKeyClipboardErrorIsNotFatal(t *testing.T) {
	orig := pasteFromClipboard
	t.Cleanup(func() { pasteFromClipboard = orig })
	pasteFromClipboard = func() (string, error) { return "", errors.New("no clipboard") }

	in := newFocusedInput()
	if err := in.OnEvent(tea.KeyPressMsg{Code: 'v', Mod: tea.ModCtrl}); err != nil {
		t.Fatalf("OnEvent() error = %v", err)
	}
}

func TestBracketedPasteDropsNewlines(t *testing.T) {
	in := newFocusedInput()
	_ = in.OnEvent(tea.PasteMsg{Content: "http://a\n/b"})
	if got := in.Value(); got != "http://a/b" {
		t.Fatalf("Value() = %q", got)
	}
}

func TestOutputAndCursor(t *testing.T) {
	in := newFocusedInput()
	in.SetValue("http://google.com")
	v := viewport.New(10, 0, 30, 3, true)
	c, out := consoletest.New()

	in.Output(c, v)
	if in.NeedsReRender() {
		t.Fatal("Output should clear the re-render flag")
	}
	screen, err := consoletest.Flush(c, out)
	if err != nil {
		t.Fatal(err)
	}
	if got := screen.Row(11, 1, 28); got != "http://google.com" {
		t.Fatalf("row = %q", got)
	}

	x, y := in.CursorPosition(v)
	if x != 11+len("http://google.com") || y != 1 {
		t.Fatalf("CursorPosition() = (%d, %d)", x, y)
	}
}

func TestShorterValueClearsOldText(t *testing.T) {
	in := newFocusedInput()
	v := viewport.New(0, 0, 30, 3, true)
	c, out := consoletest.New()

	in.SetValue("http://a-very-long-host.example")
	in.Output(c, v)
	in.SetValue("http://b")
	in.Output(c, v)

	screen, err := consoletest.Flush(c, out)
	if err != nil {
		t.Fatal(err)
	}
	if got := screen.Row(1, 1, 28); got != "http://b" {
		t.Fatalf("row = %q", got)
	}
}

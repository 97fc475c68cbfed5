package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed tty") }

func TestConsoleQueuesUntilFlush(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	c.MoveTo(4, 2)
	c.Write("hello")
	c.HideCursor()

	if out.Len() != 0 {
		t.Fatalf("expected nothing written before Flush, got %q", out.String())
	}
	if c.Pending() == 0 {
		t.Fatal("expected queued bytes")
	}

	if err := c.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	want := "\x1b[3;5H" + "hello" + ansi.HideCursor
	if out.String() != want {
		t.Fatalf("flushed %q, want %q", out.String(), want)
	}
	if c.Pending() != 0 {
		t.Fatalf("expected empty queue after Flush, got %d bytes", c.Pending())
	}
}

func TestConsoleFlushEmptyIsNoop(t *testing.T) {
	c := New(failingWriter{})
	if err := c.Flush(); err != nil {
		t.Fatalf("empty Flush should not touch the writer: %v", err)
	}
}

func TestConsoleFlushReportsWriteError(t *testing.T) {
	c := New(failingWriter{})
	c.Write("x")
	if err := c.Flush(); err == nil {
		t.Fatal("expected write error")
	}
}

func TestConsoleMoveToClampsNegative(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	c.MoveTo(-3, -1)
	_ = c.Flush()
	if out.String() != ansi.CursorHomePosition {
		t.Fatalf("got %q, want home position", out.String())
	}
}

func TestConsoleColorsAndCursorState(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	c.SetColors(ansi.Black, ansi.White)
	c.ResetColor()
	_ = c.Flush()
	if !strings.HasSuffix(out.String(), ansi.ResetStyle) {
		t.Fatalf("expected reset after colors, got %q", out.String())
	}
	out.Reset()

	c.ShowCursor()
	if !c.CursorVisible() {
		t.Fatal("expected cursor visible")
	}
	c.HideCursor()
	if c.CursorVisible() {
		t.Fatal("expected cursor hidden")
	}
	_ = c.Flush()
	if !strings.HasSuffix(out.String(), ansi.HideCursor) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func stubRawMode(t *testing.T, rawErr error) *[]string {
	t.Helper()
	calls := &[]string{}
	origMake, origRestore := makeRaw, restore
	makeRaw = func(fd uintptr) (*term.State, error) {
		*calls = append(*calls, "raw")
		if rawErr != nil {
			return nil, rawErr
		}
		return &term.State{}, nil
	}
	restore = func(fd uintptr, st *term.State) error {
		*calls = append(*calls, "restore")
		return nil
	}
	t.Cleanup(func() {
		makeRaw, restore = origMake, origRestore
	})
	return calls
}

func TestEnterAndReleaseFullScreen(t *testing.T) {
	calls := stubRawMode(t, nil)
	var out bytes.Buffer
	c := New(&out)

	s, err := c.EnterFullScreen(0)
	if err != nil {
		t.Fatalf("EnterFullScreen failed: %v", err)
	}
	entered := out.String()
	if !strings.HasPrefix(entered, ansi.SetModeAltScreenSaveCursor) {
		t.Fatalf("expected alt screen first, got %q", entered)
	}
	if !strings.Contains(entered, ansi.HideCursor) {
		t.Fatalf("expected cursor hidden, got %q", entered)
	}
	if !strings.Contains(entered, ansi.SetModeBracketedPaste) {
		t.Fatalf("expected bracketed paste on, got %q", entered)
	}

	out.Reset()
	if err := s.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	released := out.String()
	if !strings.Contains(released, ansi.ResetModeBracketedPaste) {
		t.Fatalf("expected bracketed paste off, got %q", released)
	}
	show := strings.Index(released, ansi.ShowCursor)
	leave := strings.Index(released, ansi.ResetModeAltScreenSaveCursor)
	if show < 0 || leave < 0 || show > leave {
		t.Fatalf("expected show cursor before leaving alt screen, got %q", released)
	}
	if strings.Join(*calls, ",") != "raw,restore" {
		t.Fatalf("raw mode calls = %v", *calls)
	}

	out.Reset()
	if err := s.Release(); err != nil {
		t.Fatalf("second Release failed: %v", err)
	}
	if out.Len() != 0 || len(*calls) != 2 {
		t.Fatalf("second Release should be a no-op, wrote %q calls %v", out.String(), *calls)
	}
}

func TestEnterFullScreenRawModeFailureLeavesAltScreen(t *testing.T) {
	stubRawMode(t, errors.New("not a tty"))
	var out bytes.Buffer
	c := New(&out)

	if _, err := c.EnterFullScreen(0); err == nil {
		t.Fatal("expected raw mode error")
	}
	if !strings.HasSuffix(out.String(), ansi.ResetModeAltScreenSaveCursor) {
		t.Fatalf("expected alt screen left after failure, got %q", out.String())
	}
}

func TestRunFullScreenRestoresOnError(t *testing.T) {
	calls := stubRawMode(t, nil)
	var out bytes.Buffer
	c := New(&out)

	wantErr := errors.New("loop failed")
	err := c.RunFullScreen(0, func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("RunFullScreen error = %v, want %v", err, wantErr)
	}
	if !strings.HasSuffix(out.String(), ansi.ResetModeAltScreenSaveCursor) {
		t.Fatalf("terminal not restored: %q", out.String())
	}
	if len(*calls) != 2 {
		t.Fatalf("raw mode calls = %v", *calls)
	}
}

func TestRunFullScreenRestoresOnPanic(t *testing.T) {
	calls := stubRawMode(t, nil)
	var out bytes.Buffer
	c := New(&out)

	defer func() {
		r := recover()
		if r != "boom" {
			t.Fatalf("expected panic to be re-raised, got %v", r)
		}
		if !strings.HasSuffix(out.String(), ansi.ResetModeAltScreenSaveCursor) {
			t.Fatalf("terminal not restored before re-panic: %q", out.String())
		}
		if len(*calls) != 2 {
			t.Fatalf("raw mode calls = %v", *calls)
		}
	}()

	_ = c.RunFullScreen(0, func() error { panic("boom") })
}

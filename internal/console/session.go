package console

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// Test hooks for raw mode handling.
var (
	makeRaw = term.MakeRaw
	restore = term.Restore
)

// Session is a full-screen, raw-mode hold on the terminal. Release undoes
// everything EnterFullScreen did and is safe to call more than once.
type Session struct {
	console *Console
	fd      uintptr
	state   *term.State

	once sync.Once
	err  error
}

// EnterFullScreen switches to the alternate screen, puts the terminal behind
// fd into raw mode, hides the cursor and turns on bracketed paste. The
// returned session must be released on every exit path; prefer
// RunFullScreen, which guarantees it.
func (c *Console) EnterFullScreen(fd uintptr) (*Session, error) {
	c.queue(ansi.SetModeAltScreenSaveCursor)
	if err := c.Flush(); err != nil {
		return nil, fmt.Errorf("enter alternate screen: %w", err)
	}

	state, err := makeRaw(fd)
	if err != nil {
		c.queue(ansi.ResetModeAltScreenSaveCursor)
		_ = c.Flush()
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}

	c.HideCursor()
	c.queue(ansi.SetModeBracketedPaste)
	c.Clear()
	if err := c.Flush(); err != nil {
		s := &Session{console: c, fd: fd, state: state}
		return nil, errors.Join(fmt.Errorf("hide cursor: %w", err), s.Release())
	}
	return &Session{console: c, fd: fd, state: state}, nil
}

// Release turns off bracketed paste, shows the cursor, leaves raw mode and
// leaves the alternate screen, in that order. Every step is attempted even
// if an earlier one fails.
func (s *Session) Release() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		var errs []error
		s.console.ResetColor()
		s.console.queue(ansi.ResetModeBracketedPaste)
		s.console.ShowCursor()
		if err := s.console.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("show cursor: %w", err))
		}
		if s.state != nil {
			if err := restore(s.fd, s.state); err != nil {
				errs = append(errs, fmt.Errorf("disable raw mode: %w", err))
			}
		}
		s.console.queue(ansi.ResetModeAltScreenSaveCursor)
		if err := s.console.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("leave alternate screen: %w", err))
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

// RunFullScreen runs fn inside a full-screen session. The terminal is
// restored before RunFullScreen returns, whether fn returns an error or
// panics; a panic is re-raised after the restore so its trace lands on a
// usable terminal.
func (c *Console) RunFullScreen(fd uintptr, fn func() error) (err error) {
	session, err := c.EnterFullScreen(fd)
	if err != nil {
		return err
	}
	defer func() {
		releaseErr := session.Release()
		if r := recover(); r != nil {
			panic(r)
		}
		if err == nil {
			err = releaseErr
		}
	}()
	return fn()
}

// Size returns the width and height of the terminal behind fd.
func Size(fd uintptr) (width, height int, err error) {
	return term.GetSize(fd)
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(fd)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/perf"
	"github.com/andyrewlee/reqtty/internal/ui/layout"
	"github.com/andyrewlee/reqtty/internal/ui/terminal"
)

// Run drives the loop until the user quits, ctx is done, or the terminal can
// no longer be written. Each tick waits at most the poll interval for one
// input message, dispatches it, and renders once.
func (a *App) Run(ctx context.Context, msgs <-chan tea.Msg) error {
	poll := a.cfg.PollInterval
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	timer := time.NewTimer(poll)
	defer timer.Stop()

	if err := a.render(); err != nil {
		return err
	}
	for {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(poll)

		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if a.handle(msg) {
				return nil
			}
		case <-timer.C:
		}

		a.housekeeping()
		if err := a.render(); err != nil {
			return err
		}
	}
}

// handle routes one message and reports whether the app should quit.
func (a *App) handle(msg tea.Msg) bool {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		logging.Debug("ignoring resize to %dx%d", size.Width, size.Height)
		return false
	}

	defer perf.Time("dispatch")()
	navigating := a.layout.NavigationMode()
	t, err := a.layout.Dispatch(msg)
	if err != nil {
		a.reportPaneError(err)
		return false
	}

	switch t.Kind {
	case layout.TransitionQuit:
		return true
	case layout.TransitionDeactivate:
		a.writeBack(t.From)
	case layout.TransitionNone:
		if km, ok := msg.(tea.KeyPressMsg); ok && navigating {
			a.handleNavigationKey(km)
		}
	}
	return false
}

// handleNavigationKey covers the shortcuts that work without entering a pane.
func (a *App) handleNavigationKey(msg tea.KeyPressMsg) {
	switch {
	case key.Matches(msg, a.keymap.CopyURL):
		if i := a.list.Selected(); i >= 0 {
			if err := a.copyURL(i); err != nil {
				logging.Warn("copy url: %v", err)
			}
		}
	case key.Matches(msg, a.keymap.ToggleTheme):
		a.toggleTheme()
	}
}

func (a *App) reportPaneError(err error) {
	logging.Error("dispatch: %v", err)
	if errors.Is(err, terminal.ErrPaneBroken) {
		a.hints.SetStatus("request pane: child process gone")
		return
	}
	a.hints.SetStatus(fmt.Sprintf("error: %v", err))
}

// housekeeping applies work signalled from other goroutines.
func (a *App) housekeeping() {
	if a.reloadPending.Swap(false) {
		a.reloadRequests()
	}
	if name := a.panicked.Swap(nil); name != nil {
		msg := "internal error in " + *name
		if path := logging.GetLogPath(); path != "" {
			msg += ", see " + path
		}
		a.hints.SetStatus(msg)
	}
	if a.term != nil && !a.exitNoted && a.term.Exited() {
		a.exitNoted = true
		a.hints.SetStatus(fmt.Sprintf("%s exited", a.cfg.Command))
	}
}

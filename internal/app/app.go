// Package app runs the dashboard: it polls input, routes it through the
// focus layout and redraws whatever panes went stale.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/data"
	"github.com/andyrewlee/reqtty/internal/keymap"
	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/pane"
	"github.com/andyrewlee/reqtty/internal/perf"
	"github.com/andyrewlee/reqtty/internal/safego"
	"github.com/andyrewlee/reqtty/internal/theme"
	"github.com/andyrewlee/reqtty/internal/ui/common"
	"github.com/andyrewlee/reqtty/internal/ui/editor"
	"github.com/andyrewlee/reqtty/internal/ui/hints"
	"github.com/andyrewlee/reqtty/internal/ui/input"
	"github.com/andyrewlee/reqtty/internal/ui/layout"
	"github.com/andyrewlee/reqtty/internal/ui/list"
	"github.com/andyrewlee/reqtty/internal/ui/terminal"
)

var copyToClipboard = common.CopyToClipboard

// Options configures an App.
type Options struct {
	Config  *config.Config
	Store   *data.Store
	Console *console.Console
	Width   int
	Height  int
	// RequestPane replaces the pane normally built for the request region.
	RequestPane pane.Pane
}

// App is the dashboard state.
type App struct {
	cfg     *config.Config
	store   *data.Store
	console *console.Console
	layout  *layout.Layout
	keymap  keymap.KeyMap
	theme   theme.Theme

	list    *list.List
	input   *input.Input
	editor  *editor.Editor
	term    *terminal.Pane
	request pane.Pane
	hints   *hints.Hints

	watcher       *data.Watcher
	reloadPending atomic.Bool
	exitNoted     bool
	panicked      atomic.Pointer[string]

	cursorX, cursorY int

	shutdownOnce sync.Once
}

// New builds the layout and its panes. The request store must already be
// loaded. Failing to start the hosted child process is fatal.
func New(opts Options) (*App, error) {
	if opts.Config == nil || opts.Store == nil || opts.Console == nil {
		return nil, errors.New("app: config, store and console are required")
	}
	cfg := opts.Config
	a := &App{
		cfg:     cfg,
		store:   opts.Store,
		console: opts.Console,
		keymap:  keymap.New(cfg.KeyMap),
		theme:   theme.ByID(cfg.UI.Theme),
	}
	a.layout = layout.New(opts.Width, opts.Height, cfg.ListWidth, a.keymap)

	a.list = list.New(list.Options{
		KeyMap:   a.keymap,
		Colors:   a.theme.Colors,
		OnSelect: a.loadSelection,
		OnCopy:   a.copyURL,
	})
	a.input = input.New(a.keymap)
	a.hints = hints.New(a.keymap, a.theme.Colors)

	request, err := a.newRequestPane(opts.RequestPane)
	if err != nil {
		return nil, err
	}
	a.request = request

	a.layout.Bind(layout.RegionList, a.list)
	a.layout.Bind(layout.RegionInput, a.input)
	a.layout.Bind(layout.RegionRequest, a.request)
	a.layout.Bind(layout.RegionHints, a.hints)

	a.list.SetItems(a.store.Titles())
	a.loadSelection(a.list.Selected())
	safego.SetPanicHandler(func(name string, _ any, _ []byte) {
		a.panicked.Store(&name)
	})
	return a, nil
}

func (a *App) newRequestPane(override pane.Pane) (pane.Pane, error) {
	if override != nil {
		return override, nil
	}
	if a.cfg.RequestPane == config.RequestPaneEditor {
		a.editor = editor.New(a.theme.Syntax)
		return a.editor, nil
	}

	cols, rows := a.layout.RequestSize()
	dir, _ := os.Getwd()
	term, err := terminal.New(terminal.Options{
		Command: a.cfg.Command,
		Dir:     dir,
		Rows:    rows,
		Cols:    cols,
		Queue:   a.cfg.Queue,
	})
	if err != nil {
		return nil, err
	}
	a.term = term
	logging.Info("started %q in a %dx%d pty", a.cfg.Command, cols, rows)
	return term, nil
}

// Watch reloads the requests whenever the file changes on disk, until ctx is
// done or Shutdown is called.
func (a *App) Watch(ctx context.Context) error {
	w, err := data.NewWatcher(a.store.Path(), func() { a.reloadPending.Store(true) })
	if err != nil {
		return fmt.Errorf("watch %s: %w", a.store.Path(), err)
	}
	a.watcher = w
	safego.Go("app.requests_watcher", func() {
		_ = w.Run(ctx)
	})
	return nil
}

// Shutdown stops the watcher and the hosted child process.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		safego.SetPanicHandler(nil)
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		if a.term != nil {
			if err := a.term.Close(); err != nil {
				logging.Warn("close terminal pane: %v", err)
			}
		}
		perf.Flush("shutdown")
	})
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/app"
	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/data"
	"github.com/andyrewlee/reqtty/internal/events"
	"github.com/andyrewlee/reqtty/internal/logging"
)

var errNotTerminal = errors.New("reqtty needs an interactive terminal on stdin and stdout")

// Test hooks.
var (
	isTerminal   = console.IsTerminal
	terminalSize = console.Size
)

func runDashboard(ctx context.Context, opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	opts.initLogging(cfg)
	defer logging.Close()

	store := data.NewStore(cfg.Paths.RequestsPath)
	if err := store.Load(); err != nil {
		return fmt.Errorf("load requests: %w", err)
	}

	inFd, outFd := os.Stdin.Fd(), os.Stdout.Fd()
	if !isTerminal(inFd) || !isTerminal(outFd) {
		return errNotTerminal
	}
	width, height, err := terminalSize(outFd)
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("starting reqtty %s in a %dx%d terminal", version, width, height)
	out := console.New(os.Stdout)
	err = out.RunFullScreen(inFd, func() error {
		return runSession(ctx, cfg, store, out, width, height)
	})
	if err != nil {
		logging.Error("dashboard exited: %v", err)
		return err
	}
	logging.Info("reqtty shutdown complete")
	return nil
}

// runSession owns everything that lives inside the full-screen session. The
// app is shut down before the input reader so the child process is gone by
// the time the terminal is restored.
func runSession(ctx context.Context, cfg *config.Config, store *data.Store, out *console.Console, width, height int) error {
	ctx, cancel := context.WithCancel(ctx)
	reader, err := events.NewReader(os.Stdin, os.Getenv("TERM"))
	if err != nil {
		cancel()
		return fmt.Errorf("open input: %w", err)
	}
	msgs := make(chan tea.Msg, 64)
	reader.Start(ctx, msgs)
	defer func() {
		cancel()
		if err := reader.Close(); err != nil {
			logging.Warn("close input reader: %v", err)
		}
	}()

	a, err := app.New(app.Options{
		Config:  cfg,
		Store:   store,
		Console: out,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		return fmt.Errorf("start dashboard: %w", err)
	}
	defer a.Shutdown()

	if err := a.Watch(ctx); err != nil {
		logging.Warn("%v; external edits will not be picked up", err)
	}
	return a.Run(ctx, msgs)
}

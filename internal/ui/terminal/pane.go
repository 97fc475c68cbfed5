// Package terminal provides the pane that hosts a child process in a
// pseudoterminal.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/keys"
	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/perf"
	appPty "github.com/andyrewlee/reqtty/internal/pty"
	"github.com/andyrewlee/reqtty/internal/safego"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

// ErrPaneBroken is returned once a write to the child has failed. The pane
// stays on screen but accepts no further input or output.
var ErrPaneBroken = errors.New("terminal pane broken")

var errReaderStuck = errors.New("pty reader did not stop")

// hangupGrace bounds how long Close waits for the reader after hanging up
// before it kills the child. joinTimeout bounds the final wait after the
// kill; a reader still stuck then is abandoned so the caller can restore the
// terminal.
var (
	hangupGrace = 500 * time.Millisecond
	joinTimeout = 2 * time.Second
)

// ptyHandle is the part of a PTY the pane needs.
type ptyHandle interface {
	io.ReadWriter
	Hangup() error
	Close() error
}

// Options configures a terminal pane.
type Options struct {
	Command string
	Dir     string
	Env     []string
	Rows    int
	Cols    int
	Queue   config.QueueConfig
}

// Pane runs a child process in a PTY and renders its output.
type Pane struct {
	term  ptyHandle
	queue *outputQueue

	done       chan struct{}
	readerDone <-chan struct{}
	exited     atomic.Bool

	broken    bool
	closeOnce sync.Once
	closeErr  error
}

// New spawns opts.Command in a PTY sized to the pane and starts its reader.
// The child is started eagerly; failure to start it is returned as is.
func New(opts Options) (*Pane, error) {
	term, err := appPty.Start(appPty.Command{
		Line: opts.Command,
		Dir:  opts.Dir,
		Env:  opts.Env,
		Rows: uint16(max(opts.Rows, 1)),
		Cols: uint16(max(opts.Cols, 1)),
	})
	if err != nil {
		return nil, err
	}
	logging.Info("started %q in pty (pid %d, %dx%d)", opts.Command, term.Pid(), opts.Cols, opts.Rows)
	return newPane(term, opts.Queue), nil
}

func newPane(term ptyHandle, q config.QueueConfig) *Pane {
	p := &Pane{
		term:  term,
		queue: newOutputQueue(q.MaxChunks, q.MaxBytes),
		done:  make(chan struct{}),
	}
	bufSize := q.ReadBufferSize
	if bufSize <= 0 {
		bufSize = 2048
	}
	p.readerDone = safego.GoDone("terminal.pty_read_loop", func() {
		p.readLoop(bufSize)
	})
	return p
}

func (p *Pane) readLoop(bufSize int) {
	defer p.exited.Store(true)
	buf := make([]byte, bufSize)
	for {
		select {
		case <-p.done:
			return
		default:
		}
		n, err := p.term.Read(buf)
		if n > 0 {
			p.queue.push(buf[:n])
		}
		if err != nil {
			select {
			case <-p.done:
			default:
				logging.Info("pty reader stopped: %v", err)
			}
			return
		}
	}
}

// Output writes at most one pending chunk of child output into v. With
// nothing pending it returns without touching c.
func (p *Pane) Output(c *console.Console, v *viewport.Viewport) {
	if p.broken {
		return
	}
	chunk, ok := p.queue.pop()
	if !ok {
		return
	}
	if dropped := p.queue.takeDropped(); dropped > 0 {
		logging.Warn("pty output queue overflow: dropped %d bytes", dropped)
		perf.Count("pty_dropped_bytes", int64(dropped))
	}
	v.Write(c, chunk)
}

// NeedsReRender reports whether child output is waiting to be drawn.
func (p *Pane) NeedsReRender() bool {
	return !p.broken && p.queue.len() > 0
}

// OnEvent forwards key presses and pastes to the child. A failed write
// breaks the pane and is reported wrapped in ErrPaneBroken.
func (p *Pane) OnEvent(msg tea.Msg) error {
	if p.broken {
		return ErrPaneBroken
	}
	var data []byte
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		data = keys.ToBytes(msg)
	case tea.PasteMsg:
		data = []byte(msg.Content)
	}
	if len(data) == 0 {
		return nil
	}
	if err := writeAll(p.term, data); err != nil {
		p.broken = true
		return fmt.Errorf("%w: %w", ErrPaneBroken, err)
	}
	return nil
}

func writeAll(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}

// CursorPosition places the terminal cursor where the child left it.
func (p *Pane) CursorPosition(v *viewport.Viewport) (x, y int) {
	return v.Cursor()
}

// Broken reports whether a write to the child has failed.
func (p *Pane) Broken() bool { return p.broken }

// Exited reports whether the reader has stopped, which happens when the
// child closes its terminal.
func (p *Pane) Exited() bool { return p.exited.Load() }

// Close stops the reader and releases the child: it hangs up the PTY, waits
// for the reader to return, then kills the child's process group and reaps
// it. Every wait is bounded, so Close returns even if the reader never does.
func (p *Pane) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		var errs []error
		if err := p.term.Hangup(); err != nil {
			errs = append(errs, fmt.Errorf("hang up pty: %w", err))
		}
		select {
		case <-p.readerDone:
		case <-time.After(hangupGrace):
			logging.Warn("pty reader still blocked after hangup; killing child")
		}
		if err := p.term.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pty: %w", err))
		}
		select {
		case <-p.readerDone:
		case <-time.After(joinTimeout):
			logging.Error("pty reader did not stop; abandoning it")
			errs = append(errs, errReaderStuck)
		}
		p.closeErr = errors.Join(errs...)
	})
	return p.closeErr
}

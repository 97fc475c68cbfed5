// Package pty runs one child command attached to a pseudoterminal.
package pty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/process"
)

// killGrace is how long the child's group gets between SIGTERM and SIGKILL.
const killGrace = 200 * time.Millisecond

// ErrClosed is returned by writes to a terminal that has been hung up or
// closed.
var ErrClosed = errors.New("pty: terminal closed")

// Command describes the child to start.
type Command struct {
	Line string // run through sh -c
	Dir  string
	Env  []string // appended to the current environment
	Rows uint16
	Cols uint16
}

// Terminal is a running child and the master side of its PTY.
type Terminal struct {
	mu     sync.Mutex
	master *os.File
	cmd    *exec.Cmd
	hungUp bool
	closed bool
}

// Start spawns c.Line with a window of c.Rows by c.Cols, so the child never
// draws at a default size first. A zero dimension leaves the size unset.
func Start(c Command) (*Terminal, error) {
	cmd := exec.Command("sh", "-c", c.Line)
	cmd.Dir = c.Dir
	cmd.Env = append(append(os.Environ(), c.Env...), "TERM=xterm-256color")

	var (
		master *os.File
		err    error
	)
	if c.Rows > 0 && c.Cols > 0 {
		master, err = pty.StartWithSize(cmd, &pty.Winsize{Rows: c.Rows, Cols: c.Cols})
	} else {
		master, err = pty.Start(cmd)
	}
	if err != nil {
		return nil, fmt.Errorf("pty: start %q: %w", c.Line, err)
	}
	polled, err := pollable(master)
	if err != nil {
		_ = master.Close()
		_ = process.KillProcessGroup(cmd.Process.Pid, process.KillOptions{GracePeriod: killGrace})
		_ = cmd.Wait()
		return nil, fmt.Errorf("pty: start %q: %w", c.Line, err)
	}
	return &Terminal{master: polled, cmd: cmd}, nil
}

func (t *Terminal) file() *os.File {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hungUp {
		return nil
	}
	return t.master
}

// Write sends bytes to the child's input.
func (t *Terminal) Write(p []byte) (int, error) {
	f := t.file()
	if f == nil {
		return 0, ErrClosed
	}
	return f.Write(p)
}

// Read blocks for child output. The lock is not held during the read, so
// Hangup can interrupt it.
func (t *Terminal) Read(p []byte) (int, error) {
	f := t.file()
	if f == nil {
		return 0, io.EOF
	}
	return f.Read(p)
}

// Hangup closes the PTY master. A blocked Read returns even while other
// processes still hold the terminal open; reaping is left to Close.
func (t *Terminal) Hangup() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hangupLocked()
}

func (t *Terminal) hangupLocked() error {
	if t.hungUp {
		return nil
	}
	t.hungUp = true
	err := t.master.Close()
	t.master = nil
	return err
}

// Close hangs up if needed, then kills the child's whole process group and
// reaps the child. Later calls do nothing.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	err := t.hangupLocked()
	if t.cmd.ProcessState == nil {
		// The child leads its own session, so its pid is also its group id.
		if kerr := process.KillProcessGroup(t.cmd.Process.Pid, process.KillOptions{GracePeriod: killGrace}); kerr != nil {
			logging.Warn("kill process group %d: %v", t.cmd.Process.Pid, kerr)
			_ = t.cmd.Process.Kill()
		}
		_ = t.cmd.Wait()
	}
	return err
}

// Pid returns the child's process id.
func (t *Terminal) Pid() int {
	return t.cmd.Process.Pid
}

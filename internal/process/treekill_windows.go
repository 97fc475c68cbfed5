//go:build windows

// Package process signals the process groups that hosted commands run in.
package process

import (
	"os"
	"time"

	"github.com/andyrewlee/reqtty/internal/logging"
)

// KillOptions configures group termination.
type KillOptions struct {
	// GracePeriod is how long to wait before forcing termination.
	// Default: 200ms
	GracePeriod time.Duration
}

// KillProcessGroup terminates only the leader: Windows has no Unix-style
// process groups, so its children may survive.
func KillProcessGroup(leaderPID int, opts KillOptions) error {
	if leaderPID <= 0 {
		return nil
	}
	if opts.GracePeriod == 0 {
		opts.GracePeriod = 200 * time.Millisecond
	}

	proc, err := os.FindProcess(leaderPID)
	if err != nil {
		return err
	}
	if err := proc.Signal(os.Interrupt); err != nil {
		logging.Debug("interrupt pid %d: %v", leaderPID, err)
	}
	time.Sleep(opts.GracePeriod)
	return proc.Kill()
}

//go:build !windows

// Package process signals the process groups that hosted commands run in.
package process

import (
	"errors"
	"syscall"
	"time"
)

// KillOptions configures group termination.
type KillOptions struct {
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Default: 200ms
	GracePeriod time.Duration
}

// KillProcessGroup sends SIGTERM to the group led by leaderPID, waits up to
// the grace period for it to empty, then sends SIGKILL. The leader must head
// its own group, as a setsid or setpgid child does, so that grandchildren
// still holding its terminal go with it.
func KillProcessGroup(leaderPID int, opts KillOptions) error {
	if leaderPID <= 0 {
		return nil
	}
	if opts.GracePeriod == 0 {
		opts.GracePeriod = 200 * time.Millisecond
	}

	if err := syscall.Kill(-leaderPID, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return err
	}

	deadline := time.Now().Add(opts.GracePeriod)
	for time.Now().Before(deadline) {
		if errors.Is(syscall.Kill(-leaderPID, 0), syscall.ESRCH) {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	// EPERM shows up when the group empties between the check and the kill.
	err := syscall.Kill(-leaderPID, syscall.SIGKILL)
	if err != nil && !errors.Is(err, syscall.ESRCH) && !errors.Is(err, syscall.EPERM) {
		return err
	}
	return nil
}

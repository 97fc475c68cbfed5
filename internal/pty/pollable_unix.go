//go:build !windows

package pty

import (
	"os"
	"syscall"
)

// pollable returns a non-blocking duplicate of f registered with the runtime
// poller and closes f. Closing the duplicate interrupts a blocked Read, which
// a blocking descriptor would not.
func pollable(f *os.File) (*os.File, error) {
	fd, err := syscall.Dup(int(f.Fd()))
	if err != nil {
		return nil, err
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = syscall.Close(fd)
		return nil, err
	}
	dup := os.NewFile(uintptr(fd), f.Name())
	_ = f.Close()
	return dup, nil
}

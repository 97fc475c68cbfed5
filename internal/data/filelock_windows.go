//go:build windows

package data

import (
	"os"
	"path/filepath"
)

// fileLock only creates the sidecar file on Windows; nothing is enforced
// across processes.
type fileLock struct {
	f *os.File
}

func acquireLock(path string, _ bool) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) release() {
	_ = l.f.Close()
}

//go:build windows

package pty

import "os"

func pollable(f *os.File) (*os.File, error) { return f, nil }

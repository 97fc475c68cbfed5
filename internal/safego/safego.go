// Package safego starts goroutines that log panics instead of crashing the
// process while the terminal is in raw mode.
package safego

import (
	"runtime/debug"
	"sync/atomic"

	"github.com/andyrewlee/reqtty/internal/logging"
)

// PanicHandler receives panic details from recovered goroutines.
type PanicHandler func(name string, recovered any, stack []byte)

var panicHandler atomic.Pointer[PanicHandler]

// SetPanicHandler registers a global handler for recovered panics. Nil
// removes it.
func SetPanicHandler(handler PanicHandler) {
	if handler == nil {
		panicHandler.Store(nil)
		return
	}
	panicHandler.Store(&handler)
}

// Run executes fn and converts a panic into a logged error. Runtime-fatal
// errors such as concurrent map writes are not recoverable.
func Run(name string, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if name == "" {
			name = "goroutine"
		}
		stack := debug.Stack()
		logging.Error("panic in %s: %v\n%s", name, r, stack)
		if h := panicHandler.Load(); h != nil {
			notify(*h, name, r, stack)
		}
	}()
	fn()
}

func notify(h PanicHandler, name string, r any, stack []byte) {
	defer func() { _ = recover() }()
	h(name, r, stack)
}

// Go runs fn in a new goroutine with panic recovery.
func Go(name string, fn func()) {
	go Run(name, fn)
}

// GoDone is Go with a join handle: the returned channel is closed once fn
// has returned or panicked.
func GoDone(name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(name, fn)
	}()
	return done
}

// Package events decodes raw terminal input into key, paste and focus
// messages.
package events

import (
	"context"
	"io"
	"sync"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/safego"
)

type cancelReader interface {
	io.ReadCloser
	Cancel() bool
}

// Reader streams decoded input from a terminal.
type Reader struct {
	in      cancelReader
	decoder *uv.TerminalReader

	closeOnce sync.Once
	done      <-chan struct{}
}

// NewReader wraps in, usually os.Stdin in raw mode. termType is the value of
// $TERM and selects the key tables.
func NewReader(in io.Reader, termType string) (*Reader, error) {
	cr, err := uv.NewCancelReader(in)
	if err != nil {
		return nil, err
	}
	return &Reader{in: cr, decoder: uv.NewTerminalReader(cr, termType)}, nil
}

// Start decodes input in the background and sends each message on out until
// ctx is done or the reader is closed. Sends never block past ctx.
func (r *Reader) Start(ctx context.Context, out chan<- tea.Msg) {
	raw := make(chan uv.Event, 64)
	streamDone := safego.GoDone("events.stream", func() {
		if err := r.decoder.StreamEvents(ctx, raw); err != nil {
			logging.Warn("input stream: %v", err)
		}
		close(raw)
	})
	r.done = safego.GoDone("events.translate", func() {
		for ev := range raw {
			msg, ok := Translate(ev)
			if !ok {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				// Keep draining so the decoder can observe ctx.
			}
		}
		<-streamDone
	})
}

// Close cancels the pending read and waits for the background goroutines
// started by Start. Cancel the Start context first; a send blocked on out
// is only released by it.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.in.Cancel()
		if r.done != nil {
			<-r.done
		}
		err = r.in.Close()
	})
	return err
}

// Translate converts a decoded terminal event into the message type panes
// consume. Events the dashboard has no use for are dropped.
func Translate(ev uv.Event) (tea.Msg, bool) {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		return tea.KeyPressMsg(ev), true
	case uv.PasteEvent:
		return tea.PasteMsg(ev), true
	case uv.WindowSizeEvent:
		return tea.WindowSizeMsg(ev), true
	case uv.FocusEvent:
		return tea.FocusMsg(ev), true
	case uv.BlurEvent:
		return tea.BlurMsg(ev), true
	default:
		return nil, false
	}
}

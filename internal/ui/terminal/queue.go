package terminal

import "sync"

// outputQueue carries PTY output from the reader goroutine to the render
// loop. It is bounded two ways: once maxChunks chunks are queued, new output
// is appended to the newest chunk; once more than maxBytes are queued, the
// oldest bytes are dropped. Surviving bytes keep their order.
type outputQueue struct {
	mu        sync.Mutex
	chunks    [][]byte
	size      int
	maxChunks int
	maxBytes  int
	dropped   int
}

func newOutputQueue(maxChunks, maxBytes int) *outputQueue {
	return &outputQueue{
		maxChunks: max(maxChunks, 1),
		maxBytes:  max(maxBytes, 1),
	}
}

// push copies p onto the tail of the queue. It never blocks on the consumer.
func (q *outputQueue) push(p []byte) {
	if len(p) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if n := len(q.chunks); n >= q.maxChunks {
		q.chunks[n-1] = append(q.chunks[n-1], p...)
	} else {
		q.chunks = append(q.chunks, append([]byte(nil), p...))
	}
	q.size += len(p)

	for q.size > q.maxBytes {
		over := q.size - q.maxBytes
		head := q.chunks[0]
		if len(q.chunks) > 1 && len(head) <= over {
			q.chunks[0] = nil
			q.chunks = q.chunks[1:]
			q.size -= len(head)
			q.dropped += len(head)
			continue
		}
		cut := min(over, len(head))
		q.chunks[0] = head[cut:]
		q.size -= cut
		q.dropped += cut
	}
}

// pop removes the oldest chunk without blocking.
func (q *outputQueue) pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.chunks) == 0 {
		return nil, false
	}
	chunk := q.chunks[0]
	q.chunks[0] = nil
	q.chunks = q.chunks[1:]
	q.size -= len(chunk)
	return chunk, true
}

// len returns the number of queued chunks.
func (q *outputQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chunks)
}

// takeDropped returns and resets the count of bytes dropped for overflow.
func (q *outputQueue) takeDropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.dropped
	q.dropped = 0
	return n
}

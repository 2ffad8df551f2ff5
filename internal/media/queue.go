package media

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrQueueClosed  = errors.New("queue: closed")
	ErrQueueTimeout = errors.New("queue: write timed out")
)

// Queue is the bounded bundle buffer shared by the decode goroutine (writer)
// and the playback goroutine (reader). Writes block while the queue is full.
type Queue struct {
	bundles chan *Bundle

	closeOnce sync.Once
	closed    chan struct{}
}

func NewQueue(max int) *Queue {
	if max < 1 {
		max = 1
	}
	return &Queue{
		bundles: make(chan *Bundle, max),
		closed:  make(chan struct{}),
	}
}

// Write enqueues b, blocking until a slot frees up, the timeout elapses or
// the queue is closed. A timeout of zero waits forever.
func (q *Queue) Write(b *Bundle, timeout time.Duration) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case q.bundles <- b:
		return nil
	case <-q.closed:
		return ErrQueueClosed
	case <-expired:
		return ErrQueueTimeout
	}
}

// Read returns the oldest bundle, or nil when none is ready. It never blocks.
func (q *Queue) Read() *Bundle {
	select {
	case b := <-q.bundles:
		return b
	default:
		return nil
	}
}

// Flush discards every queued bundle and returns how many were dropped.
func (q *Queue) Flush() int {
	n := 0
	for q.Read() != nil {
		n++
	}
	return n
}

func (q *Queue) Len() int {
	return len(q.bundles)
}

func (q *Queue) Full() bool {
	return len(q.bundles) == cap(q.bundles)
}

// Close unblocks pending and future writers. Reads keep working.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
}

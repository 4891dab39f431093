package source

import (
	"sync"

	"github.com/dshills/keybus/internal/input/key"
)

// Queue is an unbounded in-memory Source.
type Queue struct {
	mu     sync.Mutex
	events []key.RawEvent
	closed bool
}

// NewQueue creates a queue preloaded with events.
func NewQueue(events ...key.RawEvent) *Queue {
	q := &Queue{}
	q.events = append(q.events, events...)
	return q
}

// Push appends events to the queue.
func (q *Queue) Push(events ...key.RawEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.events = append(q.events, events...)
	return nil
}

// Poll implements Source.
func (q *Queue) Poll() (key.RawEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.events) == 0 {
		return key.RawEvent{}, false
	}
	ev := q.events[0]
	q.events[0] = key.RawEvent{}
	q.events = q.events[1:]
	return ev, true
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close implements Source. Pending events are discarded.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.events = nil
	return nil
}

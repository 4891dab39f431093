package source

import (
	"errors"
	"sync/atomic"

	"github.com/dshills/keybus/internal/input/key"
)

// ErrClosed is returned when pushing into a closed source.
var ErrClosed = errors.New("source closed")

// Source produces raw keyboard events.
type Source interface {
	// Poll returns the next pending event without blocking.
	Poll() (key.RawEvent, bool)

	// Close releases the source. Poll returns false afterwards.
	Close() error
}

// Runner is implemented by sources that must own the calling goroutine.
// Run blocks until the source shuts down.
type Runner interface {
	Run() error
}

// Indicator is implemented by sources that give visual feedback for
// published key events.
type Indicator interface {
	Indicate(ev key.Event)
}

// Buffer is a bounded hand-off between a producer goroutine and Poll.
// Offers made while the buffer is full are dropped and counted.
type Buffer struct {
	ch      chan key.RawEvent
	dropped atomic.Uint64
}

// NewBuffer creates a buffer holding up to size events.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 64
	}
	return &Buffer{ch: make(chan key.RawEvent, size)}
}

// Offer enqueues ev, reporting false if it was dropped.
func (b *Buffer) Offer(ev key.RawEvent) bool {
	select {
	case b.ch <- ev:
		return true
	default:
		b.dropped.Add(1)
		return false
	}
}

// Poll returns the oldest buffered event.
func (b *Buffer) Poll() (key.RawEvent, bool) {
	select {
	case ev := <-b.ch:
		return ev, true
	default:
		return key.RawEvent{}, false
	}
}

// Dropped returns the number of events dropped on a full buffer.
func (b *Buffer) Dropped() uint64 {
	return b.dropped.Load()
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	return len(b.ch)
}

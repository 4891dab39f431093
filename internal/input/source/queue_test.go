package source

import (
	"testing"

	"github.com/dshills/keybus/internal/input/key"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(key.KeyDown('a', 0), key.KeyUp('a', 0))
	if err := q.Push(key.Quit()); err != nil {
		t.Fatalf("Push() failed: %v", err)
	}

	want := []key.Kind{key.KindKeyDown, key.KindKeyUp, key.KindQuit}
	for i, kind := range want {
		ev, ok := q.Poll()
		if !ok {
			t.Fatalf("Poll() #%d returned nothing", i)
		}
		if ev.Kind != kind {
			t.Errorf("Poll() #%d kind = %v, want %v", i, ev.Kind, kind)
		}
	}
	if _, ok := q.Poll(); ok {
		t.Error("Poll() on empty queue should return false")
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue(key.KeyDown('a', 0))
	if err := q.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if _, ok := q.Poll(); ok {
		t.Error("Poll() after Close should return false")
	}
	if err := q.Push(key.KeyDown('b', 0)); err != ErrClosed {
		t.Errorf("Push() after Close = %v, want ErrClosed", err)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestBuffer_DropsWhenFull(t *testing.T) {
	b := NewBuffer(2)
	if !b.Offer(key.KeyDown('a', 0)) || !b.Offer(key.KeyDown('b', 0)) {
		t.Fatal("first two offers should succeed")
	}
	if b.Offer(key.KeyDown('c', 0)) {
		t.Error("offer on full buffer should fail")
	}
	if b.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", b.Dropped())
	}

	ev, ok := b.Poll()
	if !ok || ev.Code != 'a' {
		t.Errorf("Poll() = %v, %v; want code a", ev, ok)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

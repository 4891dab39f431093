// Package tracker decides which raw key events are reportable transitions.
//
// A Tracker owns the per-key held state and applies the repeat-suppression
// policy: with repeat disallowed, a key-down for a key that is already held
// is an auto-repeat and produces nothing. Releases are always reported, even
// for keys that were never seen pressed.
//
// A Tracker is not safe for concurrent use; it belongs to the poll loop.
package tracker

import "github.com/dshills/keybus/internal/input/key"

// State records which keys are currently held.
// Entries are created lazily and never removed; the key space is finite.
type State struct {
	held map[key.Code]bool
}

// NewState creates an empty key state.
func NewState() *State {
	return &State{held: make(map[key.Code]bool)}
}

// Held reports whether code is currently considered pressed.
func (s *State) Held(code key.Code) bool {
	return s.held[code]
}

// Len returns the number of keys observed so far.
func (s *State) Len() int {
	return len(s.held)
}

// HeldCount returns the number of keys currently held.
func (s *State) HeldCount() int {
	n := 0
	for _, h := range s.held {
		if h {
			n++
		}
	}
	return n
}

func (s *State) set(code key.Code, held bool) {
	s.held[code] = held
}

// Result is the outcome of processing one raw event.
type Result struct {
	// Event is valid only when Emit is true.
	Event key.Event

	// Emit is true when Event should be published.
	Emit bool

	// Quit is true when the poll loop should stop.
	Quit bool
}

// Tracker maps raw events to reportable key events.
type Tracker struct {
	allowRepeat bool
	state       *State
}

// New creates a tracker with its own key state.
func New(allowRepeat bool) *Tracker {
	return NewWithState(allowRepeat, NewState())
}

// NewWithState creates a tracker that mutates the given state.
// A nil state is replaced with an empty one.
func NewWithState(allowRepeat bool, state *State) *Tracker {
	if state == nil {
		state = NewState()
	}
	return &Tracker{allowRepeat: allowRepeat, state: state}
}

// AllowRepeat reports whether repeated presses are passed through.
func (t *Tracker) AllowRepeat() bool {
	return t.allowRepeat
}

// State returns the key state owned by the tracker.
func (t *Tracker) State() *State {
	return t.state
}

// Process applies one raw event to the key state.
// It never fails; unrecognised events produce an empty Result.
func (t *Tracker) Process(raw key.RawEvent) Result {
	switch raw.Kind {
	case key.KindKeyUp:
		t.state.set(raw.Code, false)
		return Result{Event: t.event(raw, key.Released), Emit: true}

	case key.KindKeyDown:
		if !t.allowRepeat && t.state.Held(raw.Code) {
			return Result{}
		}
		t.state.set(raw.Code, true)
		return Result{Event: t.event(raw, key.Pressed), Emit: true}

	case key.KindQuit:
		return Result{Quit: true}

	default:
		return Result{}
	}
}

func (t *Tracker) event(raw key.RawEvent, tr key.Transition) key.Event {
	return key.Event{
		Code:       raw.Code,
		Modifiers:  raw.Modifiers,
		Transition: tr,
		Timestamp:  raw.Time,
	}
}

package key

import (
	"fmt"
	"time"
)

// Kind classifies a raw event delivered by an input source.
type Kind uint8

const (
	// KindOther is any event the tracker does not act on.
	KindOther Kind = iota

	// KindKeyDown is a key press, including auto-repeated presses.
	KindKeyDown

	// KindKeyUp is a key release.
	KindKeyUp

	// KindQuit asks the poll loop to terminate.
	KindQuit
)

// String returns the kind name used in logs and replay scripts.
func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "keydown"
	case KindKeyUp:
		return "keyup"
	case KindQuit:
		return "quit"
	default:
		return "other"
	}
}

// KindFromName parses a kind name as written by String.
// Unknown names yield KindOther.
func KindFromName(name string) Kind {
	switch name {
	case "keydown", "down", "press":
		return KindKeyDown
	case "keyup", "up", "release":
		return KindKeyUp
	case "quit":
		return KindQuit
	default:
		return KindOther
	}
}

// RawEvent is one event as retrieved from an input library.
// Code and Modifiers are only meaningful for key kinds.
type RawEvent struct {
	Kind      Kind
	Code      Code
	Modifiers Modifier

	// Time is when the source captured the event. May be zero.
	Time time.Time
}

// KeyDown creates a key press raw event captured now.
func KeyDown(code Code, mods Modifier) RawEvent {
	return RawEvent{Kind: KindKeyDown, Code: code, Modifiers: mods, Time: time.Now()}
}

// KeyUp creates a key release raw event captured now.
func KeyUp(code Code, mods Modifier) RawEvent {
	return RawEvent{Kind: KindKeyUp, Code: code, Modifiers: mods, Time: time.Now()}
}

// Quit creates a quit raw event.
func Quit() RawEvent {
	return RawEvent{Kind: KindQuit, Time: time.Now()}
}

// Transition is the direction of a reportable key event.
type Transition uint8

const (
	// Pressed is reported on the key-down channel.
	Pressed Transition = iota + 1

	// Released is reported on the key-up channel.
	Released
)

// String returns "pressed" or "released".
func (t Transition) String() string {
	switch t {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Event is a reportable key transition.
type Event struct {
	Code       Code
	Modifiers  Modifier
	Transition Transition

	// Timestamp is when the underlying raw event was captured.
	Timestamp time.Time
}

// IsPress returns true for Pressed events.
func (e Event) IsPress() bool {
	return e.Transition == Pressed
}

// Equals returns true if two events represent the same transition.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Code == other.Code &&
		e.Modifiers == other.Modifiers &&
		e.Transition == other.Transition
}

// String returns a compact representation such as "Ctrl+a pressed".
func (e Event) String() string {
	name := e.Code.String()
	if mods := e.Modifiers.String(); mods != "" {
		name = mods + "+" + name
	}
	return name + " " + e.Transition.String()
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Code: %d, Modifiers: %#04x, Transition: %s}",
		int32(e.Code), uint16(e.Modifiers), e.Transition)
}

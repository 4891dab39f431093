package source

import (
	"time"

	"github.com/dshills/keybus/internal/input/key"
)

// Repeater generates auto-repeat key-down events for the most recently
// pressed key, the way SDL key repeat does: the first repeat fires after
// delay, later ones every interval, until the key is released or another
// key is pressed. A zero delay disables repeat.
type Repeater struct {
	delay    time.Duration
	interval time.Duration

	active bool
	code   key.Code
	mods   key.Modifier
	next   time.Time
}

// NewRepeater creates a repeater. A non-positive interval repeats at delay.
func NewRepeater(delay, interval time.Duration) *Repeater {
	if interval <= 0 {
		interval = delay
	}
	return &Repeater{delay: delay, interval: interval}
}

// Enabled reports whether repeats are generated at all.
func (r *Repeater) Enabled() bool {
	return r.delay > 0
}

// Press arms the repeater for code.
func (r *Repeater) Press(code key.Code, mods key.Modifier, now time.Time) {
	if !r.Enabled() {
		return
	}
	r.active = true
	r.code = code
	r.mods = mods
	r.next = now.Add(r.delay)
}

// Release disarms the repeater if code is the repeating key.
func (r *Repeater) Release(code key.Code) {
	if r.active && r.code == code {
		r.active = false
	}
}

// Reset disarms the repeater.
func (r *Repeater) Reset() {
	r.active = false
}

// Tick returns a repeat event when one is due at now. At most one event is
// produced per call; a late tick does not produce a burst.
func (r *Repeater) Tick(now time.Time) (key.RawEvent, bool) {
	if !r.active || now.Before(r.next) {
		return key.RawEvent{}, false
	}
	r.next = r.next.Add(r.interval)
	if r.next.Before(now) {
		r.next = now.Add(r.interval)
	}
	return key.RawEvent{Kind: key.KindKeyDown, Code: r.code, Modifiers: r.mods, Time: now}, true
}

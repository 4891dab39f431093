package tracker

import (
	"testing"

	"github.com/dshills/keybus/internal/input/key"
)

// run feeds events through a tracker and returns the emitted events.
func run(tr *Tracker, events ...key.RawEvent) []key.Event {
	var out []key.Event
	for _, ev := range events {
		if res := tr.Process(ev); res.Emit {
			out = append(out, res.Event)
		}
	}
	return out
}

func down(c key.Code) key.RawEvent { return key.RawEvent{Kind: key.KindKeyDown, Code: c} }
func up(c key.Code) key.RawEvent   { return key.RawEvent{Kind: key.KindKeyUp, Code: c} }

func pressed(c key.Code) key.Event  { return key.Event{Code: c, Transition: key.Pressed} }
func released(c key.Code) key.Event { return key.Event{Code: c, Transition: key.Released} }

func assertEvents(t *testing.T, got, want []key.Event) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProcess_RepeatSuppressed(t *testing.T) {
	for _, c := range []key.Code{'a', key.CodeSpace, key.CodeF1, key.CodeKP5} {
		got := run(New(false), down(c), down(c))
		assertEvents(t, got, []key.Event{pressed(c)})
	}
}

func TestProcess_RepeatAllowed(t *testing.T) {
	for _, c := range []key.Code{'a', key.CodeSpace, key.CodeF1, key.CodeKP5} {
		got := run(New(true), down(c), down(c))
		assertEvents(t, got, []key.Event{pressed(c), pressed(c)})
	}
}

func TestProcess_ReleaseAlwaysReported(t *testing.T) {
	tests := []struct {
		name  string
		prior []key.RawEvent
	}{
		{"never seen", nil},
		{"held", []key.RawEvent{down('x')}},
		{"already released", []key.RawEvent{down('x'), up('x')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(false)
			run(tr, tt.prior...)
			res := tr.Process(up('x'))
			if !res.Emit || !res.Event.Equals(released('x')) {
				t.Fatalf("Process(KeyUp) = %+v, want released x", res)
			}
			if tr.State().Held('x') {
				t.Error("key should not be held after release")
			}
		})
	}
}

func TestProcess_ReleaseResetsState(t *testing.T) {
	got := run(New(false), down('q'), up('q'), down('q'))
	assertEvents(t, got, []key.Event{pressed('q'), released('q'), pressed('q')})
}

func TestProcess_KeysIndependent(t *testing.T) {
	tr := New(false)
	run(tr, down('a'))

	if tr.State().Held('b') {
		t.Fatal("pressing a must not hold b")
	}

	got := run(tr, down('b'), up('b'))
	assertEvents(t, got, []key.Event{pressed('b'), released('b')})

	if !tr.State().Held('a') {
		t.Error("releasing b must not release a")
	}
	if got := run(tr, down('a')); len(got) != 0 {
		t.Errorf("a is still held, repeat should be suppressed, got %v", got)
	}
}

func TestProcess_Quit(t *testing.T) {
	tr := New(false)
	run(tr, down('a'))

	res := tr.Process(key.Quit())
	if !res.Quit {
		t.Error("Quit should be signalled")
	}
	if res.Emit {
		t.Error("Quit must not produce a key event")
	}
	if !tr.State().Held('a') {
		t.Error("Quit must not change key state")
	}
}

func TestProcess_OtherIgnored(t *testing.T) {
	tr := New(false)
	res := tr.Process(key.RawEvent{Kind: key.KindOther, Code: 'a'})
	if res.Emit || res.Quit {
		t.Errorf("Other produced %+v", res)
	}
	if tr.State().Len() != 0 {
		t.Error("Other must not create state entries")
	}
}

func TestProcess_Scenario(t *testing.T) {
	tr := New(false)
	got := run(tr,
		key.RawEvent{Kind: key.KindKeyDown, Code: 97},
		key.RawEvent{Kind: key.KindKeyDown, Code: 97},
		key.RawEvent{Kind: key.KindKeyDown, Code: 98},
		key.RawEvent{Kind: key.KindKeyUp, Code: 97},
		key.RawEvent{Kind: key.KindKeyDown, Code: 97},
	)
	assertEvents(t, got, []key.Event{pressed(97), pressed(98), released(97), pressed(97)})
}

func TestProcess_CarriesModifiersAndTime(t *testing.T) {
	raw := key.KeyDown('s', key.ModLCtrl|key.ModCaps)
	res := New(false).Process(raw)
	if !res.Emit {
		t.Fatal("expected an event")
	}
	if res.Event.Modifiers != key.ModLCtrl|key.ModCaps {
		t.Errorf("modifiers = %#04x", res.Event.Modifiers)
	}
	if !res.Event.Timestamp.Equal(raw.Time) {
		t.Error("event should carry the capture time")
	}
}

func TestProcess_ModifiersDoNotSplitState(t *testing.T) {
	// Held state is per code; a repeat with a different modifier mask is still a repeat.
	tr := New(false)
	got := run(tr,
		key.RawEvent{Kind: key.KindKeyDown, Code: 'a'},
		key.RawEvent{Kind: key.KindKeyDown, Code: 'a', Modifiers: key.ModLShift},
	)
	if len(got) != 1 {
		t.Errorf("got %d events, want 1", len(got))
	}
}

func TestNewWithState_Shared(t *testing.T) {
	st := NewState()
	tr := NewWithState(false, st)
	run(tr, down('z'))
	if !st.Held('z') {
		t.Error("tracker should mutate the supplied state")
	}
	if st.HeldCount() != 1 || st.Len() != 1 {
		t.Errorf("HeldCount=%d Len=%d, want 1/1", st.HeldCount(), st.Len())
	}

	if NewWithState(true, nil).State() == nil {
		t.Error("nil state should be replaced")
	}
}

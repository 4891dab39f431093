package key

import (
	"testing"
	"time"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindKeyDown, KindKeyUp, KindQuit, KindOther} {
		if got := KindFromName(k.String()); got != k {
			t.Errorf("KindFromName(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if KindFromName("bogus") != KindOther {
		t.Error("unknown kind should map to KindOther")
	}
}

func TestRawEventConstructors(t *testing.T) {
	before := time.Now()
	down := KeyDown(Code('a'), ModLShift)
	if down.Kind != KindKeyDown || down.Code != Code('a') || down.Modifiers != ModLShift {
		t.Errorf("KeyDown built %+v", down)
	}
	if down.Time.Before(before) {
		t.Error("KeyDown should stamp the capture time")
	}
	if up := KeyUp(CodeF1, ModNone); up.Kind != KindKeyUp || up.Code != CodeF1 {
		t.Errorf("KeyUp built %+v", up)
	}
	if q := Quit(); q.Kind != KindQuit {
		t.Errorf("Quit built %+v", q)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Code: Code('a'), Transition: Pressed}, "a pressed"},
		{Event{Code: Code('s'), Modifiers: ModLCtrl, Transition: Pressed}, "Ctrl+s pressed"},
		{Event{Code: CodeF2, Transition: Released}, "F2 released"},
	}

	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEventEquals(t *testing.T) {
	a := Event{Code: 97, Transition: Pressed, Timestamp: time.Now()}
	b := Event{Code: 97, Transition: Pressed}
	if !a.Equals(b) {
		t.Error("events differing only by timestamp should be equal")
	}
	b.Transition = Released
	if a.Equals(b) {
		t.Error("events with different transitions should not be equal")
	}
	if !a.IsPress() || b.IsPress() {
		t.Error("IsPress misreported")
	}
}

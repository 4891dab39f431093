package window

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dshills/keybus/internal/input/key"
)

func TestCodeFor(t *testing.T) {
	tests := []struct {
		in   ebiten.Key
		want key.Code
	}{
		{ebiten.KeyA, 'a'},
		{ebiten.KeyZ, 'z'},
		{ebiten.KeyDigit0, '0'},
		{ebiten.KeyDigit9, '9'},
		{ebiten.KeySpace, key.CodeSpace},
		{ebiten.KeyEnter, key.CodeReturn},
		{ebiten.KeyEscape, key.CodeEscape},
		{ebiten.KeyArrowUp, key.CodeUp},
		{ebiten.KeyF1, key.CodeF1},
		{ebiten.KeyF12, key.CodeF12},
		{ebiten.KeyNumpad5, key.CodeKP5},
		{ebiten.KeyShiftLeft, key.CodeLShift},
		{ebiten.KeyControlRight, key.CodeRCtrl},
	}
	for _, tt := range tests {
		got, ok := codeFor(tt.in)
		if !ok {
			t.Errorf("codeFor(%v) not mapped", tt.in)
			continue
		}
		if got != tt.want {
			t.Errorf("codeFor(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestModifiers(t *testing.T) {
	held := map[ebiten.Key]bool{
		ebiten.KeyShiftLeft:   true,
		ebiten.KeyControlLeft: true,
		ebiten.KeyAltRight:    true,
	}
	got := modifiers(func(k ebiten.Key) bool { return held[k] })
	want := key.ModLShift | key.ModLCtrl | key.ModRAlt
	if got != want {
		t.Errorf("modifiers() = %#x, want %#x", got, want)
	}

	if got := modifiers(func(ebiten.Key) bool { return false }); got != key.ModNone {
		t.Errorf("modifiers() with nothing held = %#x", got)
	}
}

func TestIndicatorColor(t *testing.T) {
	press := indicatorColor(key.Event{Code: 'a', Transition: key.Pressed})
	if press.R != 'a' || press.G != 0 || press.B != 0xff {
		t.Errorf("press colour = %+v", press)
	}
	release := indicatorColor(key.Event{Code: 'a', Transition: key.Released})
	if release.R != 'a' || release.B != 0 {
		t.Errorf("release colour = %+v", release)
	}
	// Codes above 255 wrap like an 8-bit channel.
	up := indicatorColor(key.Event{Code: key.CodeUp, Transition: key.Pressed})
	if up.R != uint8(key.CodeUp&0xff) {
		t.Errorf("R = %d, want %d", up.R, key.CodeUp&0xff)
	}
}

func TestWindow_CloseTerminatesFrameLoop(t *testing.T) {
	w := New(DefaultConfig(), nil)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := w.Update(); err != ebiten.Termination {
		t.Errorf("Update() after Close = %v, want ebiten.Termination", err)
	}
	if _, ok := w.Poll(); ok {
		t.Error("Poll() should be empty")
	}
}

func TestWindow_Indicate(t *testing.T) {
	w := New(Config{}, nil)
	w.Indicate(key.Event{Code: 'q', Transition: key.Pressed})
	if w.fill.R != 'q' || w.fill.B != 0xff {
		t.Errorf("fill = %+v", w.fill)
	}
	if gw, gh := w.Layout(640, 480); gw != 100 || gh != 100 {
		t.Errorf("Layout() = %d,%d; want defaults 100,100", gw, gh)
	}
}

func TestWindow_QuitRetriedWhenBufferFull(t *testing.T) {
	w := New(Config{BufferSize: 1}, nil)
	if !w.buf.Offer(key.KeyDown('a', 0)) {
		t.Fatal("Offer() into empty buffer failed")
	}

	if err := w.emitQuit(); err != nil {
		t.Fatalf("emitQuit() on full buffer = %v, want nil", err)
	}
	if w.quitSent {
		t.Fatal("quitSent set although Quit was dropped")
	}

	if ev, ok := w.Poll(); !ok || ev.Kind != key.KindKeyDown {
		t.Fatalf("Poll() = %v, %v; want the buffered key-down", ev, ok)
	}
	if err := w.emitQuit(); err != ebiten.Termination {
		t.Fatalf("emitQuit() after drain = %v, want ebiten.Termination", err)
	}
	if ev, ok := w.Poll(); !ok || ev.Kind != key.KindQuit {
		t.Errorf("Poll() = %v, %v; want quit", ev, ok)
	}
	if err := w.emitQuit(); err != ebiten.Termination {
		t.Errorf("second emitQuit() = %v, want ebiten.Termination", err)
	}
	if _, ok := w.Poll(); ok {
		t.Error("Quit buffered twice")
	}
}

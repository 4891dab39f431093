// Package window reads keyboard input from a small desktop window.
//
// The window runs ebiten's frame loop, which must own the main goroutine:
// call Run from main and poll the Window from any other goroutine. Every
// frame the just-pressed and just-released key sets are translated to SDL
// key codes and handed to the poller through a bounded buffer.
package window

import (
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dshills/keybus/internal/input/key"
	"github.com/dshills/keybus/internal/input/source"
	"github.com/dshills/keybus/internal/logging"
)

// Config configures the window source.
type Config struct {
	Title  string
	Width  int
	Height int

	// RepeatDelay is the hold time before the first auto-repeat.
	// Zero disables auto-repeat.
	RepeatDelay time.Duration

	// RepeatInterval is the time between later auto-repeats.
	RepeatInterval time.Duration

	// BufferSize bounds the events waiting to be polled.
	BufferSize int

	// TPS is the frame loop rate.
	TPS int
}

// DefaultConfig returns the default window configuration.
func DefaultConfig() Config {
	return Config{
		Title:          "keybus",
		Width:          100,
		Height:         100,
		RepeatDelay:    500 * time.Millisecond,
		RepeatInterval: 30 * time.Millisecond,
		BufferSize:     64,
		TPS:            60,
	}
}

// Window is a Source backed by a desktop window.
type Window struct {
	cfg    Config
	buf    *source.Buffer
	repeat *source.Repeater
	log    *logging.Logger

	closing     atomic.Bool
	quitPending bool
	quitSent    bool
	scratch     []ebiten.Key

	mu   sync.Mutex
	fill color.RGBA
}

var (
	_ source.Source    = (*Window)(nil)
	_ source.Runner    = (*Window)(nil)
	_ source.Indicator = (*Window)(nil)
)

// New creates a window source. The window opens when Run is called.
func New(cfg Config, logger *logging.Logger) *Window {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.TPS <= 0 {
		cfg.TPS = def.TPS
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Window{
		cfg:    cfg,
		buf:    source.NewBuffer(cfg.BufferSize),
		repeat: source.NewRepeater(cfg.RepeatDelay, cfg.RepeatInterval),
		log:    logger.WithComponent("window"),
		fill:   color.RGBA{A: 0xff},
	}
}

// Run opens the window and blocks until it is closed.
// It must be called from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(w.cfg.Width, w.cfg.Height)
	ebiten.SetTPS(w.cfg.TPS)
	ebiten.SetWindowClosingHandled(true)

	w.log.Debug("window opened %dx%d", w.cfg.Width, w.cfg.Height)
	err := ebiten.RunGame(w)
	w.log.Debug("window closed")
	return err
}

// Poll implements source.Source.
func (w *Window) Poll() (key.RawEvent, bool) {
	return w.buf.Poll()
}

// Close asks the frame loop to terminate.
func (w *Window) Close() error {
	w.closing.Store(true)
	return nil
}

// Indicate fills the window with a colour derived from the key code:
// blue for a press, black for a release.
func (w *Window) Indicate(ev key.Event) {
	w.mu.Lock()
	w.fill = indicatorColor(ev)
	w.mu.Unlock()
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.closing.Load() {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		w.quitPending = true
	}
	if w.quitPending {
		return w.emitQuit()
	}

	now := time.Now()
	mods := modifiers(ebiten.IsKeyPressed)

	w.scratch = inpututil.AppendJustReleasedKeys(w.scratch[:0])
	for _, k := range w.scratch {
		code, ok := codeFor(k)
		if !ok {
			continue
		}
		w.repeat.Release(code)
		w.offer(key.RawEvent{Kind: key.KindKeyUp, Code: code, Modifiers: mods, Time: now})
	}

	w.scratch = inpututil.AppendJustPressedKeys(w.scratch[:0])
	for _, k := range w.scratch {
		code, ok := codeFor(k)
		if !ok {
			continue
		}
		w.repeat.Press(code, mods, now)
		w.offer(key.RawEvent{Kind: key.KindKeyDown, Code: code, Modifiers: mods, Time: now})
	}

	if ev, ok := w.repeat.Tick(now); ok {
		w.offer(ev)
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	fill := w.fill
	w.mu.Unlock()
	screen.Fill(fill)
}

// Layout implements ebiten.Game.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.cfg.Width, w.cfg.Height
}

func (w *Window) offer(ev key.RawEvent) {
	if !w.buf.Offer(ev) {
		w.log.Warn("event buffer full, dropped %s %d", ev.Kind, ev.Code)
	}
}

// emitQuit ends the frame loop once Quit is buffered. While the buffer is
// full the loop keeps running and the offer is retried next frame.
func (w *Window) emitQuit() error {
	if !w.quitSent {
		if !w.buf.Offer(key.Quit()) {
			w.log.Warn("event buffer full, retrying quit")
			return nil
		}
		w.quitSent = true
	}
	return ebiten.Termination
}

func indicatorColor(ev key.Event) color.RGBA {
	c := color.RGBA{R: uint8(ev.Code), A: 0xff}
	if ev.IsPress() {
		c.B = 0xff
	}
	return c
}

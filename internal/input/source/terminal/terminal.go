// Package terminal reads keyboard input from a raw-mode terminal.
//
// Terminals only report key presses (and auto-repeat presses while a key is
// held). A key is considered released once no press for it has arrived
// within the release timeout; the release is reported on the next Poll.
// Ctrl+C is reported as Quit.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/keybus/internal/input/key"
	"github.com/dshills/keybus/internal/input/source"
	"github.com/dshills/keybus/internal/logging"
)

// ErrNotTerminal is returned when stdin is not attached to a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Config configures the terminal source.
type Config struct {
	// ReleaseTimeout is how long a key stays held without a repeat.
	ReleaseTimeout time.Duration

	// BufferSize bounds the events waiting to be polled.
	BufferSize int
}

// DefaultConfig returns the default terminal configuration.
// The release timeout exceeds the usual 500ms terminal repeat delay.
func DefaultConfig() Config {
	return Config{
		ReleaseTimeout: 600 * time.Millisecond,
		BufferSize:     64,
	}
}

type heldKey struct {
	mods key.Modifier
	last time.Time
}

// Terminal is a Source backed by a tcell screen.
type Terminal struct {
	screen tcell.Screen
	cfg    Config
	buf    *source.Buffer
	log    *logging.Logger
	now    func() time.Time

	mu   sync.Mutex
	held map[key.Code]heldKey

	closeOnce sync.Once
	done      chan struct{}
}

var (
	_ source.Source    = (*Terminal)(nil)
	_ source.Indicator = (*Terminal)(nil)
)

// New opens the controlling terminal in raw mode.
func New(cfg Config, logger *logging.Logger) (*Terminal, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(screen, cfg, logger)
}

// NewWithScreen starts reading key events from an existing screen.
// The screen is initialised here and finalised by Close.
func NewWithScreen(screen tcell.Screen, cfg Config, logger *logging.Logger) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	if cfg.ReleaseTimeout <= 0 {
		cfg.ReleaseTimeout = DefaultConfig().ReleaseTimeout
	}
	if logger == nil {
		logger = logging.Nop()
	}

	t := &Terminal{
		screen: screen,
		cfg:    cfg,
		buf:    source.NewBuffer(cfg.BufferSize),
		log:    logger.WithComponent("terminal"),
		now:    time.Now,
		held:   make(map[key.Code]heldKey),
		done:   make(chan struct{}),
	}
	t.drawStatus("press keys, Ctrl+C to quit")
	go t.readLoop()
	return t, nil
}

// Poll implements source.Source. Buffered presses are reported first so a
// key's press always precedes its synthesized release.
func (t *Terminal) Poll() (key.RawEvent, bool) {
	if ev, ok := t.buf.Poll(); ok {
		return ev, true
	}
	return t.expire(t.now())
}

// Close restores the terminal and stops the reader.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.screen.Fini()
		<-t.done
	})
	return nil
}

// Indicate shows the last published event on the status line.
func (t *Terminal) Indicate(ev key.Event) {
	t.drawStatus(ev.String())
}

func (t *Terminal) readLoop() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(e)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) handleKey(e *tcell.EventKey) {
	code, mods, ok := translate(e)
	if !ok {
		t.log.Debug("ignoring unmapped key %s", e.Name())
		return
	}
	if code == 'c' && mods.HasCtrl() {
		t.offer(key.Quit())
		return
	}

	now := t.now()
	t.mu.Lock()
	t.held[code] = heldKey{mods: mods, last: now}
	t.mu.Unlock()

	t.offer(key.RawEvent{Kind: key.KindKeyDown, Code: code, Modifiers: mods, Time: now})
}

// expire returns one release for the lowest held code whose timeout passed.
func (t *Terminal) expire(now time.Time) (key.RawEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var due []key.Code
	for code, h := range t.held {
		if now.Sub(h.last) >= t.cfg.ReleaseTimeout {
			due = append(due, code)
		}
	}
	if len(due) == 0 {
		return key.RawEvent{}, false
	}
	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })

	code := due[0]
	h := t.held[code]
	delete(t.held, code)
	return key.RawEvent{Kind: key.KindKeyUp, Code: code, Modifiers: h.mods, Time: now}, true
}

func (t *Terminal) offer(ev key.RawEvent) {
	if !t.buf.Offer(ev) {
		t.log.Warn("event buffer full, dropped %s %d", ev.Kind, ev.Code)
	}
}

func (t *Terminal) drawStatus(text string) {
	t.screen.Clear()
	style := tcell.StyleDefault
	for i, r := range []rune("keybus: " + text) {
		t.screen.SetContent(i, 0, r, nil, style)
	}
	t.screen.Show()
}

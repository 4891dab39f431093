// Package replay plays back recorded raw keyboard events.
//
// The input is JSON lines, one event per line:
//
//	{"kind":"keydown","code":97,"modifiers":0}
//	{"kind":"keydown","key":"a","mods":"ctrl+shift","after_ms":40}
//	{"kind":"keyup","key":"a"}
//	{"kind":"quit"}
//
// "key" names a key instead of a numeric "code"; "mods" names modifiers
// instead of a numeric "modifiers" mask. "after_ms" holds the event back
// until that long after the previous one was delivered. Blank lines and
// lines starting with '#' are skipped. The end of input is reported as
// Quit.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/keybus/internal/input/key"
	"github.com/dshills/keybus/internal/input/source"
)

// LineError reports a malformed replay line.
type LineError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("replay line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// Replay is a Source reading events from a JSON-lines stream.
type Replay struct {
	scanner *bufio.Scanner
	closer  io.Closer
	now     func() time.Time

	line     int
	pending  *key.RawEvent
	due      time.Time
	last     time.Time
	finished bool
	err      error
}

var _ source.Source = (*Replay)(nil)

// New reads events from r. If r is an io.Closer it is closed by Close.
func New(r io.Reader) *Replay {
	rp := &Replay{
		scanner: bufio.NewScanner(r),
		now:     time.Now,
	}
	if c, ok := r.(io.Closer); ok {
		rp.closer = c
	}
	return rp
}

// Open reads events from the named file.
func Open(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	return New(f), nil
}

// Poll implements source.Source.
func (r *Replay) Poll() (key.RawEvent, bool) {
	if r.finished {
		return key.RawEvent{}, false
	}

	if r.pending == nil {
		ev, after, ok := r.next()
		if !ok {
			r.finished = true
			return key.Quit(), true
		}
		r.pending = &ev
		r.due = r.lastOrNow().Add(after)
	}

	now := r.now()
	if now.Before(r.due) {
		return key.RawEvent{}, false
	}

	ev := *r.pending
	r.pending = nil
	r.last = now
	ev.Time = now
	if ev.Kind == key.KindQuit {
		r.finished = true
	}
	return ev, true
}

// Err returns the first malformed line or read error, if any.
// Reading stops at the first error.
func (r *Replay) Err() error {
	return r.err
}

// Close implements source.Source.
func (r *Replay) Close() error {
	r.finished = true
	if r.closer != nil {
		c := r.closer
		r.closer = nil
		return c.Close()
	}
	return nil
}

func (r *Replay) lastOrNow() time.Time {
	if r.last.IsZero() {
		return r.now()
	}
	return r.last
}

func (r *Replay) next() (key.RawEvent, time.Duration, bool) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		ev, after, err := ParseLine(text)
		if err != nil {
			r.err = &LineError{Line: r.line, Err: err}
			return key.RawEvent{}, 0, false
		}
		return ev, after, true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = err
	}
	return key.RawEvent{}, 0, false
}

// ParseLine decodes a single replay line.
func ParseLine(line string) (key.RawEvent, time.Duration, error) {
	if !gjson.Valid(line) {
		return key.RawEvent{}, 0, errors.New("invalid JSON")
	}
	fields := gjson.GetMany(line, "kind", "code", "key", "modifiers", "mods", "after_ms")
	kindField, codeField, keyField, modsField, modNames, after := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]

	if !kindField.Exists() {
		return key.RawEvent{}, 0, errors.New("missing kind")
	}
	ev := key.RawEvent{Kind: key.KindFromName(kindField.String())}

	if ev.Kind == key.KindKeyDown || ev.Kind == key.KindKeyUp {
		switch {
		case codeField.Exists():
			c := codeField.Int()
			if c < 0 || c > math.MaxInt32 {
				return key.RawEvent{}, 0, fmt.Errorf("code %s out of range", codeField.Raw)
			}
			ev.Code = key.Code(c)
		case keyField.Exists():
			ev.Code = key.CodeFromName(keyField.String())
			if ev.Code == key.CodeUnknown {
				return key.RawEvent{}, 0, fmt.Errorf("unknown key %q", keyField.String())
			}
		default:
			return key.RawEvent{}, 0, fmt.Errorf("%s needs code or key", ev.Kind)
		}

		switch {
		case modsField.Exists():
			m := modsField.Int()
			if m < 0 || m > math.MaxUint16 {
				return key.RawEvent{}, 0, fmt.Errorf("modifiers %s out of range", modsField.Raw)
			}
			ev.Modifiers = key.Modifier(m)
		case modNames.Exists():
			ev.Modifiers = key.ParseModifiers(modNames.String())
		}
	}

	var delay time.Duration
	if after.Exists() {
		if after.Int() < 0 {
			return key.RawEvent{}, 0, errors.New("negative after_ms")
		}
		delay = time.Duration(after.Int()) * time.Millisecond
	}
	return ev, delay, nil
}

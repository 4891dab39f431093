package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/dshills/keybus/internal/event"
	"github.com/dshills/keybus/internal/publish"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

// JSONLines writes key messages as JSON lines.
type JSONLines struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

var _ event.Handler = (*JSONLines)(nil)

// NewJSONLines writes to w. The writer is not closed by Close.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

// OpenJSONLines appends to the file at path, or writes to stdout for "-".
func OpenJSONLines(path string) (*JSONLines, error) {
	if path == Stdout {
		return NewJSONLines(os.Stdout), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return &JSONLines{w: f, closer: f}, nil
}

// Handle implements event.Handler.
func (j *JSONLines) Handle(_ context.Context, ev any) error {
	e, ok := ev.(event.Event[publish.KeyMessage])
	if !ok {
		return nil
	}
	line, err := Encode(e.Type.String(), e.Payload)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return nil
	}
	_, err = j.w.Write(line)
	return err
}

// Close closes the underlying file, if one was opened.
func (j *JSONLines) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.w = nil
	if j.closer != nil {
		c := j.closer
		j.closer = nil
		return c.Close()
	}
	return nil
}

// Encode renders one message as a JSON object.
func Encode(topic string, msg publish.KeyMessage) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"topic", topic},
		{"header.stamp.sec", msg.Header.Stamp.Unix()},
		{"header.stamp.nanosec", msg.Header.Stamp.Nanosecond()},
		{"header.frame_id", msg.Header.FrameID},
		{"header.seq", msg.Header.Seq},
		{"code", int32(msg.Code)},
		{"modifiers", uint16(msg.Modifiers)},
	}

	out := []byte("{}")
	var err error
	for _, f := range fields {
		if out, err = sjson.SetBytes(out, f.path, f.value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.path, err)
		}
	}
	return out, nil
}

package publish

import (
	"fmt"
	"time"

	"github.com/dshills/keybus/internal/input/key"
)

// Header carries the metadata every key message is stamped with.
type Header struct {
	// Stamp is when the key transition was captured.
	Stamp time.Time

	// FrameID names the coordinate frame the message belongs to.
	FrameID string

	// Seq counts messages per topic, starting at 1.
	Seq uint64
}

// KeyMessage is the payload published on the key-down and key-up topics.
type KeyMessage struct {
	Header    Header
	Code      key.Code
	Modifiers key.Modifier
}

// String returns a short description such as "#3 97 mods=0x40".
func (m KeyMessage) String() string {
	return fmt.Sprintf("#%d %d mods=%#x", m.Header.Seq, m.Code, uint16(m.Modifiers))
}

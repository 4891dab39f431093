// Package publish turns key events into messages on the bus.
//
// Pressed events go to the key-down topic and Released events to the key-up
// topic. A failed publish is logged and the event is dropped; the poll loop
// is never interrupted by a delivery problem.
package publish

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/keybus/internal/event"
	"github.com/dshills/keybus/internal/event/topic"
	"github.com/dshills/keybus/internal/input/key"
	"github.com/dshills/keybus/internal/logging"
)

// Source is the metadata source recorded on every published event.
const Source = "keyboard"

// Config configures a Publisher.
type Config struct {
	KeyDownTopic topic.Topic
	KeyUpTopic   topic.Topic
	FrameID      string
}

// DefaultConfig returns the default topics.
func DefaultConfig() Config {
	return Config{
		KeyDownTopic: "keydown",
		KeyUpTopic:   "keyup",
	}
}

// Publisher routes key events to their topic.
type Publisher struct {
	bus event.Bus
	cfg Config
	log *logging.Logger
	now func() time.Time

	mu  sync.Mutex
	seq map[topic.Topic]uint64
}

// New creates a publisher on bus.
func New(bus event.Bus, cfg Config, logger *logging.Logger) *Publisher {
	def := DefaultConfig()
	if cfg.KeyDownTopic == "" {
		cfg.KeyDownTopic = def.KeyDownTopic
	}
	if cfg.KeyUpTopic == "" {
		cfg.KeyUpTopic = def.KeyUpTopic
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Publisher{
		bus: bus,
		cfg: cfg,
		log: logger.WithComponent("publish"),
		now: time.Now,
		seq: make(map[topic.Topic]uint64),
	}
}

// TopicFor returns the topic ev is published on.
func (p *Publisher) TopicFor(ev key.Event) topic.Topic {
	if ev.IsPress() {
		return p.cfg.KeyDownTopic
	}
	return p.cfg.KeyUpTopic
}

// Publish sends ev to its topic. It reports whether the message was accepted
// by every subscriber.
func (p *Publisher) Publish(ctx context.Context, ev key.Event) bool {
	t := p.TopicFor(ev)
	msg := p.message(t, ev)

	p.log.Debug("key %d %s", ev.Code, ev.Transition)

	if err := p.bus.Publish(ctx, event.NewEvent(t, msg, Source)); err != nil {
		p.log.Warn("publish %s failed: %v", t, err)
		return false
	}
	return true
}

func (p *Publisher) message(t topic.Topic, ev key.Event) KeyMessage {
	stamp := ev.Timestamp
	if stamp.IsZero() {
		stamp = p.now()
	}

	p.mu.Lock()
	p.seq[t]++
	seq := p.seq[t]
	p.mu.Unlock()

	return KeyMessage{
		Header:    Header{Stamp: stamp, FrameID: p.cfg.FrameID, Seq: seq},
		Code:      ev.Code,
		Modifiers: ev.Modifiers,
	}
}

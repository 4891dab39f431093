package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks poll loop activity.
// All methods are safe for concurrent use.
type Metrics struct {
	// Poll ticks
	tickCount atomic.Uint64
	idleTicks atomic.Uint64

	// Step timing
	stepTotalNs atomic.Int64
	stepMinNs   atomic.Int64
	stepMaxNs   atomic.Int64

	// Tracker outcomes
	pressed    atomic.Uint64
	released   atomic.Uint64
	suppressed atomic.Uint64
	ignored    atomic.Uint64

	// Publishing
	publishFailed atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.stepMinNs.Store(1<<63 - 1)
	return m
}

// RecordTick records one poll tick and how long its step took.
// idle is true when the source had nothing to deliver.
func (m *Metrics) RecordTick(duration time.Duration, idle bool) {
	ns := duration.Nanoseconds()
	m.tickCount.Add(1)
	if idle {
		m.idleTicks.Add(1)
	}
	m.stepTotalNs.Add(ns)

	for {
		old := m.stepMinNs.Load()
		if ns >= old || m.stepMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.stepMaxNs.Load()
		if ns <= old || m.stepMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordPressed records a published press.
func (m *Metrics) RecordPressed() {
	m.pressed.Add(1)
}

// RecordReleased records a published release.
func (m *Metrics) RecordReleased() {
	m.released.Add(1)
}

// RecordSuppressed records a key-down dropped as a repeat.
func (m *Metrics) RecordSuppressed() {
	m.suppressed.Add(1)
}

// RecordIgnored records a raw event of a kind the tracker does not act on.
func (m *Metrics) RecordIgnored() {
	m.ignored.Add(1)
}

// RecordPublishFailed records a key event the bus did not accept.
func (m *Metrics) RecordPublishFailed() {
	m.publishFailed.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	ticks := m.tickCount.Load()

	var avgStepNs int64
	if ticks > 0 {
		avgStepNs = m.stepTotalNs.Load() / int64(ticks)
	}
	minStepNs := m.stepMinNs.Load()
	if minStepNs == 1<<63-1 {
		minStepNs = 0
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		Ticks:         ticks,
		IdleTicks:     m.idleTicks.Load(),
		AvgStepNs:     avgStepNs,
		MinStepNs:     minStepNs,
		MaxStepNs:     m.stepMaxNs.Load(),
		Pressed:       m.pressed.Load(),
		Released:      m.released.Load(),
		Suppressed:    m.suppressed.Load(),
		Ignored:       m.ignored.Load(),
		PublishFailed: m.publishFailed.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Ticks         uint64
	IdleTicks     uint64
	AvgStepNs     int64
	MinStepNs     int64
	MaxStepNs     int64
	Pressed       uint64
	Released      uint64
	Suppressed    uint64
	Ignored       uint64
	PublishFailed uint64
}

// Published returns the number of key events handed to the bus.
func (s MetricsSnapshot) Published() uint64 {
	return s.Pressed + s.Released
}

// IdleRate returns the percentage of ticks with no raw event.
func (s MetricsSnapshot) IdleRate() float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(s.IdleTicks) / float64(s.Ticks) * 100
}

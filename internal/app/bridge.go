// Package app wires the keyboard bridge together and runs its poll loop.
//
// A Bridge owns one input source, the key tracker, the publisher and the
// message bus with its sinks. Run polls the source on a fixed cadence; each
// tick reads at most one raw event and processes it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keybus/internal/config"
	"github.com/dshills/keybus/internal/event"
	"github.com/dshills/keybus/internal/event/topic"
	"github.com/dshills/keybus/internal/input/key"
	"github.com/dshills/keybus/internal/input/source"
	"github.com/dshills/keybus/internal/input/source/replay"
	"github.com/dshills/keybus/internal/input/source/terminal"
	"github.com/dshills/keybus/internal/input/source/window"
	"github.com/dshills/keybus/internal/input/tracker"
	"github.com/dshills/keybus/internal/logging"
	"github.com/dshills/keybus/internal/publish"
	"github.com/dshills/keybus/internal/sink"
)

// DefaultShutdownTimeout bounds draining the bus on Shutdown.
const DefaultShutdownTimeout = 2 * time.Second

// Options configures a Bridge.
type Options struct {
	// Config is the validated configuration. Defaults are used when nil.
	Config *config.Config

	// Logger is the root logger. A no-op logger is used when nil.
	Logger *logging.Logger

	// Source replaces the source named by keyboard.source.
	Source source.Source

	// Output replaces the file or stdout named by output.path.
	Output io.Writer

	// Sinks are extra handlers subscribed to both key topics. Those that
	// implement io.Closer are closed by Shutdown.
	Sinks []event.Handler
}

// sinkEntry is a handler the bridge subscribed and may need to close.
type sinkEntry struct {
	name    string
	handler event.Handler
}

// Bridge polls a keyboard source and publishes key transitions.
type Bridge struct {
	cfg     *config.Config
	log     *logging.Logger
	bus     event.Bus
	src     source.Source
	tracker *tracker.Tracker
	pub     *publish.Publisher
	sinks   []sinkEntry
	metrics *Metrics

	running      atomic.Bool
	shutdown     atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// New builds a bridge from opts and starts its bus.
// Any failure is returned as an *InitError after releasing what was opened.
func New(opts Options) (_ *Bridge, err error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	b := &Bridge{
		cfg:     cfg,
		log:     logger.WithComponent("bridge"),
		tracker: tracker.New(cfg.Keyboard.AllowRepeat),
		metrics: NewMetrics(),
	}
	defer func() {
		if err != nil {
			_ = b.Shutdown(context.Background())
		}
	}()

	b.bus = event.NewBus(
		event.WithAsyncQueueSize(cfg.Bus.QueueSize),
		event.WithAsyncWorkerCount(cfg.Bus.Workers),
		event.WithErrorHandler(b.handlerFailed),
	)
	if err := b.bus.Start(); err != nil {
		return nil, initError("bus", err)
	}

	b.pub = publish.New(b.bus, publish.Config{
		KeyDownTopic: topic.Topic(cfg.Bus.KeyDownTopic),
		KeyUpTopic:   topic.Topic(cfg.Bus.KeyUpTopic),
		FrameID:      cfg.Output.FrameID,
	}, logger)

	if err := b.openSinks(opts, logger); err != nil {
		return nil, err
	}

	b.src = opts.Source
	if b.src == nil {
		src, err := openSource(cfg, logger)
		if err != nil {
			return nil, initError("source", err)
		}
		b.src = src
	}

	b.log.Info("started: source=%s allow_repeat=%t repeat_delay=%d repeat_interval=%d",
		cfg.Keyboard.Source, cfg.Keyboard.AllowRepeat,
		cfg.Keyboard.RepeatDelay, cfg.Keyboard.RepeatInterval)
	return b, nil
}

func (b *Bridge) openSinks(opts Options, logger *logging.Logger) error {
	cfg := b.cfg

	switch {
	case opts.Output != nil:
		b.sinks = append(b.sinks, sinkEntry{"output", sink.NewJSONLines(opts.Output)})
	case cfg.Output.Path != "":
		out, err := sink.OpenJSONLines(cfg.Output.Path)
		if err != nil {
			return initError("output", err)
		}
		b.sinks = append(b.sinks, sinkEntry{"output", out})
	}

	if cfg.Script.Path != "" {
		script, err := sink.NewScript(sink.ScriptConfig{
			Path:    cfg.Script.Path,
			Watch:   cfg.Script.Watch,
			Timeout: cfg.Script.Timeout(),
		}, logger)
		if err != nil {
			return initError("script", err)
		}
		b.sinks = append(b.sinks, sinkEntry{"script", script})
	}

	for i, h := range opts.Sinks {
		b.sinks = append(b.sinks, sinkEntry{fmt.Sprintf("sink%d", i), h})
	}

	for _, s := range b.sinks {
		for _, t := range []string{cfg.Bus.KeyDownTopic, cfg.Bus.KeyUpTopic} {
			_, err := b.bus.Subscribe(topic.Topic(t), s.handler,
				event.WithPriority(event.PriorityHigh),
				event.WithDeliveryMode(event.DeliveryAsync),
			)
			if err != nil {
				return initError(s.name, err)
			}
		}
	}
	return nil
}

// openSource creates the source named by keyboard.source.
func openSource(cfg *config.Config, logger *logging.Logger) (source.Source, error) {
	k := cfg.Keyboard
	switch k.Source {
	case config.SourceWindow:
		return window.New(window.Config{
			Title:          cfg.Window.Title,
			Width:          cfg.Window.Width,
			Height:         cfg.Window.Height,
			RepeatDelay:    k.EffectiveRepeatDelay(),
			RepeatInterval: k.EffectiveRepeatInterval(),
		}, logger), nil
	case config.SourceTerminal:
		return terminal.New(terminal.Config{ReleaseTimeout: k.ReleaseTimeout()}, logger)
	case config.SourceReplay:
		return replay.Open(k.ReplayFile)
	default:
		return nil, fmt.Errorf("unknown source %q", k.Source)
	}
}

// Source returns the input source. A source that also implements
// source.Runner must have Run called on the main goroutine.
func (b *Bridge) Source() source.Source {
	return b.src
}

// Bus returns the message bus key events are published on.
func (b *Bridge) Bus() event.Bus {
	return b.bus
}

// Metrics returns the poll loop metrics.
func (b *Bridge) Metrics() *Metrics {
	return b.metrics
}

// IsRunning reports whether Run is active.
func (b *Bridge) IsRunning() bool {
	return b.running.Load()
}

// Run polls the source every poll interval until the source quits or ctx
// is done. A quit returns nil unless the source recorded a read error.
func (b *Bridge) Run(ctx context.Context) error {
	if b.shutdown.Load() {
		return ErrNotRunning
	}
	if !b.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer b.running.Store(false)

	ticker := time.NewTicker(b.cfg.Keyboard.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := b.Step(ctx)
			if errors.Is(err, ErrQuit) {
				b.log.Info("quit received")
				return b.sourceErr()
			}
			if err != nil {
				return err
			}
		}
	}
}

// Step performs one poll: at most one raw event is read and processed.
// It returns ErrQuit when the source asked to stop.
func (b *Bridge) Step(ctx context.Context) error {
	if b.shutdown.Load() {
		return ErrNotRunning
	}
	start := time.Now()

	raw, ok := b.src.Poll()
	if !ok {
		b.metrics.RecordTick(time.Since(start), true)
		return nil
	}

	res := b.tracker.Process(raw)
	switch {
	case res.Quit:
		b.metrics.RecordTick(time.Since(start), false)
		return ErrQuit
	case !res.Emit:
		if raw.Kind == key.KindKeyDown {
			b.metrics.RecordSuppressed()
		} else {
			b.metrics.RecordIgnored()
		}
		b.metrics.RecordTick(time.Since(start), false)
		return nil
	}

	ev := res.Event
	switch {
	case !b.pub.Publish(ctx, ev):
		b.metrics.RecordPublishFailed()
	case ev.IsPress():
		b.metrics.RecordPressed()
	default:
		b.metrics.RecordReleased()
	}
	if ind, ok := b.src.(source.Indicator); ok {
		ind.Indicate(ev)
	}

	b.metrics.RecordTick(time.Since(start), false)
	return nil
}

func (b *Bridge) sourceErr() error {
	if s, ok := b.src.(interface{ Err() error }); ok {
		return s.Err()
	}
	return nil
}

func (b *Bridge) handlerFailed(sub event.Subscription, _ any, err error) {
	b.log.Warn("sink on %s failed: %v", sub.Topic(), err)
}

// Shutdown closes the source, drains the bus and closes the sinks.
// It is safe to call more than once; later calls return the first result.
func (b *Bridge) Shutdown(ctx context.Context) error {
	b.shutdownOnce.Do(func() {
		b.shutdown.Store(true)
		var errs ErrorList

		if b.src != nil {
			errs.Add(b.src.Close())
		}
		if b.bus != nil && b.bus.IsRunning() {
			errs.Add(b.bus.Stop(ctx))
		}
		for _, s := range b.sinks {
			if c, ok := s.handler.(io.Closer); ok {
				errs.Add(c.Close())
			}
		}

		snap := b.metrics.Snapshot()
		b.log.Info("stopped: pressed=%d released=%d suppressed=%d publish_failed=%d",
			snap.Pressed, snap.Released, snap.Suppressed, snap.PublishFailed)
		b.shutdownErr = errs.AsError()
	})
	return b.shutdownErr
}

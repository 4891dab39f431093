package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dshills/keybus/internal/event/topic"
)

// Bus is the central event bus interface.
type Bus interface {
	// Publishing
	Publish(ctx context.Context, event any) error

	// Subscription
	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	// Lifecycle
	Start() error
	Stop(ctx context.Context) error

	// Status
	Stats() Stats
	IsRunning() bool
}

type job struct {
	ctx   context.Context
	event any
	topic topic.Topic
	sub   *subscription
}

type bus struct {
	registry *Registry
	config   busConfig

	mu      sync.RWMutex
	queue   chan job
	workers sync.WaitGroup
	running atomic.Bool

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	eventsDropped   atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{
		registry: NewRegistry(),
		config:   config,
	}
}

// Start starts the async workers.
func (b *bus) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running.Load() {
		return ErrBusAlreadyRunning
	}
	b.queue = make(chan job, b.config.asyncQueueSize)
	for i := 0; i < b.config.asyncWorkerCount; i++ {
		b.workers.Add(1)
		go b.worker(b.queue)
	}
	b.running.Store(true)
	return nil
}

// Stop stops the bus. Queued async events are drained until ctx is done.
func (b *bus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running.Swap(false) {
		b.mu.Unlock()
		return ErrBusNotRunning
	}
	close(b.queue)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning returns true if the bus is running.
func (b *bus) IsRunning() bool {
	return b.running.Load()
}

// Publish delivers the event to every matching subscription. Sync handlers
// run before Publish returns and their errors are joined into the result.
// Async deliveries that do not fit in the queue are dropped and reported
// as ErrQueueFull.
func (b *bus) Publish(ctx context.Context, event any) error {
	eventTopic := extractTopic(event)
	if eventTopic == "" {
		return ErrInvalidEvent
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.running.Load() {
		return ErrBusNotRunning
	}

	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range b.registry.Match(eventTopic) {
		if !sub.shouldDeliver(event) {
			continue
		}
		if sub.Config().DeliveryMode == DeliveryAsync {
			select {
			case b.queue <- job{ctx: context.WithoutCancel(ctx), event: event, topic: eventTopic, sub: sub}:
			default:
				b.eventsDropped.Add(1)
				errs = append(errs, fmt.Errorf("%w: subscription %s", ErrQueueFull, sub.ID()))
			}
			continue
		}
		if err := b.execute(ctx, sub, eventTopic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe creates a new subscription for the given topic pattern.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, topicPattern)
	}

	sub := newSubscription(topicPattern, handler, opts...)
	b.registry.add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.registry.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	b.mu.RLock()
	depth := 0
	if b.queue != nil {
		depth = len(b.queue)
	}
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		EventsDropped:     b.eventsDropped.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.CountActive(),
		QueueDepth:        depth,
	}
}

func (b *bus) worker(queue <-chan job) {
	defer b.workers.Done()
	for j := range queue {
		ctx := j.ctx
		var cancel context.CancelFunc
		if b.config.handlerTimeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, b.config.handlerTimeout)
		}
		_ = b.execute(ctx, j.sub, j.topic, j.event)
		if cancel != nil {
			cancel()
		}
	}
}

// execute runs one handler, converting a panic into a PanicError.
func (b *bus) execute(ctx context.Context, sub *subscription, t topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err = &PanicError{
				SubscriptionID: sub.ID(),
				Topic:          t.String(),
				Value:          r,
				Stack:          string(debug.Stack()),
			}
			b.reportError(sub, event, err)
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		err = &HandlerError{SubscriptionID: sub.ID(), Topic: t.String(), Err: herr}
		b.reportError(sub, event, err)
		return err
	}
	b.eventsDelivered.Add(1)
	return nil
}

func (b *bus) reportError(sub Subscription, event any, err error) {
	if b.config.errorHandler != nil {
		b.config.errorHandler(sub, event, err)
	}
}

func extractTopic(event any) topic.Topic {
	if tp, ok := event.(TopicProvider); ok {
		return tp.EventTopic()
	}
	return ""
}

// Package event provides the in-process message bus that key transitions
// are published on.
//
// # Overview
//
// Publishers hand the bus any value that names its topic (see TopicProvider).
// Subscribers register a Handler for a topic pattern; patterns may use the
// "*" and "**" wildcards described in package topic.
//
// # Delivery Modes
//
//   - Sync: the handler runs in the publisher's goroutine before Publish returns
//   - Async: the event is queued and handled by a worker pool
//
// The async queue is bounded. When it is full the event is dropped for that
// subscriber and counted in Stats; the bus never blocks the publisher. With
// the default single worker, async handlers observe events in publish order.
//
// # Priority Ordering
//
// Matching subscriptions run in ascending Priority order. Handler panics are
// recovered and counted; they never reach the publisher.
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithAsyncQueueSize(10))
//	if err := bus.Start(); err != nil {
//	    return err
//	}
//	defer bus.Stop(context.Background())
//
//	sub, err := bus.SubscribeFunc("keyboard.*", func(ctx context.Context, ev any) error {
//	    msg := ev.(event.Event[publish.KeyMessage])
//	    ...
//	    return nil
//	}, event.WithDeliveryMode(event.DeliveryAsync))
//
//	err = bus.Publish(ctx, event.NewEvent("keyboard.keydown", msg, "keybus"))
//
// # Thread Safety
//
// The Bus and all public types are safe for concurrent use.
package event

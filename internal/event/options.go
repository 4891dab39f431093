package event

import "time"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	asyncQueueSize   int
	asyncWorkerCount int
	handlerTimeout   time.Duration
	errorHandler     ErrorHandler
}

func defaultBusConfig() busConfig {
	return busConfig{
		asyncQueueSize:   10,
		asyncWorkerCount: 1,
		handlerTimeout:   5 * time.Second,
	}
}

// WithAsyncQueueSize sets the async event queue size.
func WithAsyncQueueSize(size int) BusOption {
	return func(c *busConfig) {
		if size > 0 {
			c.asyncQueueSize = size
		}
	}
}

// WithAsyncWorkerCount sets the number of async worker goroutines.
// More than one worker gives up ordering between async deliveries.
func WithAsyncWorkerCount(count int) BusOption {
	return func(c *busConfig) {
		if count > 0 {
			c.asyncWorkerCount = count
		}
	}
}

// WithHandlerTimeout bounds each async handler execution.
// Zero disables the timeout.
func WithHandlerTimeout(timeout time.Duration) BusOption {
	return func(c *busConfig) {
		c.handlerTimeout = timeout
	}
}

// WithErrorHandler sets the callback for failed handler executions.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// Package source defines where raw keyboard events come from.
//
// A Source is polled by the application loop once per tick. Poll never
// blocks: it returns the next pending event, or false when nothing is
// waiting. Implementations that need the calling goroutine for their own
// frame loop (such as the desktop window) also implement Runner; the
// application then drives Run on the main goroutine and polls from another.
//
// Implementations:
//
//   - Queue: in-memory FIFO used by tests and embedders
//   - window: desktop window keyboard input (subpackage window)
//   - terminal: raw-mode terminal input (subpackage terminal)
//   - replay: JSON-lines event scripts (subpackage replay)
package source

package router

import (
	"errors"
	"fmt"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// Errors
var (
	ErrQueueFull      = errors.New("endpoint queue at capacity")
	ErrNotInitialized = errors.New("router not initialized")
	ErrClosed         = errors.New("router closed")
)

// TransmitError wraps a failure of the injected byte sink. The router never
// retries; retry policy belongs to the caller.
type TransmitError struct {
	Err error
}

func (e *TransmitError) Error() string {
	return fmt.Sprintf("transmit failed: %v", e.Err)
}

func (e *TransmitError) Unwrap() error {
	return e.Err
}

// Handler is invoked with each dispatched packet. A non-nil error is counted
// and logged but never propagated to other handlers. Handlers run on the
// drain worker and must stay fast; a slow handler stalls the whole pass.
type Handler func(*telemetry.Packet) error

// ByteSink transmits a serialized byte buffer out of the process.
type ByteSink func([]byte) error

// ClockFunc returns the current time in epoch milliseconds.
type ClockFunc func() int64

// Registration binds a handler to an endpoint, optionally filtered to a
// single data type (nil filter = all types at that endpoint).
type Registration struct {
	Endpoint telemetry.DataEndpoint
	Handler  Handler
	Filter   *telemetry.DataType
}

// Config holds router queue settings.
type Config struct {
	// QueueInitial is the starting capacity of each endpoint queue.
	QueueInitial int

	// QueueMax caps each endpoint queue; Submit fails with ErrQueueFull at
	// the cap (reject-new, never drop-oldest). 0 means unbounded.
	QueueMax int
}

// DefaultConfig returns default queue settings.
func DefaultConfig() Config {
	return Config{
		QueueInitial: 64,
		QueueMax:     10000,
	}
}

// Stats contains runtime statistics.
type Stats struct {
	Submitted       int64
	Dispatched      int64
	HandlerFailures int64
	Rejected        int64
	Queues          map[telemetry.DataEndpoint]QueueStats
}

package link

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
)

// ClientConfig holds settings for a single bridge connection.
type ClientConfig struct {
	URL          string
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// TimestampedFrame wraps a raw frame with its receive timestamp.
type TimestampedFrame struct {
	Data       []byte
	ReceivedAt time.Time
}

package router

import (
	"sync"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// Queue is a thread-safe FIFO ring buffer of pending packets. It doubles its
// capacity when it reaches 70% full, up to a hard cap; at the cap, Send
// rejects new packets.
type Queue struct {
	mu       sync.Mutex
	buf      []*telemetry.Packet
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	max      int // 0 = unbounded
	closed   bool

	// Stats
	totalEnqueued int64
	totalDequeued int64
	rejected      int64
	resizeCount   int
}

// NewQueue creates a queue with the given initial capacity and hard cap.
// max = 0 means the queue grows without bound.
func NewQueue(initialCapacity, max int) *Queue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	if max > 0 && initialCapacity > max {
		initialCapacity = max
	}
	return &Queue{
		buf:      make([]*telemetry.Packet, initialCapacity),
		capacity: initialCapacity,
		max:      max,
	}
}

// Send enqueues a packet. Grows the queue if at 70% capacity and below the
// cap. Returns ErrQueueFull at the cap and ErrClosed after Close.
func (q *Queue) Send(pkt *telemetry.Packet) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.max > 0 && q.count >= q.max {
		q.rejected++
		return ErrQueueFull
	}

	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold && (q.max == 0 || q.capacity < q.max) {
		q.grow()
	}

	q.buf[q.tail] = pkt
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	q.totalEnqueued++
	return nil
}

// TryReceive dequeues the oldest packet without blocking. Returns false if
// the queue is empty.
func (q *Queue) TryReceive() (*telemetry.Packet, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil, false
	}
	return q.pop(), true
}

// Drain removes every pending packet in FIFO order.
func (q *Queue) Drain() []*telemetry.Packet {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil
	}

	out := make([]*telemetry.Packet, q.count)
	for i := range out {
		out[i] = q.pop()
	}
	return out
}

// Close marks the queue closed. Pending packets remain drainable; Send fails
// with ErrClosed.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Len returns the current number of pending packets.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the current ring capacity.
func (q *Queue) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// Stats returns queue statistics.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Pending:       q.count,
		Capacity:      q.capacity,
		Max:           q.max,
		TotalEnqueued: q.totalEnqueued,
		TotalDequeued: q.totalDequeued,
		Rejected:      q.rejected,
		ResizeCount:   q.resizeCount,
	}
}

// QueueStats contains queue statistics.
type QueueStats struct {
	Pending       int
	Capacity      int
	Max           int
	TotalEnqueued int64
	TotalDequeued int64
	Rejected      int64
	ResizeCount   int
}

// pop removes the head packet. Must be called with the lock held and count > 0.
func (q *Queue) pop() *telemetry.Packet {
	pkt := q.buf[q.head]
	q.buf[q.head] = nil // release for GC
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.totalDequeued++
	return pkt
}

// grow doubles the ring capacity, clamped to the cap. Must be called with
// the lock held.
func (q *Queue) grow() {
	newCapacity := q.capacity * 2
	if q.max > 0 && newCapacity > q.max {
		newCapacity = q.max
	}
	if newCapacity <= q.capacity {
		return
	}

	newBuf := make([]*telemetry.Packet, newCapacity)
	if q.count > 0 {
		if q.head < q.tail {
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}

	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity = newCapacity
	q.resizeCount++
}

package router

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sedsgs/groundstation-data/internal/metrics"
	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// Router owns the handler registry and the per-endpoint queues, and runs the
// drain/dispatch pass. Producers call Submit from any goroutine; the drain
// loop runs ProcessAllQueuesWithTimeout on a dedicated worker, and handlers
// execute on that worker.
type Router struct {
	cfg      Config
	logger   *slog.Logger
	tx       ByteSink
	nowMS    ClockFunc
	registry *Registry

	queues map[telemetry.DataEndpoint]*Queue

	notify    chan struct{}
	closed    chan struct{}
	closeOnce sync.Once

	mu              sync.Mutex
	submitted       int64
	dispatched      int64
	unhandled       int64
	handlerFailures int64
	rejected        int64
}

// New creates a router bound to the given collaborators. Both tx and nowMS
// are required; a router without them cannot do useful work.
func New(cfg Config, tx ByteSink, nowMS ClockFunc, regs []Registration, logger *slog.Logger) (*Router, error) {
	if tx == nil || nowMS == nil {
		return nil, fmt.Errorf("%w: nil collaborators", ErrNotInitialized)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueInitial < 1 {
		cfg.QueueInitial = DefaultConfig().QueueInitial
	}

	queues := make(map[telemetry.DataEndpoint]*Queue, len(telemetry.Endpoints()))
	for _, ep := range telemetry.Endpoints() {
		queues[ep] = NewQueue(cfg.QueueInitial, cfg.QueueMax)
	}

	return &Router{
		cfg:      cfg,
		logger:   logger,
		tx:       tx,
		nowMS:    nowMS,
		registry: NewRegistry(regs),
		queues:   queues,
		notify:   make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}, nil
}

// Register adds a handler after construction. Safe to call concurrently with
// dispatch.
func (r *Router) Register(reg Registration) {
	r.registry.Register(reg)
}

// NewPacket constructs a packet stamped with the router's injected clock.
func (r *Router) NewPacket(dt telemetry.DataType, ep telemetry.DataEndpoint, payload []byte) (*telemetry.Packet, error) {
	return telemetry.NewPacket(dt, ep, payload, r.nowMS())
}

// NowMS returns the current time from the injected clock.
func (r *Router) NowMS() int64 {
	return r.nowMS()
}

// Submit enqueues a packet onto its endpoint's queue. Non-blocking; fails
// with ErrQueueFull when the queue is at capacity and ErrClosed after Close.
func (r *Router) Submit(pkt *telemetry.Packet) error {
	select {
	case <-r.closed:
		return ErrClosed
	default:
	}

	q := r.queues[pkt.Endpoint()]
	if err := q.Send(pkt); err != nil {
		if errors.Is(err, ErrQueueFull) {
			r.mu.Lock()
			r.rejected++
			r.mu.Unlock()
			metrics.PacketsRejected.WithLabelValues(pkt.Endpoint().String()).Inc()
			r.logger.Warn("packet rejected, queue full",
				"endpoint", pkt.Endpoint(),
				"data_type", pkt.DataType(),
			)
		}
		return err
	}

	r.mu.Lock()
	r.submitted++
	r.mu.Unlock()
	metrics.PacketsSubmitted.WithLabelValues(pkt.Endpoint().String()).Inc()

	// Wake the drain loop if it is waiting for work.
	select {
	case r.notify <- struct{}{}:
	default:
	}
	return nil
}

// ProcessAllQueuesWithTimeout drains every non-empty queue once, dispatching
// each packet to its resolved handlers synchronously, FIFO per endpoint.
// When all queues are empty it blocks waiting for new work: timeoutMS of 0
// returns immediately, positive blocks at most that long, negative blocks
// until work arrives or the router closes. Returns the number of packets
// dispatched in the pass.
func (r *Router) ProcessAllQueuesWithTimeout(timeoutMS int64) int {
	if n := r.drainOnce(); n > 0 {
		return n
	}
	if timeoutMS == 0 {
		return 0
	}

	var timeout <-chan time.Time
	if timeoutMS > 0 {
		t := time.NewTimer(time.Duration(timeoutMS) * time.Millisecond)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-r.notify:
		return r.drainOnce()
	case <-timeout:
		return 0
	case <-r.closed:
		return r.drainOnce()
	}
}

// Transmit invokes the injected byte sink once. Failures are wrapped as
// TransmitError and surfaced to the caller; the router does not retry.
func (r *Router) Transmit(buf []byte) error {
	if err := r.tx(buf); err != nil {
		metrics.TransmitFailures.Inc()
		return &TransmitError{Err: err}
	}
	return nil
}

// Close signals shutdown. Pending packets remain drainable by one final
// ProcessAllQueuesWithTimeout call; Submit fails afterwards.
func (r *Router) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
		for _, q := range r.queues {
			q.Close()
		}
		r.logger.Info("router closed")
	})
}

// Stats returns current statistics.
func (r *Router) Stats() Stats {
	r.mu.Lock()
	s := Stats{
		Submitted:       r.submitted,
		Dispatched:      r.dispatched,
		HandlerFailures: r.handlerFailures,
		Rejected:        r.rejected,
	}
	r.mu.Unlock()

	s.Queues = make(map[telemetry.DataEndpoint]QueueStats, len(r.queues))
	for ep, q := range r.queues {
		s.Queues[ep] = q.Stats()
	}
	return s
}

// drainOnce empties every queue in endpoint order and dispatches the packets.
func (r *Router) drainOnce() int {
	total := 0
	for _, ep := range telemetry.Endpoints() {
		for _, pkt := range r.queues[ep].Drain() {
			r.dispatch(pkt)
			total++
		}
	}
	return total
}

// dispatch delivers one packet to its handlers in registration order. A
// failing handler is logged and counted; the chain continues.
func (r *Router) dispatch(pkt *telemetry.Packet) {
	handlers := r.registry.Resolve(pkt)
	if len(handlers) == 0 {
		r.mu.Lock()
		r.unhandled++
		r.mu.Unlock()
		r.logger.Debug("no handlers for packet",
			"endpoint", pkt.Endpoint(),
			"data_type", pkt.DataType(),
		)
		return
	}

	for _, h := range handlers {
		if err := r.invoke(h, pkt); err != nil {
			r.mu.Lock()
			r.handlerFailures++
			r.mu.Unlock()
			metrics.HandlerFailures.Inc()
			r.logger.Error("handler failed",
				"endpoint", pkt.Endpoint(),
				"data_type", pkt.DataType(),
				"error", err,
			)
		}
	}

	r.mu.Lock()
	r.dispatched++
	r.mu.Unlock()
	metrics.PacketsDispatched.Inc()
}

// invoke runs a handler with panic containment.
func (r *Router) invoke(h Handler, pkt *telemetry.Packet) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(pkt)
}

package link

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sedsgs/groundstation-data/internal/config"
	"github.com/sedsgs/groundstation-data/internal/metrics"
	"github.com/sedsgs/groundstation-data/internal/router"
	"github.com/sedsgs/groundstation-data/internal/telemetry"
	"github.com/sedsgs/groundstation-data/internal/wire"
)

// PacketSink receives decoded inbound packets. Satisfied by *router.Router.
type PacketSink interface {
	Submit(*telemetry.Packet) error
}

// ManagerStats provides statistics about the link.
type ManagerStats struct {
	Connects    int64
	Frames      int64
	FrameErrors int64
	Connected   bool
}

// Manager owns the bridge connection, reconnecting with exponential backoff,
// decoding inbound frames into packets and submitting them to the router.
type Manager struct {
	cfg    config.LinkConfig
	logger *slog.Logger
	sink   PacketSink

	// dial is swappable for tests.
	dial func(ctx context.Context) (Client, error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	client      Client
	connects    int64
	frames      int64
	frameErrors int64
}

// NewManager creates a link manager feeding the given packet sink.
func NewManager(cfg config.LinkConfig, sink PacketSink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:    cfg,
		logger: logger,
		sink:   sink,
	}
	m.dial = func(ctx context.Context) (Client, error) {
		c := NewClient(ClientConfig{
			URL:          cfg.URL,
			PingInterval: cfg.PingInterval,
			ReadTimeout:  cfg.ReadTimeout,
		}, logger)
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
		return c, nil
	}
	return m
}

// Start begins the connect/consume loop.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.run()

	m.logger.Info("radio link started", "url", m.cfg.URL)
	return nil
}

// Stop gracefully shuts down the link.
func (m *Manager) Stop(ctx context.Context) error {
	m.logger.Info("stopping radio link")

	if m.cancel != nil {
		m.cancel()
	}
	m.closeClient()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("radio link stopped")
	case <-ctx.Done():
		m.logger.Warn("radio link stop timed out")
	}
	return nil
}

// Sink returns the outbound byte sink, bound as the router's transmit
// collaborator. Fails with ErrNotConnected while the bridge is down; the
// caller owns any retry.
func (m *Manager) Sink() router.ByteSink {
	return func(buf []byte) error {
		m.mu.RLock()
		c := m.client
		m.mu.RUnlock()

		if c == nil {
			return ErrNotConnected
		}
		return c.Send(buf)
	}
}

// Stats returns current link statistics.
func (m *Manager) Stats() ManagerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	connected := m.client != nil && m.client.IsConnected()
	return ManagerStats{
		Connects:    m.connects,
		Frames:      m.frames,
		FrameErrors: m.frameErrors,
		Connected:   connected,
	}
}

// run is the connect/consume loop with exponential backoff.
func (m *Manager) run() {
	defer m.wg.Done()

	delay := m.cfg.ReconnectBaseDelay
	if delay == 0 {
		delay = time.Second
	}

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		client, err := m.dial(m.ctx)
		if err != nil {
			m.logger.Warn("bridge connect failed", "error", err, "retry_in", delay)
			select {
			case <-m.ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if max := m.cfg.ReconnectMaxDelay; max > 0 && delay > max {
				delay = max
			}
			continue
		}

		m.mu.Lock()
		m.client = client
		m.connects++
		m.mu.Unlock()
		metrics.LinkConnects.Inc()
		m.logger.Info("bridge connected", "url", m.cfg.URL)

		// Reset backoff after a successful connection.
		delay = m.cfg.ReconnectBaseDelay
		if delay == 0 {
			delay = time.Second
		}

		m.consume(client)
		m.closeClient()
	}
}

// consume reads frames from one connection until it fails or the manager
// stops.
func (m *Manager) consume(client Client) {
	for {
		select {
		case <-m.ctx.Done():
			return
		case err := <-client.Errors():
			m.logger.Warn("bridge connection lost", "error", err)
			return
		case frame := <-client.Frames():
			m.handleFrame(frame)
		}
	}
}

// handleFrame decodes one frame and submits the packet.
func (m *Manager) handleFrame(frame TimestampedFrame) {
	pkt, err := wire.Decode(frame.Data)
	if err != nil {
		m.mu.Lock()
		m.frameErrors++
		m.mu.Unlock()
		metrics.LinkFrameErrors.Inc()
		m.logger.Warn("rejected inbound frame", "error", err, "len", len(frame.Data))
		return
	}

	m.mu.Lock()
	m.frames++
	m.mu.Unlock()

	if err := m.sink.Submit(pkt); err != nil {
		m.logger.Warn("submit failed",
			"endpoint", pkt.Endpoint(),
			"data_type", pkt.DataType(),
			"error", err,
		)
	}
}

// closeClient tears down the current connection, if any.
func (m *Manager) closeClient() {
	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()

	if c != nil {
		c.Close()
	}
}

package link

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sedsgs/groundstation-data/internal/config"
	"github.com/sedsgs/groundstation-data/internal/telemetry"
	"github.com/sedsgs/groundstation-data/internal/wire"
)

// fakeClient satisfies Client without a real websocket.
type fakeClient struct {
	frames chan TimestampedFrame
	errs   chan error

	mu        sync.Mutex
	sent      [][]byte
	connected bool
	closed    bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		frames:    make(chan TimestampedFrame, 16),
		errs:      make(chan error, 1),
		connected: true,
	}
}

func (f *fakeClient) Connect(ctx context.Context) error { return nil }

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.connected = false
	return nil
}

func (f *fakeClient) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return ErrNotConnected
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.sent = append(f.sent, buf)
	return nil
}

func (f *fakeClient) Frames() <-chan TimestampedFrame { return f.frames }
func (f *fakeClient) Errors() <-chan error            { return f.errs }

func (f *fakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// recordingSink collects submitted packets.
type recordingSink struct {
	mu      sync.Mutex
	packets []*telemetry.Packet
}

func (s *recordingSink) Submit(pkt *telemetry.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packets = append(s.packets, pkt)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.packets)
}

func testLinkConfig() config.LinkConfig {
	return config.LinkConfig{
		URL:                "ws://localhost:9999/radio",
		ReconnectBaseDelay: time.Millisecond,
		ReconnectMaxDelay:  5 * time.Millisecond,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestManager_DecodesAndSubmitsFrames(t *testing.T) {
	sink := &recordingSink{}
	fake := newFakeClient()

	m := NewManager(testLinkConfig(), sink, nil)
	m.dial = func(ctx context.Context) (Client, error) { return fake, nil }

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stopManager(t, m)

	pkt, err := telemetry.NewF32Packet(telemetry.GyroData, telemetry.GroundStation,
		[]float32{0.1, 0.2, 0.3}, 100)
	if err != nil {
		t.Fatalf("NewF32Packet failed: %v", err)
	}
	frame, err := wire.Encode(pkt)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	fake.frames <- TimestampedFrame{Data: frame, ReceivedAt: time.Now()}

	waitFor(t, func() bool { return sink.count() == 1 })

	sink.mu.Lock()
	got := sink.packets[0]
	sink.mu.Unlock()
	if got.DataType() != telemetry.GyroData {
		t.Errorf("DataType = %v, want GyroData", got.DataType())
	}
	if got.TimestampMS() != 100 {
		t.Errorf("TimestampMS = %d, want 100", got.TimestampMS())
	}
}

func TestManager_RejectsUndecodableFrames(t *testing.T) {
	sink := &recordingSink{}
	fake := newFakeClient()

	m := NewManager(testLinkConfig(), sink, nil)
	m.dial = func(ctx context.Context) (Client, error) { return fake, nil }

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stopManager(t, m)

	fake.frames <- TimestampedFrame{Data: []byte{0xFF, 0xFF, 0x00}, ReceivedAt: time.Now()}

	waitFor(t, func() bool { return m.Stats().FrameErrors == 1 })

	if sink.count() != 0 {
		t.Errorf("submitted %d packets from a bad frame, want 0", sink.count())
	}
}

func TestManager_ReconnectsAfterConnectionLoss(t *testing.T) {
	sink := &recordingSink{}

	var dialMu sync.Mutex
	var clients []*fakeClient

	m := NewManager(testLinkConfig(), sink, nil)
	m.dial = func(ctx context.Context) (Client, error) {
		dialMu.Lock()
		defer dialMu.Unlock()
		c := newFakeClient()
		clients = append(clients, c)
		return c, nil
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stopManager(t, m)

	waitFor(t, func() bool { return m.Stats().Connects == 1 })

	dialMu.Lock()
	first := clients[0]
	dialMu.Unlock()
	first.errs <- errors.New("connection reset")

	waitFor(t, func() bool { return m.Stats().Connects == 2 })

	first.mu.Lock()
	closed := first.closed
	first.mu.Unlock()
	if !closed {
		t.Error("first client was not closed after the connection dropped")
	}
}

func TestManager_DialFailureBacksOff(t *testing.T) {
	sink := &recordingSink{}

	var dialMu sync.Mutex
	attempts := 0

	m := NewManager(testLinkConfig(), sink, nil)
	m.dial = func(ctx context.Context) (Client, error) {
		dialMu.Lock()
		defer dialMu.Unlock()
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return newFakeClient(), nil
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stopManager(t, m)

	waitFor(t, func() bool { return m.Stats().Connects == 1 })

	dialMu.Lock()
	got := attempts
	dialMu.Unlock()
	if got != 3 {
		t.Errorf("dial attempts = %d, want 3", got)
	}
}

func TestManager_SinkRequiresConnection(t *testing.T) {
	m := NewManager(testLinkConfig(), &recordingSink{}, nil)
	send := m.Sink()

	if err := send([]byte{1, 2, 3}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Sink() error = %v, want ErrNotConnected", err)
	}
}

func TestManager_SinkSendsThroughClient(t *testing.T) {
	fake := newFakeClient()

	m := NewManager(testLinkConfig(), &recordingSink{}, nil)
	m.dial = func(ctx context.Context) (Client, error) { return fake, nil }

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer stopManager(t, m)

	waitFor(t, func() bool { return m.Stats().Connects == 1 })

	if err := m.Sink()([]byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("Sink() error = %v", err)
	}

	fake.mu.Lock()
	sent := len(fake.sent)
	fake.mu.Unlock()
	if sent != 1 {
		t.Errorf("client received %d sends, want 1", sent)
	}
}

func stopManager(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

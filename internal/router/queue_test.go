package router

import (
	"errors"
	"testing"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

func mkPacket(t *testing.T, ts int64) *telemetry.Packet {
	t.Helper()
	pkt, err := telemetry.NewPacket(telemetry.BatteryVoltage, telemetry.GroundStation, make([]byte, 4), ts)
	if err != nil {
		t.Fatalf("NewPacket failed: %v", err)
	}
	return pkt
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(4, 0)

	for i := 0; i < 10; i++ {
		if err := q.Send(mkPacket(t, int64(i))); err != nil {
			t.Fatalf("Send(%d) failed: %v", i, err)
		}
	}

	if q.Len() != 10 {
		t.Errorf("Len() = %d, want 10", q.Len())
	}

	for i := 0; i < 10; i++ {
		pkt, ok := q.TryReceive()
		if !ok {
			t.Fatalf("TryReceive() empty at %d", i)
		}
		if pkt.TimestampMS() != int64(i) {
			t.Errorf("received ts=%d, want %d", pkt.TimestampMS(), i)
		}
	}
}

func TestQueue_GrowsPreservingOrder(t *testing.T) {
	q := NewQueue(4, 0)

	// Interleave sends and receives so the ring wraps before growing.
	for i := 0; i < 3; i++ {
		q.Send(mkPacket(t, int64(i)))
	}
	q.TryReceive()
	q.TryReceive()
	for i := 3; i < 40; i++ {
		if err := q.Send(mkPacket(t, int64(i))); err != nil {
			t.Fatalf("Send(%d) failed: %v", i, err)
		}
	}

	stats := q.Stats()
	if stats.ResizeCount < 2 {
		t.Errorf("ResizeCount = %d, expected at least 2 resizes", stats.ResizeCount)
	}

	for want := int64(2); want < 40; want++ {
		pkt, ok := q.TryReceive()
		if !ok {
			t.Fatalf("TryReceive() empty, want ts=%d", want)
		}
		if pkt.TimestampMS() != want {
			t.Errorf("received ts=%d, want %d", pkt.TimestampMS(), want)
		}
	}
}

func TestQueue_RejectsAtCap(t *testing.T) {
	q := NewQueue(1, 1)

	if err := q.Send(mkPacket(t, 1)); err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	if err := q.Send(mkPacket(t, 2)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("second Send err = %v, want ErrQueueFull", err)
	}

	// The first packet is still dispatchable.
	pkt, ok := q.TryReceive()
	if !ok {
		t.Fatal("TryReceive() empty after rejection")
	}
	if pkt.TimestampMS() != 1 {
		t.Errorf("received ts=%d, want 1", pkt.TimestampMS())
	}

	if got := q.Stats().Rejected; got != 1 {
		t.Errorf("Rejected = %d, want 1", got)
	}
}

func TestQueue_CapacityNeverExceedsMax(t *testing.T) {
	q := NewQueue(4, 10)

	for i := 0; i < 10; i++ {
		if err := q.Send(mkPacket(t, int64(i))); err != nil {
			t.Fatalf("Send(%d) failed: %v", i, err)
		}
	}
	if err := q.Send(mkPacket(t, 10)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Send past cap err = %v, want ErrQueueFull", err)
	}
	if q.Cap() > 10 {
		t.Errorf("Cap() = %d, want <= 10", q.Cap())
	}
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue(4, 0)
	for i := 0; i < 5; i++ {
		q.Send(mkPacket(t, int64(i)))
	}

	drained := q.Drain()
	if len(drained) != 5 {
		t.Fatalf("Drain() returned %d packets, want 5", len(drained))
	}
	for i, pkt := range drained {
		if pkt.TimestampMS() != int64(i) {
			t.Errorf("drained[%d] ts=%d, want %d", i, pkt.TimestampMS(), i)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after drain, want 0", q.Len())
	}
}

func TestQueue_SendAfterClose(t *testing.T) {
	q := NewQueue(4, 0)
	q.Send(mkPacket(t, 1))
	q.Close()

	if err := q.Send(mkPacket(t, 2)); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after Close err = %v, want ErrClosed", err)
	}

	// Pending packets remain drainable.
	if got := len(q.Drain()); got != 1 {
		t.Errorf("Drain() after Close returned %d, want 1", got)
	}
}

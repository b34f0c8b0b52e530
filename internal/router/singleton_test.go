package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// Scenario C: a second NewSingleton call with nil collaborators returns the
// original instance, and transmission still uses the originally bound sink.
func TestNewSingleton_Idempotent(t *testing.T) {
	ResetSingleton()
	t.Cleanup(ResetSingleton)

	var sent int
	sink := func([]byte) error {
		sent++
		return nil
	}

	first, err := NewSingleton(DefaultConfig(), sink, fixedClock, nil, nil)
	if err != nil {
		t.Fatalf("first NewSingleton failed: %v", err)
	}

	second, err := NewSingleton(DefaultConfig(), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("second NewSingleton failed: %v", err)
	}
	if second != first {
		t.Fatal("second NewSingleton returned a different instance")
	}

	if err := second.Transmit([]byte{1}); err != nil {
		t.Fatalf("Transmit failed: %v", err)
	}
	if sent != 1 {
		t.Errorf("originally bound sink called %d times, want 1", sent)
	}
}

func TestNewSingleton_NilCollaboratorsBeforeInit(t *testing.T) {
	ResetSingleton()
	t.Cleanup(ResetSingleton)

	if _, err := NewSingleton(DefaultConfig(), nil, nil, nil, nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func TestInstance_FailsFastBeforeInit(t *testing.T) {
	ResetSingleton()
	t.Cleanup(ResetSingleton)

	if _, err := Instance(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func TestWaitInstance_BlocksUntilInit(t *testing.T) {
	ResetSingleton()
	t.Cleanup(ResetSingleton)

	got := make(chan *Router, 1)
	go func() {
		r, err := WaitInstance(context.Background())
		if err != nil {
			t.Errorf("WaitInstance failed: %v", err)
		}
		got <- r
	}()

	// The waiter must not return before initialization.
	select {
	case <-got:
		t.Fatal("WaitInstance returned before NewSingleton")
	case <-time.After(30 * time.Millisecond):
	}

	want, err := NewSingleton(DefaultConfig(), noopSink, fixedClock, nil, nil)
	if err != nil {
		t.Fatalf("NewSingleton failed: %v", err)
	}

	select {
	case r := <-got:
		if r != want {
			t.Error("WaitInstance returned a different instance")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitInstance did not wake after initialization")
	}
}

func TestWaitInstance_ContextCancel(t *testing.T) {
	ResetSingleton()
	t.Cleanup(ResetSingleton)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := WaitInstance(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestResetSingleton_AllowsReinit(t *testing.T) {
	ResetSingleton()
	t.Cleanup(ResetSingleton)

	first, err := NewSingleton(DefaultConfig(), noopSink, fixedClock, nil, nil)
	if err != nil {
		t.Fatalf("NewSingleton failed: %v", err)
	}

	ResetSingleton()

	// The old instance is closed and a fresh one can be bound.
	if err := first.Submit(mkPacket(t, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit on reset router err = %v, want ErrClosed", err)
	}

	second, err := NewSingleton(DefaultConfig(), noopSink, fixedClock, []Registration{
		{Endpoint: telemetry.GroundStation, Handler: func(*telemetry.Packet) error { return nil }},
	}, nil)
	if err != nil {
		t.Fatalf("NewSingleton after reset failed: %v", err)
	}
	if second == first {
		t.Error("NewSingleton after reset returned the closed instance")
	}
}

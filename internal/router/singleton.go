package router

import (
	"context"
	"log/slog"
	"sync"
)

// The process-wide singleton. The first NewSingleton call with real
// collaborators constructs and publishes the instance; every later call is
// an idempotent lookup that keeps the originally bound collaborators.
var (
	singletonMu    sync.Mutex
	singleton      *Router
	singletonReady = make(chan struct{})
)

// NewSingleton returns the process-wide router, constructing it on the first
// call that supplies real collaborators. Subsequent calls return the existing
// instance regardless of arguments; the originally bound tx and clock are
// never replaced. A nil-collaborator call before the first real one fails
// with ErrNotInitialized rather than constructing a crippled router; use
// WaitInstance to block until initialization instead.
func NewSingleton(cfg Config, tx ByteSink, nowMS ClockFunc, regs []Registration, logger *slog.Logger) (*Router, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton != nil {
		return singleton, nil
	}
	if tx == nil || nowMS == nil {
		return nil, ErrNotInitialized
	}

	r, err := New(cfg, tx, nowMS, regs, logger)
	if err != nil {
		return nil, err
	}
	singleton = r
	close(singletonReady)
	return r, nil
}

// Instance returns the singleton, failing fast with ErrNotInitialized if no
// real-collaborator construction has happened yet.
func Instance() (*Router, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton == nil {
		return nil, ErrNotInitialized
	}
	return singleton, nil
}

// WaitInstance blocks until the singleton has been constructed or the context
// is done. This is the readiness barrier for workers that start before the
// owning goroutine has called NewSingleton.
func WaitInstance(ctx context.Context) (*Router, error) {
	singletonMu.Lock()
	ready := singletonReady
	singletonMu.Unlock()

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return Instance()
}

// ResetSingleton clears the singleton so test suites are not forced to share
// one router across unrelated cases. Test use only; production routers live
// until process teardown.
func ResetSingleton() {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton != nil {
		singleton.Close()
		singleton = nil
	}
	select {
	case <-singletonReady:
		singletonReady = make(chan struct{})
	default:
	}
}

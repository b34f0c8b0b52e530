package router

import (
	"sync"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// Registry maps (endpoint, data type) to an ordered list of handlers.
// Registration is allowed at any time; Resolve works from a copy-on-write
// snapshot so dispatch never blocks behind a registration.
type Registry struct {
	mu       sync.Mutex
	snapshot map[telemetry.DataEndpoint][]Registration
}

// NewRegistry creates a registry seeded with the given registrations.
func NewRegistry(regs []Registration) *Registry {
	r := &Registry{
		snapshot: make(map[telemetry.DataEndpoint][]Registration),
	}
	for _, reg := range regs {
		r.Register(reg)
	}
	return r
}

// Register appends a handler for an endpoint. Handlers for the same
// (endpoint, data type) fire in registration order.
func (r *Registry) Register(reg Registration) {
	if reg.Handler == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy-on-write: concurrent Resolve callers keep the old snapshot.
	next := make(map[telemetry.DataEndpoint][]Registration, len(r.snapshot))
	for ep, list := range r.snapshot {
		next[ep] = list
	}
	list := next[reg.Endpoint]
	updated := make([]Registration, len(list), len(list)+1)
	copy(updated, list)
	next[reg.Endpoint] = append(updated, reg)
	r.snapshot = next
}

// Resolve returns the handlers that fire for a packet, in registration order.
func (r *Registry) Resolve(pkt *telemetry.Packet) []Handler {
	r.mu.Lock()
	list := r.snapshot[pkt.Endpoint()]
	r.mu.Unlock()

	if len(list) == 0 {
		return nil
	}

	out := make([]Handler, 0, len(list))
	for _, reg := range list {
		if reg.Filter != nil && *reg.Filter != pkt.DataType() {
			continue
		}
		out = append(out, reg.Handler)
	}
	return out
}

// Len returns the total number of registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, list := range r.snapshot {
		n += len(list)
	}
	return n
}

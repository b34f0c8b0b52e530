// Package router implements the telemetry dispatch core.
//
// The Router:
//   - Owns one growable, capped queue per endpoint
//   - Resolves registered handlers by (endpoint, data type) in registration order
//   - Drains all queues in a single timed pass, FIFO per endpoint
//   - Isolates handler failures so one bad handler never stalls the drain loop
//   - Exposes an outbound transmit hook bound at construction
//   - Supports a process-wide singleton with first-caller-wins collaborators
package router

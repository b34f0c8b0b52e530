// Package store implements the ground-station persistence handler.
//
// The Writer registers on the GROUND_STATION endpoint and appends every
// dispatched packet to the telemetry table. Rows are batched and flushed on
// size or on a ticker. Append-only semantics (never update, only insert).
// A bounded ring of recent rows backs the health endpoint.
package store

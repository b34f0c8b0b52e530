// Package database provides the PostgreSQL connection pool and schema for
// the telemetry store.
//
// One table, append-only:
//   - telemetry: timestamp_ms, data type tag, decoded values v0..v7, raw payload
package database

// Package telemetry defines the closed vocabulary of the groundstation
// telemetry bus and the immutable Packet unit that moves through it.
//
// Conventions:
//   - Timestamps: int64 milliseconds since Unix epoch
//   - Payloads: little-endian fixed-layout arrays, shape owned by the DataType
//   - Tags: DataType and DataEndpoint are closed enumerations; values outside
//     the enumerated set are rejected, never coerced
package telemetry

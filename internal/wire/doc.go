// Package wire implements the radio link frame codec.
//
// Frame layout (all little-endian):
//
//	u16  body length (prefix, not counted in itself)
//	u8   data type tag
//	u8   endpoint tag
//	u64  timestamp (ms since epoch)
//	[]   payload, exact length fixed by the data type schema
//
// Frames are capped at 256 bytes including the prefix. Unknown tags and
// length mismatches are rejected at decode time, never coerced.
package wire

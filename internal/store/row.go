package store

import (
	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// maxValues is the number of decoded value columns (v0..v7).
const maxValues = 8

// Row is one telemetry table row. Values v0..v7 are decoded scalars whose
// meaning depends on the data type; Payload keeps the raw bytes untouched.
type Row struct {
	TimestampMS int64
	ReceivedAt  int64
	DataType    string
	Values      [maxValues]*float32
	Payload     []byte
}

// transform converts a dispatched packet into a telemetry row. Float payloads
// decode into v0..vN; single-byte payloads (flight state, command echo) land
// in v0.
func transform(pkt *telemetry.Packet, receivedAtMS int64) Row {
	row := Row{
		TimestampMS: pkt.TimestampMS(),
		ReceivedAt:  receivedAtMS,
		DataType:    pkt.DataType().String(),
		Payload:     pkt.Payload(),
	}

	switch pkt.DataType().Kind() {
	case telemetry.Float32:
		values, err := pkt.F32Values()
		if err != nil {
			// Schema mismatch cannot happen for a validated packet; keep the
			// raw payload and leave the value columns null.
			return row
		}
		for i, v := range values {
			if i >= maxValues {
				break
			}
			v := v
			row.Values[i] = &v
		}
	case telemetry.Uint8:
		v := float32(pkt.Payload()[0])
		row.Values[0] = &v
	}

	return row
}

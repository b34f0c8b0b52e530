package telemetry

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Packet is one immutable telemetry event. Fields are read-only after
// construction; ownership transfers to the router on submission and then to
// whichever handler receives it. Handlers sharing a packet must not mutate
// the payload slice.
type Packet struct {
	dataType    DataType
	endpoint    DataEndpoint
	timestampMS int64
	payload     []byte
}

// NewPacket constructs a validated Packet. The payload is copied, and its
// length must match the data type's schema.
func NewPacket(dt DataType, ep DataEndpoint, payload []byte, timestampMS int64) (*Packet, error) {
	if !dt.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDataType, uint8(dt))
	}
	if !ep.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEndpoint, uint8(ep))
	}
	if len(payload) != dt.PayloadSize() {
		return nil, fmt.Errorf("%w: %s expects %d bytes, got %d",
			ErrPayloadSize, dt, dt.PayloadSize(), len(payload))
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)

	return &Packet{
		dataType:    dt,
		endpoint:    ep,
		timestampMS: timestampMS,
		payload:     buf,
	}, nil
}

// NewF32Packet constructs a Packet from float32 values, encoding them
// little-endian per the wire convention.
func NewF32Packet(dt DataType, ep DataEndpoint, values []float32, timestampMS int64) (*Packet, error) {
	if !dt.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDataType, uint8(dt))
	}
	if dt.Kind() != Float32 {
		return nil, fmt.Errorf("%w: %s is not a float32 type", ErrPayloadSize, dt)
	}

	buf := make([]byte, 0, len(values)*4)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return NewPacket(dt, ep, buf, timestampMS)
}

// DataType returns the payload type tag.
func (p *Packet) DataType() DataType { return p.dataType }

// Endpoint returns the routing endpoint tag.
func (p *Packet) Endpoint() DataEndpoint { return p.endpoint }

// TimestampMS returns the packet timestamp in epoch milliseconds.
func (p *Packet) TimestampMS() int64 { return p.timestampMS }

// Payload returns the raw payload bytes. Callers must treat the slice as
// read-only.
func (p *Packet) Payload() []byte { return p.payload }

// F32Values decodes the payload as little-endian float32s. Fails for
// non-float32 data types or a payload that does not match the schema.
func (p *Packet) F32Values() ([]float32, error) {
	if p.dataType.Kind() != Float32 {
		return nil, fmt.Errorf("%w: %s is not a float32 type", ErrPayloadSize, p.dataType)
	}
	count := p.dataType.ElemCount()
	if len(p.payload) != count*4 {
		return nil, fmt.Errorf("%w: %s expects %d bytes, got %d",
			ErrPayloadSize, p.dataType, count*4, len(p.payload))
	}

	out := make([]float32, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint32(p.payload[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// String returns a compact debug representation.
func (p *Packet) String() string {
	return fmt.Sprintf("%s@%s ts=%d len=%d", p.dataType, p.endpoint, p.timestampMS, len(p.payload))
}

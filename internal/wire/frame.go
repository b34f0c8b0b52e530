package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// MaxFrameSize is the largest frame the radio link will carry, including the
// length prefix.
const MaxFrameSize = 256

// headerSize is the fixed body header: type byte + endpoint byte + u64 timestamp.
const headerSize = 1 + 1 + 8

// prefixSize is the u16 length prefix.
const prefixSize = 2

// Errors
var (
	ErrFrameTooLarge = errors.New("frame exceeds maximum radio frame size")
	ErrFrameTooShort = errors.New("frame shorter than header")
	ErrLengthPrefix  = errors.New("length prefix does not match frame body")
)

// Encode serializes a packet into a length-prefixed frame.
func Encode(pkt *telemetry.Packet) ([]byte, error) {
	payload := pkt.Payload()
	bodyLen := headerSize + len(payload)
	if prefixSize+bodyLen > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, prefixSize+bodyLen)
	}

	buf := make([]byte, 0, prefixSize+bodyLen)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bodyLen))
	buf = append(buf, uint8(pkt.DataType()), uint8(pkt.Endpoint()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(pkt.TimestampMS()))
	buf = append(buf, payload...)
	return buf, nil
}

// Decode parses one length-prefixed frame into a packet. The input must
// contain exactly one frame.
func Decode(frame []byte) (*telemetry.Packet, error) {
	if len(frame) < prefixSize+headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(frame))
	}
	if len(frame) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(frame))
	}

	bodyLen := int(binary.LittleEndian.Uint16(frame))
	if bodyLen != len(frame)-prefixSize {
		return nil, fmt.Errorf("%w: prefix says %d, body is %d",
			ErrLengthPrefix, bodyLen, len(frame)-prefixSize)
	}

	return DecodeBody(frame[prefixSize:])
}

// DecodeBody parses a frame body (no length prefix) into a packet. Used by
// transports that strip framing themselves.
func DecodeBody(body []byte) (*telemetry.Packet, error) {
	if len(body) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(body))
	}

	dt, err := telemetry.ParseDataType(body[0])
	if err != nil {
		return nil, err
	}
	ep, err := telemetry.ParseEndpoint(body[1])
	if err != nil {
		return nil, err
	}
	ts := int64(binary.LittleEndian.Uint64(body[2:10]))

	return telemetry.NewPacket(dt, ep, body[headerSize:], ts)
}

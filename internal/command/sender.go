package command

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
	"github.com/sedsgs/groundstation-data/internal/wire"
)

// Transmitter pushes encoded frames toward the rocket. Satisfied by
// *router.Router.
type Transmitter interface {
	Transmit(buf []byte) error
	NowMS() int64
}

// Sender encodes and transmits operator commands.
type Sender struct {
	tx     Transmitter
	logger *slog.Logger
}

// NewSender creates a command sender on the given transmitter.
func NewSender(tx Transmitter, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{tx: tx, logger: logger}
}

// Send transmits one command to the rocket and returns its correlation id.
// A failed transmit is not retried.
func (s *Sender) Send(cmd Command) (string, error) {
	if !cmd.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidCommand, uint8(cmd))
	}

	id := uuid.NewString()

	pkt, err := telemetry.NewPacket(
		telemetry.CommandEcho,
		telemetry.Rocket,
		[]byte{uint8(cmd)},
		s.tx.NowMS(),
	)
	if err != nil {
		return "", fmt.Errorf("building command packet: %w", err)
	}

	frame, err := wire.Encode(pkt)
	if err != nil {
		return "", fmt.Errorf("encoding command packet: %w", err)
	}

	if err := s.tx.Transmit(frame); err != nil {
		s.logger.Error("command transmit failed",
			"command", cmd,
			"correlation_id", id,
			"error", err,
		)
		return id, err
	}

	s.logger.Info("command sent",
		"command", cmd,
		"correlation_id", id,
		"timestamp_ms", pkt.TimestampMS(),
	)
	return id, nil
}

// Echo decodes a COMMAND_ECHO packet received back from the rocket.
func Echo(pkt *telemetry.Packet) (Command, error) {
	if pkt.DataType() != telemetry.CommandEcho {
		return 0, fmt.Errorf("%w: data type %s", ErrInvalidCommand, pkt.DataType())
	}
	payload := pkt.Payload()
	if len(payload) != 1 {
		return 0, fmt.Errorf("%w: payload length %d", ErrInvalidCommand, len(payload))
	}
	return ParseCommand(payload[0])
}

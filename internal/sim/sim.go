package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sedsgs/groundstation-data/internal/telemetry"
)

// Launch site coordinates used as the GPS anchor.
const (
	baseLat = 31.7619
	baseLon = -106.4850
)

// PacketSink receives generated packets. Satisfied by *router.Router.
type PacketSink interface {
	Submit(*telemetry.Packet) error
	NowMS() int64
}

// Config holds simulator configuration.
type Config struct {
	Interval time.Duration // Time between packets (default: 100ms)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: 100 * time.Millisecond,
	}
}

// Simulator periodically submits synthetic packets.
type Simulator struct {
	cfg    Config
	sink   PacketSink
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a simulator feeding the given sink.
func New(cfg Config, sink PacketSink, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Simulator{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
	}
}

// Start begins the generation loop.
func (s *Simulator) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("telemetry simulator started", "interval", s.cfg.Interval)
	return nil
}

// Stop halts the generation loop.
func (s *Simulator) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("telemetry simulator stopped")
	case <-ctx.Done():
		s.logger.Warn("telemetry simulator stop timed out")
	}
	return nil
}

func (s *Simulator) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			pkt, err := RandomPacket(s.sink.NowMS())
			if err != nil {
				s.logger.Error("failed to build synthetic packet", "error", err)
				continue
			}
			if err := s.sink.Submit(pkt); err != nil {
				s.logger.Warn("simulator submit failed",
					"data_type", pkt.DataType(), "error", err)
			}
		}
	}
}

// sensorChannels are the data types the simulator cycles through.
var sensorChannels = []telemetry.DataType{
	telemetry.GpsData,
	telemetry.KalmanFilterData,
	telemetry.GyroData,
	telemetry.AccelData,
	telemetry.BatteryVoltage,
	telemetry.BatteryCurrent,
	telemetry.BarometerData,
	telemetry.FuelFlow,
	telemetry.FuelTankPressure,
}

// RandomPacket builds one synthetic packet on a random sensor channel with
// values in the ranges the real sensors report on the pad.
func RandomPacket(nowMS int64) (*telemetry.Packet, error) {
	dt := sensorChannels[rand.IntN(len(sensorChannels))]

	var values []float32
	switch dt {
	case telemetry.GpsData:
		const margin = 0.001
		values = []float32{
			baseLat + uniform(-margin, margin),
			baseLon + uniform(-margin, margin),
			uniform(0, 200),
		}
	case telemetry.KalmanFilterData:
		values = []float32{
			uniform(-20, 20),
			uniform(-20, 20),
			uniform(-20, 20),
		}
	case telemetry.GyroData:
		values = []float32{
			uniform(-5, 5),
			uniform(-5, 5),
			uniform(-180, 180),
		}
	case telemetry.AccelData:
		values = []float32{
			uniform(-2, 2),
			uniform(-2, 2),
			uniform(8, 11),
		}
	case telemetry.BatteryVoltage:
		values = []float32{uniform(11.0, 12.6)}
	case telemetry.BatteryCurrent:
		values = []float32{uniform(0, 18)}
	case telemetry.BarometerData:
		values = []float32{
			uniform(98000, 102000),
			uniform(10, 35),
			uniform(0, 200),
		}
	case telemetry.FuelFlow:
		values = []float32{uniform(0, 20)}
	case telemetry.FuelTankPressure:
		values = []float32{uniform(0, 120)}
	}

	return telemetry.NewF32Packet(dt, telemetry.GroundStation, values, nowMS)
}

func uniform(lo, hi float32) float32 {
	return lo + rand.Float32()*(hi-lo)
}

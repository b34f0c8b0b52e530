package telemetry

import (
	"errors"
	"testing"
)

func TestNewPacket_Valid(t *testing.T) {
	payload := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	pkt, err := NewPacket(GyroData, GroundStation, payload, 1700000000000)
	if err != nil {
		t.Fatalf("NewPacket failed: %v", err)
	}

	if pkt.DataType() != GyroData {
		t.Errorf("DataType = %s, want GYRO_DATA", pkt.DataType())
	}
	if pkt.Endpoint() != GroundStation {
		t.Errorf("Endpoint = %s, want GROUND_STATION", pkt.Endpoint())
	}
	if pkt.TimestampMS() != 1700000000000 {
		t.Errorf("TimestampMS = %d, want 1700000000000", pkt.TimestampMS())
	}
	if len(pkt.Payload()) != 12 {
		t.Errorf("Payload length = %d, want 12", len(pkt.Payload()))
	}
}

func TestNewPacket_CopiesPayload(t *testing.T) {
	payload := []byte{1, 0, 0, 0}

	pkt, err := NewPacket(BatteryVoltage, GroundStation, payload, 0)
	if err != nil {
		t.Fatalf("NewPacket failed: %v", err)
	}

	payload[0] = 99
	if pkt.Payload()[0] != 1 {
		t.Error("mutating the source slice changed the packet payload")
	}
}

func TestNewPacket_RejectsUnknownDataType(t *testing.T) {
	_, err := NewPacket(DataType(200), GroundStation, []byte{0}, 0)
	if !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("err = %v, want ErrInvalidDataType", err)
	}
}

func TestNewPacket_RejectsUnknownEndpoint(t *testing.T) {
	_, err := NewPacket(BatteryVoltage, DataEndpoint(200), []byte{0, 0, 0, 0}, 0)
	if !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("err = %v, want ErrInvalidEndpoint", err)
	}
}

func TestNewPacket_RejectsWrongPayloadSize(t *testing.T) {
	_, err := NewPacket(GyroData, GroundStation, []byte{0, 0, 0, 0}, 0)
	if !errors.Is(err, ErrPayloadSize) {
		t.Errorf("err = %v, want ErrPayloadSize", err)
	}
}

func TestF32RoundTrip(t *testing.T) {
	values := []float32{1.5, -2.25, 180.0}

	pkt, err := NewF32Packet(GyroData, GroundStation, values, 42)
	if err != nil {
		t.Fatalf("NewF32Packet failed: %v", err)
	}

	got, err := pkt.F32Values()
	if err != nil {
		t.Fatalf("F32Values failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, v := range values {
		if got[i] != v {
			t.Errorf("value[%d] = %v, want %v", i, got[i], v)
		}
	}
}

func TestF32Values_RejectsNonFloatType(t *testing.T) {
	pkt, err := NewPacket(FlightStateData, GroundStation, []byte{3}, 0)
	if err != nil {
		t.Fatalf("NewPacket failed: %v", err)
	}
	if _, err := pkt.F32Values(); err == nil {
		t.Error("expected error decoding uint8 payload as float32")
	}
}

func TestParseDataType(t *testing.T) {
	dt, err := ParseDataType(uint8(AccelData))
	if err != nil {
		t.Fatalf("ParseDataType failed: %v", err)
	}
	if dt != AccelData {
		t.Errorf("dt = %s, want ACCEL_DATA", dt)
	}

	if _, err := ParseDataType(255); !errors.Is(err, ErrInvalidDataType) {
		t.Errorf("err = %v, want ErrInvalidDataType", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	ep, err := ParseEndpoint(uint8(Rocket))
	if err != nil {
		t.Fatalf("ParseEndpoint failed: %v", err)
	}
	if ep != Rocket {
		t.Errorf("ep = %s, want ROCKET", ep)
	}

	if _, err := ParseEndpoint(255); !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("err = %v, want ErrInvalidEndpoint", err)
	}
}

func TestPayloadSizes(t *testing.T) {
	cases := []struct {
		dt   DataType
		size int
	}{
		{GyroData, 12},
		{AccelData, 12},
		{BarometerData, 12},
		{GpsData, 12},
		{BatteryVoltage, 4},
		{FuelFlow, 4},
		{FlightStateData, 1},
		{CommandEcho, 1},
	}

	for _, tc := range cases {
		if got := tc.dt.PayloadSize(); got != tc.size {
			t.Errorf("%s PayloadSize = %d, want %d", tc.dt, got, tc.size)
		}
	}
}

func TestParseFlightState(t *testing.T) {
	fs, err := ParseFlightState(6)
	if err != nil {
		t.Fatalf("ParseFlightState failed: %v", err)
	}
	if fs != Armed {
		t.Errorf("fs = %s, want Armed", fs)
	}

	if _, err := ParseFlightState(16); err == nil {
		t.Error("expected error for out-of-range flight state")
	}
}

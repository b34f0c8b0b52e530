package telemetry

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidDataType = errors.New("invalid telemetry data type tag")
	ErrInvalidEndpoint = errors.New("invalid telemetry endpoint tag")
	ErrPayloadSize     = errors.New("payload size does not match data type schema")
)

// DataType identifies the shape and semantics of a packet payload.
// Wire values are stable; new types are appended, never renumbered.
type DataType uint8

const (
	GyroData DataType = iota
	AccelData
	BarometerData
	GpsData
	KalmanFilterData
	BatteryVoltage
	BatteryCurrent
	FuelFlow
	FuelTankPressure
	FlightStateData
	CommandEcho

	numDataTypes
)

// DataEndpoint identifies a logical routing channel.
type DataEndpoint uint8

const (
	GroundStation DataEndpoint = iota
	Rocket
	Umbilical

	numEndpoints
)

// ElemKind is the scalar element kind of a payload.
type ElemKind uint8

const (
	Float32 ElemKind = iota
	Uint8
)

// schema describes the fixed payload layout of a data type.
type schema struct {
	kind  ElemKind
	count int
}

var schemas = [numDataTypes]schema{
	GyroData:         {Float32, 3}, // x, y, z (deg/s)
	AccelData:        {Float32, 3}, // x, y, z (m/s²)
	BarometerData:    {Float32, 3}, // pressure (Pa), temp (°C), altitude (m)
	GpsData:          {Float32, 3}, // lat, lon, altitude (m)
	KalmanFilterData: {Float32, 3}, // filtered position estimate
	BatteryVoltage:   {Float32, 1},
	BatteryCurrent:   {Float32, 1},
	FuelFlow:         {Float32, 1},
	FuelTankPressure: {Float32, 1},
	FlightStateData:  {Uint8, 1},
	CommandEcho:      {Uint8, 1},
}

var dataTypeNames = [numDataTypes]string{
	GyroData:         "GYRO_DATA",
	AccelData:        "ACCEL_DATA",
	BarometerData:    "BAROMETER_DATA",
	GpsData:          "GPS_DATA",
	KalmanFilterData: "KALMAN_FILTER_DATA",
	BatteryVoltage:   "BATTERY_VOLTAGE",
	BatteryCurrent:   "BATTERY_CURRENT",
	FuelFlow:         "FUEL_FLOW",
	FuelTankPressure: "FUEL_TANK_PRESSURE",
	FlightStateData:  "FLIGHT_STATE",
	CommandEcho:      "COMMAND_ECHO",
}

var endpointNames = [numEndpoints]string{
	GroundStation: "GROUND_STATION",
	Rocket:        "ROCKET",
	Umbilical:     "UMBILICAL",
}

// Valid reports whether dt is within the enumerated set.
func (dt DataType) Valid() bool {
	return dt < numDataTypes
}

// String returns the canonical tag name (e.g., "GYRO_DATA").
func (dt DataType) String() string {
	if !dt.Valid() {
		return fmt.Sprintf("DataType(%d)", uint8(dt))
	}
	return dataTypeNames[dt]
}

// Kind returns the scalar element kind of the payload.
func (dt DataType) Kind() ElemKind {
	return schemas[dt].kind
}

// ElemCount returns the number of scalar elements in the payload.
func (dt DataType) ElemCount() int {
	return schemas[dt].count
}

// PayloadSize returns the exact payload byte length for the data type.
func (dt DataType) PayloadSize() int {
	s := schemas[dt]
	switch s.kind {
	case Float32:
		return s.count * 4
	default:
		return s.count
	}
}

// ParseDataType validates a wire value against the closed enumeration.
func ParseDataType(v uint8) (DataType, error) {
	dt := DataType(v)
	if !dt.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDataType, v)
	}
	return dt, nil
}

// DataTypes returns all enumerated data types in wire order.
func DataTypes() []DataType {
	out := make([]DataType, 0, numDataTypes)
	for dt := DataType(0); dt < numDataTypes; dt++ {
		out = append(out, dt)
	}
	return out
}

// Valid reports whether ep is within the enumerated set.
func (ep DataEndpoint) Valid() bool {
	return ep < numEndpoints
}

// String returns the canonical endpoint name (e.g., "GROUND_STATION").
func (ep DataEndpoint) String() string {
	if !ep.Valid() {
		return fmt.Sprintf("DataEndpoint(%d)", uint8(ep))
	}
	return endpointNames[ep]
}

// ParseEndpoint validates a wire value against the closed enumeration.
func ParseEndpoint(v uint8) (DataEndpoint, error) {
	ep := DataEndpoint(v)
	if !ep.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidEndpoint, v)
	}
	return ep, nil
}

// Endpoints returns all enumerated endpoints in wire order.
func Endpoints() []DataEndpoint {
	out := make([]DataEndpoint, 0, numEndpoints)
	for ep := DataEndpoint(0); ep < numEndpoints; ep++ {
		out = append(out, ep)
	}
	return out
}

package telemetry

import "fmt"

// FlightState is the vehicle state machine reported via FlightStateData
// packets.
type FlightState uint8

const (
	Startup FlightState = iota
	Idle
	PreFill
	FillTest
	NitrogenFill
	NitrousFill
	Armed
	Launch
	Ascent
	Coast
	Apogee
	ParachuteDeploy
	Descent
	Landed
	Recovery
	Aborted

	numFlightStates
)

var flightStateNames = [numFlightStates]string{
	Startup:         "Startup",
	Idle:            "Idle",
	PreFill:         "PreFill",
	FillTest:        "FillTest",
	NitrogenFill:    "NitrogenFill",
	NitrousFill:     "NitrousFill",
	Armed:           "Armed",
	Launch:          "Launch",
	Ascent:          "Ascent",
	Coast:           "Coast",
	Apogee:          "Apogee",
	ParachuteDeploy: "ParachuteDeploy",
	Descent:         "Descent",
	Landed:          "Landed",
	Recovery:        "Recovery",
	Aborted:         "Aborted",
}

// Valid reports whether fs is within the enumerated set.
func (fs FlightState) Valid() bool {
	return fs < numFlightStates
}

// String returns the state name.
func (fs FlightState) String() string {
	if !fs.Valid() {
		return fmt.Sprintf("FlightState(%d)", uint8(fs))
	}
	return flightStateNames[fs]
}

// ParseFlightState validates a wire byte against the closed enumeration.
func ParseFlightState(v uint8) (FlightState, error) {
	fs := FlightState(v)
	if !fs.Valid() {
		return 0, fmt.Errorf("invalid flight state byte: %d", v)
	}
	return fs, nil
}

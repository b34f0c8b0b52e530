// Package command defines operator commands and sends them to the rocket.
//
// Commands travel as COMMAND_ECHO packets addressed to the rocket endpoint.
// The payload is the single command byte; the rocket echoes it back on the
// same data type so the operator can confirm receipt. Each send is tagged
// with a correlation id so the round trip can be traced in the logs.
package command

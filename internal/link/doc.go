// Package link implements the radio bridge connection.
//
// The groundstation talks to the radio hardware through a websocket bridge.
// Each binary websocket message carries one length-prefixed telemetry frame.
// The Manager owns the connection, decodes inbound frames into packets and
// submits them to the router; its Sink sends outbound frames upstream and is
// bound as the router's transmit collaborator.
package link

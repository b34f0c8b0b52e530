package command

import (
	"errors"
	"fmt"
)

// Command identifies one operator command.
type Command uint8

const (
	Arm Command = iota
	Disarm
	Abort
	Tanks
	Pilot
	Igniter

	numCommands
)

// ErrInvalidCommand is returned for a byte outside the command range.
var ErrInvalidCommand = errors.New("invalid command")

var commandNames = [numCommands]string{
	Arm:     "Arm",
	Disarm:  "Disarm",
	Abort:   "Abort",
	Tanks:   "Tanks",
	Pilot:   "Pilot",
	Igniter: "Igniter",
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	return c < numCommands
}

func (c Command) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
	return commandNames[c]
}

// ParseCommand maps a raw byte to a Command.
func ParseCommand(b uint8) (Command, error) {
	c := Command(b)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCommand, b)
	}
	return c, nil
}

// ParseCommandName maps a command name to a Command.
func ParseCommandName(name string) (Command, error) {
	for i, n := range commandNames {
		if n == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCommand, name)
}

// Commands returns all commands in declaration order.
func Commands() []Command {
	out := make([]Command, 0, numCommands)
	for c := Command(0); c < numCommands; c++ {
		out = append(out, c)
	}
	return out
}

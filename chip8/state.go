package chip8

import (
	"errors"
	"fmt"
)

// RunState is the run state of the machine as seen by the host loop.
type RunState int

const (
	Running RunState = iota
	Paused
	Quit
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	case Quit:
		return "QUIT"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// StateEvent is an input that moves the machine between run states.
type StateEvent int

const (
	EventPauseToggle StateEvent = iota
	EventQuit
)

var ErrMachineQuit = errors.New("machine has quit")

// transitions lists every allowed move. Quit has no entry, it is terminal.
var transitions = map[RunState]map[StateEvent]RunState{
	Running: {EventPauseToggle: Paused, EventQuit: Quit},
	Paused:  {EventPauseToggle: Running, EventQuit: Quit},
}

// Next returns the state reached from s on ev.
func (s RunState) Next(ev StateEvent) (RunState, error) {
	if s == Quit {
		return Quit, ErrMachineQuit
	}
	next, ok := transitions[s][ev]
	if !ok {
		return s, fmt.Errorf("no transition from %s on event %d", s, ev)
	}
	return next, nil
}

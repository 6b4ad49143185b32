package chip8

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
)

// emulatorKeypad forwards keypad writes to an Emulator.
type emulatorKeypad struct {
	emu Emulator
}

func (k emulatorKeypad) Press(key memory.Key) {
	k.emu.HandleAction(action.ForKey(uint8(key)), true)
}

func (k emulatorKeypad) Release(key memory.Key) {
	k.emu.HandleAction(action.ForKey(uint8(key)), false)
}

// NewInputManager wires the input actions to the emulator and, if it
// handles any, to the backend.
func NewInputManager(emu Emulator, b backend.Backend) *input.Manager {
	manager := input.NewManager(emulatorKeypad{emu: emu})

	for _, act := range []action.Action{
		action.EmulatorPauseToggle,
		action.EmulatorQuit,
		action.EmulatorReset,
		action.EmulatorStep,
	} {
		act := act
		manager.On(act, event.Press, func() { emu.HandleAction(act, true) })
	}

	if handler, ok := b.(backend.ActionHandler); ok {
		for _, act := range []action.Action{
			action.EmulatorSnapshot,
			action.EmulatorDebugToggle,
			action.EmulatorDebugUpdate,
			action.DebugLogLevelIncrease,
			action.DebugLogLevelDecrease,
		} {
			act := act
			manager.On(act, event.Press, func() { handler.HandleAction(act) })
		}
	}

	return manager
}

// Run drives an initialized backend until the emulator quits or ctx is
// cancelled. Each iteration runs one frame, presents it and feeds the
// collected input back into the emulator.
func Run(ctx context.Context, emu Emulator, b backend.Backend) error {
	manager := NewInputManager(emu, b)

	for emu.State() != Quit {
		select {
		case <-ctx.Done():
			slog.Info("Run loop cancelled", "reason", ctx.Err())
			return nil
		default:
		}

		if err := emu.RunUntilFrame(); err != nil {
			return fmt.Errorf("emulation stopped: %w", err)
		}

		events, err := b.Update(emu.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}
		manager.Dispatch(events)
	}

	slog.Info("Machine quit")
	return nil
}

package terminal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

func newTestBackend() *Backend {
	return &Backend{
		logLevel:   slog.LevelInfo,
		keyStates:  make(map[action.Action]time.Time),
		activeKeys: make(map[action.Action]bool),
	}
}

func TestKeyMappings(t *testing.T) {
	tests := []struct {
		r    rune
		want action.Action
	}{
		{'1', action.Keypad1},
		{'4', action.KeypadC},
		{'w', action.Keypad5},
		{'x', action.Keypad0},
		{'v', action.KeypadF},
		{' ', action.EmulatorPauseToggle},
		{'p', action.EmulatorPauseToggle},
		{'+', action.DebugLogLevelIncrease},
		{'-', action.DebugLogLevelDecrease},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			act, ok := runeMapping[tt.r]
			require.True(t, ok)
			assert.Equal(t, tt.want, act)
		})
	}

	assert.Equal(t, action.EmulatorQuit, keyMapping[tcell.KeyEscape])
	assert.Equal(t, action.EmulatorQuit, keyMapping[tcell.KeyCtrlC])
	assert.Equal(t, action.EmulatorSnapshot, keyMapping[tcell.KeyF12])
	assert.Equal(t, action.EmulatorDebugToggle, keyMapping[tcell.KeyF10])
	assert.Equal(t, action.EmulatorReset, keyMapping[tcell.KeyF5])
}

func TestProcessKeyEvent(t *testing.T) {
	b := newTestBackend()
	now := time.Unix(1000, 0)

	b.processKeyEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), now)
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), now)
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone), now)

	assert.Equal(t, now, b.keyStates[action.Keypad4], "keypad keys are tracked for expiry")
	assert.Equal(t, []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, b.drainQueue())
	assert.Empty(t, b.drainQueue())
}

func TestKeypadEvents_pressHoldRelease(t *testing.T) {
	b := newTestBackend()
	start := time.Unix(1000, 0)
	b.keyStates[action.Keypad5] = start

	events := b.keypadEvents(start.Add(10 * time.Millisecond))
	assert.Equal(t, []backend.InputEvent{{Action: action.Keypad5, Type: event.Press}}, events)

	events = b.keypadEvents(start.Add(50 * time.Millisecond))
	assert.Equal(t, []backend.InputEvent{{Action: action.Keypad5, Type: event.Hold}}, events)

	events = b.keypadEvents(start.Add(keyTimeout))
	assert.Equal(t, []backend.InputEvent{{Action: action.Keypad5, Type: event.Release}}, events)
	assert.Empty(t, b.keyStates)

	assert.Empty(t, b.keypadEvents(start.Add(time.Second)))
}

func TestChangeLogLevel(t *testing.T) {
	b := newTestBackend()

	b.changeLogLevel(1)
	assert.Equal(t, slog.LevelDebug, b.logLevel)
	b.changeLogLevel(1)
	assert.Equal(t, slog.LevelDebug, b.logLevel, "debug is the most verbose level")

	for i := 0; i < 5; i++ {
		b.changeLogLevel(-1)
	}
	assert.Equal(t, slog.LevelError, b.logLevel)
	assert.Contains(t, b.logTitle(), "ERROR")
}

func TestRegisterLines(t *testing.T) {
	data := &debug.Data{
		CPU:        &debug.CPUState{PC: 0x204, I: 0x050, Opcode: 0xA050},
		Stack:      []uint16{0x202, 0x30A},
		DelayTimer: 5,
		SoundTimer: 1,
		RunState:   "PAUSED",
	}
	data.CPU.V[0xA] = 0x3C
	data.Keypad[0xB] = true

	lines := registerLines(data)

	assert.Equal(t, "Status: PAUSED", lines[0])
	assert.Contains(t, lines[3], "VA:3C")
	assert.Contains(t, lines, "PC: 0x204  I: 0x050  OP: 0xA050")
	assert.Contains(t, lines, "DT:   5  ST:   1  SP: 2")
	assert.Contains(t, lines, "Stack: 30A 202 ")
	assert.Contains(t, lines[len(lines)-1], "Keys: ...........B....")
}

func TestDisassemblyLines(t *testing.T) {
	snapshot := &debug.MemorySnapshot{
		StartAddr: 0x200,
		Bytes:     []byte{0x00, 0xE0, 0x6A, 0x05, 0xA0, 0x50, 0x12, 0x00},
	}

	lines := disassemblyLines(snapshot, 0x202)

	require.Len(t, lines, 4)
	assert.Equal(t, uint16(0x200), lines[0].Address)
	assert.Equal(t, "CLS", lines[0].Instruction)
	assert.Equal(t, "LD VA, 0x05", lines[1].Instruction)
	assert.Equal(t, "JP 0x200", lines[3].Instruction)
}

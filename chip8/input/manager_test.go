package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
)

func TestManager_keypad(t *testing.T) {
	keypad := memory.NewKeypad()
	m := NewManager(keypad)

	m.Trigger(action.KeypadA, event.Press)
	assert.True(t, keypad.IsPressed(0xA))

	m.Trigger(action.KeypadA, event.Hold)
	assert.True(t, keypad.IsPressed(0xA))

	m.Trigger(action.KeypadA, event.Release)
	assert.False(t, keypad.IsPressed(0xA))

	// rapid re-press is not debounced for the keypad
	m.Trigger(action.KeypadA, event.Press)
	assert.True(t, keypad.IsPressed(0xA))
}

func TestManager_callbacks(t *testing.T) {
	m := NewManager(memory.NewKeypad())
	clock := &fakeClock{current: time.Unix(1000, 0)}
	m.filter.now = clock.now

	pauses := 0
	quits := 0
	m.On(action.EmulatorPauseToggle, event.Press, func() { pauses++ })
	m.On(action.EmulatorQuit, event.Press, func() { quits++ })

	m.Dispatch([]backend.InputEvent{
		{Action: action.EmulatorPauseToggle, Type: event.Press},
		{Action: action.EmulatorPauseToggle, Type: event.Press},
		{Action: action.EmulatorPauseToggle, Type: event.Release},
	})
	assert.Equal(t, 1, pauses, "second press is debounced, release has no callback")

	clock.advance(time.Second)
	m.Trigger(action.EmulatorPauseToggle, event.Press)
	assert.Equal(t, 2, pauses)

	m.Trigger(action.EmulatorQuit, event.Press)
	assert.Equal(t, 1, quits)
}

func TestManager_nilKeypad(t *testing.T) {
	m := NewManager(nil)

	called := false
	m.On(action.Keypad1, event.Press, func() { called = true })

	assert.NotPanics(t, func() { m.Trigger(action.Keypad1, event.Press) })
	assert.True(t, called)
}

func TestDefaultKeyMap(t *testing.T) {
	tests := []struct {
		key  string
		want action.Action
	}{
		{"1", action.Keypad1},
		{"4", action.KeypadC},
		{"q", action.Keypad4},
		{"x", action.Keypad0},
		{"v", action.KeypadF},
		{"Space", action.EmulatorPauseToggle},
		{"Escape", action.EmulatorQuit},
		{"F12", action.EmulatorSnapshot},
		{"n", action.EmulatorStep},
		{"F5", action.EmulatorReset},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := GetDefaultMapping(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	keys := map[action.Action]bool{}
	for _, act := range DefaultKeyMap {
		if _, ok := act.KeypadKey(); ok {
			keys[act] = true
		}
	}
	assert.Len(t, keys, 16, "every hex key must be reachable")

	_, ok := GetDefaultMapping("F1")
	assert.False(t, ok)
}

package input

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
)

// Keypad receives the state of the hex keys.
type Keypad interface {
	Press(key memory.Key)
	Release(key memory.Key)
}

// Manager routes input actions: keypad actions are written to the keypad,
// everything else runs the callbacks registered with On.
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
	filter   *Handler
	keypad   Keypad
}

func NewManager(k Keypad) *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
		filter:   NewHandler(),
		keypad:   k,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}

	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if !m.filter.ProcessEvent(backend.InputEvent{Action: act, Type: evt}) {
		slog.Debug("Input debounced", "action", act, "type", evt)
		return
	}

	if key, ok := act.KeypadKey(); ok && m.keypad != nil {
		switch evt {
		case event.Press, event.Hold:
			m.keypad.Press(memory.Key(key))
		case event.Release:
			m.keypad.Release(memory.Key(key))
		}
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

// Dispatch triggers every event in order.
func (m *Manager) Dispatch(events []backend.InputEvent) {
	for _, evt := range events {
		m.Trigger(evt.Action, evt.Type)
	}
}

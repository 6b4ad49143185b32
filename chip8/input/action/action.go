package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Hex keypad, one action per key 0x0-0xF
	Keypad0 Action = iota
	Keypad1
	Keypad2
	Keypad3
	Keypad4
	Keypad5
	Keypad6
	Keypad7
	Keypad8
	Keypad9
	KeypadA
	KeypadB
	KeypadC
	KeypadD
	KeypadE
	KeypadF

	// Emulator features
	EmulatorPauseToggle
	EmulatorQuit
	EmulatorReset
	EmulatorStep
	EmulatorSnapshot
	EmulatorDebugToggle
	EmulatorDebugUpdate

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by who handles them.
type Category int

const (
	// CategoryGameInput actions are written to the keypad and seen by the program
	CategoryGameInput Category = iota
	// CategoryEmulator actions change the run state of the machine
	CategoryEmulator
	// CategoryDebug actions are handled by the backend
	CategoryDebug
)

// Info describes an action.
type Info struct {
	Category    Category
	Description string
}

var infos = map[Action]Info{
	EmulatorPauseToggle:   {CategoryEmulator, "Pause/Resume"},
	EmulatorQuit:          {CategoryEmulator, "Quit"},
	EmulatorReset:         {CategoryEmulator, "Reset"},
	EmulatorStep:          {CategoryEmulator, "Step one instruction"},
	EmulatorSnapshot:      {CategoryDebug, "Save snapshot"},
	EmulatorDebugToggle:   {CategoryDebug, "Toggle debug view"},
	EmulatorDebugUpdate:   {CategoryDebug, "Refresh debug view"},
	DebugLogLevelIncrease: {CategoryDebug, "Show more logs"},
	DebugLogLevelDecrease: {CategoryDebug, "Show fewer logs"},
}

// GetInfo returns the category and description of an action.
func GetInfo(act Action) Info {
	if key, ok := act.KeypadKey(); ok {
		return Info{Category: CategoryGameInput, Description: fmt.Sprintf("Key %X", key)}
	}
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Category: CategoryDebug, Description: fmt.Sprintf("Unknown action %d", int(act))}
}

// ForKey returns the keypad action for a hex key.
func ForKey(key uint8) Action {
	return Keypad0 + Action(key&0x0F)
}

// KeypadKey returns the hex key for keypad actions.
func (a Action) KeypadKey() (uint8, bool) {
	if a < Keypad0 || a > KeypadF {
		return 0, false
	}
	return uint8(a - Keypad0), true
}

func (a Action) String() string {
	return GetInfo(a).Description
}

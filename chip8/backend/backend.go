package backend

import (
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to InputEvents
// - Gating the tone on the sound timer, if they can produce sound
// - Handling backend-specific features (snapshots, debug views)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame, polls the platform for input and returns
	// the input events collected since the last call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is a platform independent input event
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// DebugDataProvider gives backends read-only access to the machine state
type DebugDataProvider interface {
	ExtractDebugData() *debug.Data
}

// SoundSource reports whether the tone should currently be playing
type SoundSource interface {
	SoundActive() bool
}

// ActionHandler is implemented by backends that handle some actions
// themselves, such as snapshots or debug view toggles.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title         string
	Scale         int
	Palette       display.Palette
	PixelOutlines bool
	ShowDebug     bool // Backends may ignore unsupported features
	DebugProvider DebugDataProvider
	Sound         SoundSource
}

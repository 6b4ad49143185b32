package chip8

import (
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

// Emulator is the interface the host loop and the backends drive.
type Emulator interface {
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	State() RunState
	SoundActive() bool
	ExtractDebugData() *debug.Data
}

var (
	_ Emulator                  = (*Machine)(nil)
	_ backend.DebugDataProvider = (*Machine)(nil)
	_ backend.SoundSource       = (*Machine)(nil)
)

//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

// samples queued per frame at 60 fps, with one extra frame of headroom
const (
	samplesPerFrame = sampleRate / 60
	maxQueuedBytes  = samplesPerFrame * 2
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	config   backend.BackendConfig
	scale    int32

	keyMapping map[sdl.Keycode]action.Action
	events     []backend.InputEvent

	audio     sdl.AudioDeviceID
	audioOpen bool
	phase     int

	// Snapshot state
	currentFrame *video.FrameBuffer
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.scale = int32(config.Scale)
	if s.scale <= 0 {
		s.scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		video.FramebufferWidth*s.scale,
		video.FramebufferHeight*s.scale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	s.keyMapping = buildKeyMapping()

	if config.Sound != nil {
		s.openAudio()
	}

	slog.Info("SDL2 backend initialized", "scale", s.scale, "outlines", config.PixelOutlines)
	return nil
}

func (s *Backend) openAudio() {
	spec := sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		slog.Warn("Audio unavailable, continuing without sound", "error", err)
		return
	}
	sdl.PauseAudioDevice(dev, false)
	s.audio = dev
	s.audioOpen = true
}

// buildKeyMapping resolves the shared default key names to SDL keycodes
func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for name, act := range input.DefaultKeyMap {
		code := sdl.GetKeyFromName(name)
		if code == sdl.K_UNKNOWN {
			slog.Debug("No SDL key for mapping", "key", name)
			continue
		}
		mapping[code] = act
	}
	return mapping
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	s.events = s.events[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	s.updateSound()

	s.currentFrame = frame
	if err := s.renderFrame(frame); err != nil {
		return nil, err
	}

	if s.config.ShowDebug && s.config.DebugProvider != nil {
		s.updateTitle(s.config.DebugProvider.ExtractDebugData())
	}

	events := make([]backend.InputEvent, len(s.events))
	copy(events, s.events)
	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioOpen {
		sdl.CloseAudioDevice(s.audio)
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(s.currentFrame, s.config.Palette)
	case action.EmulatorDebugToggle:
		s.config.ShowDebug = !s.config.ShowDebug
		if !s.config.ShowDebug {
			s.window.SetTitle(s.config.Title)
		}
	}
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := s.keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}
		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
		case e.Type == sdl.KEYDOWN:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

// updateSound keeps about one frame of tone queued while the sound timer runs.
func (s *Backend) updateSound() {
	if !s.audioOpen {
		return
	}
	if !s.config.Sound.SoundActive() {
		sdl.ClearQueuedAudio(s.audio)
		return
	}
	if sdl.GetQueuedAudioSize(s.audio) >= maxQueuedBytes {
		return
	}

	var samples []byte
	samples, s.phase = squareWave(samplesPerFrame, s.phase)
	if err := sdl.QueueAudio(s.audio, samples); err != nil {
		slog.Debug("Failed to queue audio", "error", err)
	}
}

func (s *Backend) setDrawColor(c display.Color) error {
	r, g, b, a := c.RGBA()
	return s.renderer.SetDrawColor(r, g, b, a)
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	palette := s.config.Palette

	if err := s.setDrawColor(palette.Background); err != nil {
		return fmt.Errorf("failed to set draw color: %w", err)
	}
	if err := s.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear renderer: %w", err)
	}

	lit := make([]sdl.Rect, 0, frame.LitPixels())
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			if frame.GetPixel(uint(x), uint(y)) {
				lit = append(lit, sdl.Rect{X: int32(x) * s.scale, Y: int32(y) * s.scale, W: s.scale, H: s.scale})
			}
		}
	}

	if len(lit) > 0 {
		if err := s.setDrawColor(palette.Foreground); err != nil {
			return fmt.Errorf("failed to set draw color: %w", err)
		}
		if err := s.renderer.FillRects(lit); err != nil {
			return fmt.Errorf("failed to draw pixels: %w", err)
		}

		// Outline each lit pixel in the background colour so the grid stays visible
		if s.config.PixelOutlines && s.scale > 2 {
			if err := s.setDrawColor(palette.Background); err != nil {
				return fmt.Errorf("failed to set draw color: %w", err)
			}
			if err := s.renderer.DrawRects(lit); err != nil {
				return fmt.Errorf("failed to draw outlines: %w", err)
			}
		}
	}

	s.renderer.Present()
	return nil
}

func (s *Backend) updateTitle(data *debug.Data) {
	if data == nil || data.CPU == nil {
		return
	}
	s.window.SetTitle(fmt.Sprintf("%s | %s | PC 0x%03X I 0x%03X DT %d ST %d",
		s.config.Title, data.RunState, data.CPU.PC, data.CPU.I, data.DelayTimer, data.SoundTimer))
}

var _ backend.Backend = (*Backend)(nil)
var _ backend.ActionHandler = (*Backend)(nil)

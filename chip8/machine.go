package chip8

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timer"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// DefaultInstructionsPerFrame executes one instruction per 60 Hz frame.
	DefaultInstructionsPerFrame = 1

	// bytes of memory captured before and after PC for debug views
	debugWindowBefore = 16
	debugWindowAfter  = 32
)

var ErrInvalidConfig = errors.New("invalid machine config")

// Config holds the tunables of a Machine.
type Config struct {
	InstructionsPerFrame int
	Tracer               cpu.Tracer     // nil disables tracing
	Limiter              timing.Limiter // nil runs frames as fast as possible
}

func DefaultConfig() Config {
	return Config{InstructionsPerFrame: DefaultInstructionsPerFrame}
}

// Machine owns the whole machine state and drives it one frame at a time.
type Machine struct {
	cpu    *cpu.CPU
	mem    *memory.Memory
	fb     *video.FrameBuffer
	keypad *memory.Keypad
	timers timer.Timers
	rom    []byte

	state   RunState
	ipf     int
	limiter timing.Limiter
	frames  uint64
}

// New creates a machine with the default config and the given program loaded.
func New(rom []byte) (*Machine, error) {
	return NewWithConfig(rom, DefaultConfig())
}

// NewWithConfig creates a machine with the program loaded at 0x200, PC
// pointing at it, an empty stack and the run state set to Running.
func NewWithConfig(rom []byte, cfg Config) (*Machine, error) {
	if cfg.InstructionsPerFrame < 1 {
		return nil, fmt.Errorf("%w: instructions per frame must be at least 1, got %d", ErrInvalidConfig, cfg.InstructionsPerFrame)
	}

	mem, err := memory.NewWithROM(rom)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		mem:    mem,
		fb:     video.NewFrameBuffer(),
		keypad: memory.NewKeypad(),
		rom:    append([]byte(nil), rom...),
		state:  Running,
		ipf:    cfg.InstructionsPerFrame,
	}
	m.cpu = cpu.New(m.mem, m.fb, memory.ProgramAddress)
	m.cpu.SetTracer(cfg.Tracer)
	m.SetFrameLimiter(cfg.Limiter)

	return m, nil
}

// NewWithFile creates a machine with the default config and loads the file specified into it.
func NewWithFile(path string) (*Machine, error) {
	return NewWithFileConfig(path, DefaultConfig())
}

func NewWithFileConfig(path string, cfg Config) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rom: %w", err)
	}

	m, err := NewWithConfig(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load rom %s: %w", path, err)
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data), "ipf", cfg.InstructionsPerFrame)
	return m, nil
}

// RunUntilFrame advances the machine by one frame: InstructionsPerFrame
// instructions followed by one timer tick. Nothing advances while paused.
// A stack fault moves the machine to Quit and is returned.
func (m *Machine) RunUntilFrame() error {
	switch m.state {
	case Quit:
		return ErrMachineQuit
	case Paused:
		m.limiter.WaitForNextFrame()
		return nil
	}

	for i := 0; i < m.ipf; i++ {
		if err := m.cpu.Step(); err != nil {
			m.state = Quit
			slog.Error("Machine halted", "error", err, "pc", fmt.Sprintf("0x%03X", m.cpu.PC()))
			return err
		}
	}

	m.timers.Tick()
	m.frames++
	m.limiter.WaitForNextFrame()

	return nil
}

// Step executes a single instruction without ticking the timers. It works
// while paused, so a paused machine can be walked one instruction at a time.
func (m *Machine) Step() error {
	if m.state == Quit {
		return ErrMachineQuit
	}
	if err := m.cpu.Step(); err != nil {
		m.state = Quit
		slog.Error("Machine halted", "error", err, "pc", fmt.Sprintf("0x%03X", m.cpu.PC()))
		return err
	}
	return nil
}

// Reset puts the machine back to its power-on state with the same program
// loaded and the run state set to Running.
func (m *Machine) Reset() error {
	if m.state == Quit {
		return ErrMachineQuit
	}
	if err := m.mem.Reset(m.rom); err != nil {
		return err
	}

	m.cpu.Reset()
	m.fb.Clear()
	m.timers.Reset()
	m.keypad.Reset()
	m.frames = 0
	m.state = Running
	m.ResetFrameTiming()

	slog.Info("Machine reset", "bytes", len(m.rom))
	return nil
}

func (m *Machine) GetCurrentFrame() *video.FrameBuffer {
	return m.fb
}

// HandleAction applies keypad and run state actions. Other actions are
// backend concerns and are ignored here.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	if key, ok := act.KeypadKey(); ok {
		if pressed {
			m.keypad.Press(memory.Key(key))
		} else {
			m.keypad.Release(memory.Key(key))
		}
		return
	}

	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		if err := m.TogglePause(); err != nil {
			slog.Warn("Pause toggle ignored", "error", err)
		}
	case action.EmulatorQuit:
		m.Quit()
	case action.EmulatorReset:
		if err := m.Reset(); err != nil {
			slog.Warn("Reset ignored", "error", err)
		}
	case action.EmulatorStep:
		if m.state != Paused {
			return
		}
		if err := m.Step(); err != nil {
			slog.Warn("Step failed", "error", err)
			return
		}
		slog.Debug("Stepped", "pc", fmt.Sprintf("0x%03X", m.cpu.PC()))
	}
}

// TogglePause switches between Running and Paused.
func (m *Machine) TogglePause() error {
	next, err := m.state.Next(EventPauseToggle)
	if err != nil {
		return err
	}

	m.state = next
	if next == Running {
		m.ResetFrameTiming()
	}
	slog.Info("Run state changed", "state", next)
	return nil
}

// Quit stops the machine for good.
func (m *Machine) Quit() {
	if m.state == Quit {
		return
	}
	m.state, _ = m.state.Next(EventQuit)
	slog.Info("Run state changed", "state", m.state)
}

func (m *Machine) State() RunState {
	return m.state
}

// SoundActive reports whether the sound timer is non-zero.
func (m *Machine) SoundActive() bool {
	return m.timers.SoundActive()
}

func (m *Machine) SoundTimer() uint8 {
	return m.timers.Sound
}

func (m *Machine) Keypad() *memory.Keypad {
	return m.keypad
}

// Frames returns how many frames have been executed while running.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// SetTracer replaces the instruction trace sink.
func (m *Machine) SetTracer(t cpu.Tracer) {
	m.cpu.SetTracer(t)
}

func (m *Machine) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		m.limiter = timing.NewNoOpLimiter()
	} else {
		m.limiter = limiter
	}
}

func (m *Machine) ResetFrameTiming() {
	m.limiter.Reset()
}

// ExtractDebugData returns a copy of the machine state for debug views.
func (m *Machine) ExtractDebugData() *debug.Data {
	if m.cpu == nil || m.mem == nil {
		return nil
	}

	regs := m.cpu.Registers()
	return &debug.Data{
		CPU: &debug.CPUState{
			V:      regs.V,
			I:      regs.I,
			PC:     regs.PC,
			Opcode: m.cpu.CurrentInstruction().Opcode,
			Cycles: m.cpu.Cycles(),
		},
		Stack:      m.cpu.StackEntries(),
		DelayTimer: m.timers.Delay,
		SoundTimer: m.timers.Sound,
		Keypad:     m.keypad.State(),
		Memory:     m.memoryWindow(regs.PC),
		RunState:   m.state.String(),
	}
}

// memoryWindow captures memory around pc without wrapping past either end.
func (m *Machine) memoryWindow(pc uint16) *debug.MemorySnapshot {
	pc &= memory.Size - 1

	start := 0
	if int(pc) > debugWindowBefore {
		start = int(pc) - debugWindowBefore
	}
	end := int(pc) + debugWindowAfter
	if end > memory.Size {
		end = memory.Size
	}

	return &debug.MemorySnapshot{
		StartAddr: uint16(start),
		Bytes:     m.mem.ReadRange(uint16(start), end-start),
	}
}

package cpu

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

const (
	flagRegister   = 0xF
	instructionLen = 2

	// PC stays inside the 12-bit address space
	addressMask = 0x0FFF
)

// Bus provides access to the machine memory.
type Bus interface {
	Read(address uint16) byte
}

// Display is the framebuffer the draw and clear instructions operate on.
type Display interface {
	Clear()
	// TogglePixel flips a pixel and returns true if it was lit.
	TogglePixel(x, y uint) bool
}

// Registers is a copy of the register file at a point in time.
type Registers struct {
	V  [16]uint8
	I  uint16
	PC uint16
}

// CPU holds the register file and call stack and executes one instruction per Step.
type CPU struct {
	v     [16]uint8
	i     uint16
	pc    uint16
	start uint16
	stack Stack

	current Instruction
	cycles  uint64

	bus     Bus
	display Display
	tracer  Tracer
}

// New returns a CPU with PC at startPC, all registers zeroed and no tracer.
func New(bus Bus, display Display, startPC uint16) *CPU {
	return &CPU{
		pc:      startPC & addressMask,
		start:   startPC & addressMask,
		bus:     bus,
		display: display,
		tracer:  NopTracer{},
	}
}

// Reset zeroes the registers, empties the stack and moves PC back to the
// start address. The bus, display and tracer are kept.
func (c *CPU) Reset() {
	c.v = [16]uint8{}
	c.i = 0
	c.pc = c.start
	c.stack.Reset()
	c.current = Instruction{}
	c.cycles = 0
}

// SetTracer installs a trace sink. A nil tracer disables tracing.
func (c *CPU) SetTracer(t Tracer) {
	if t == nil {
		t = NopTracer{}
	}
	c.tracer = t
}

// Step runs one fetch, decode, execute cycle. The only errors are stack
// overflow and underflow; unknown opcodes only advance PC.
func (c *CPU) Step() error {
	before := c.Registers()

	opcode := bit.Combine(c.bus.Read(c.pc), c.bus.Read(c.pc+1))
	c.advance()
	c.current = Decode(opcode)
	c.cycles++

	known, err := c.execute(c.current)

	c.tracer.Trace(TraceRecord{
		Instruction: c.current,
		Known:       known,
		Before:      before,
		After:       c.Registers(),
		StackDepth:  c.stack.Len(),
	})

	if err != nil {
		return fmt.Errorf("opcode 0x%04X at 0x%03X: %w", opcode, before.PC, err)
	}
	return nil
}

func (c *CPU) advance() {
	c.pc = (c.pc + instructionLen) & addressMask
}

// Registers returns a snapshot of V0-VF, I and PC.
func (c *CPU) Registers() Registers {
	return Registers{V: c.v, I: c.i, PC: c.pc}
}

func (c *CPU) PC() uint16 {
	return c.pc
}

func (c *CPU) I() uint16 {
	return c.i
}

// V returns the value of register VX.
func (c *CPU) V(x uint8) uint8 {
	return c.v[x&0xF]
}

// CurrentInstruction returns the last decoded instruction.
func (c *CPU) CurrentInstruction() Instruction {
	return c.current
}

// Cycles returns how many instructions have been executed.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// StackEntries returns the return addresses currently on the stack, bottom first.
func (c *CPU) StackEntries() []uint16 {
	return c.stack.Entries()
}

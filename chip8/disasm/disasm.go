package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/valerio/go-chip8/chip8/bit"
)

const instructionLen = 2

// Line is a single disassembled instruction.
type Line struct {
	Address     uint16
	Opcode      uint16
	Instruction string
}

// MemoryReader is anything that can provide bytes at an address.
type MemoryReader interface {
	Read(address uint16) byte
}

// lookup finds the instruction whose mask/value pattern matches opcode.
func lookup(opcode uint16) (*chip8.Instruction, bool) {
	for _, op := range chip8.Opcodes[int(bit.Nibble(opcode, 3))] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction, op.Instruction != nil
		}
	}
	return nil, false
}

// Disassemble returns the mnemonic for a single opcode. Opcodes that match
// no known instruction are rendered as raw data words.
func Disassemble(opcode uint16) string {
	ins, ok := lookup(opcode)
	if !ok {
		return fmt.Sprintf("DW 0x%04X", opcode)
	}

	name := strings.ToUpper(ins.Name)
	if params := formatOperands(ins.Name, opcode); params != "" {
		return name + " " + params
	}
	return name
}

// formatOperands renders the operands of opcode for the named instruction.
func formatOperands(name string, opcode uint16) string {
	class := bit.Nibble(opcode, 3)
	x := bit.Nibble(opcode, 2)
	y := bit.Nibble(opcode, 1)
	n := bit.Nibble(opcode, 0)
	nn := bit.Low(opcode)
	nnn := opcode & 0x0FFF

	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return ""
	case chip8.JpInst.Name:
		if class == 0xB {
			return fmt.Sprintf("V0, 0x%03X", nnn)
		}
		return fmt.Sprintf("0x%03X", nnn)
	case chip8.CallInst.Name:
		return fmt.Sprintf("0x%03X", nnn)
	case chip8.SeInst.Name, chip8.SneInst.Name:
		if class == 0x5 || class == 0x9 {
			return fmt.Sprintf("V%X, V%X", x, y)
		}
		return fmt.Sprintf("V%X, 0x%02X", x, nn)
	case chip8.LdInst.Name:
		return formatLoad(class, x, y, nn, nnn)
	case chip8.AddInst.Name:
		switch class {
		case 0x7:
			return fmt.Sprintf("V%X, 0x%02X", x, nn)
		case 0xF:
			return fmt.Sprintf("I, V%X", x)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", x, y)
	case chip8.ShrInst.Name, chip8.ShlInst.Name, chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", x)
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, 0x%02X", x, nn)
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, %d", x, y, n)
	}
	return ""
}

// formatLoad covers the many LD forms, told apart by class and low byte.
func formatLoad(class, x, y, nn uint8, nnn uint16) string {
	switch class {
	case 0x6:
		return fmt.Sprintf("V%X, 0x%02X", x, nn)
	case 0x8:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA:
		return fmt.Sprintf("I, 0x%03X", nnn)
	}

	switch nn {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return fmt.Sprintf("V%X", x)
}

// DisassembleAt decodes the instruction stored at pc.
func DisassembleAt(pc uint16, mem MemoryReader) Line {
	opcode := bit.Combine(mem.Read(pc), mem.Read(pc+1))
	return Line{
		Address:     pc,
		Opcode:      opcode,
		Instruction: Disassemble(opcode),
	}
}

// DisassembleBytes decodes the instruction at offset in a byte slice. A
// trailing odd byte is padded with zero.
func DisassembleBytes(data []byte, offset int) (string, int) {
	if offset < 0 || offset >= len(data) {
		return "??", instructionLen
	}

	var low byte
	if offset+1 < len(data) {
		low = data[offset+1]
	}
	return Disassemble(bit.Combine(data[offset], low)), instructionLen
}

// Window disassembles count instructions starting at start, two bytes apart.
func Window(start uint16, count int, mem MemoryReader) []Line {
	lines := make([]Line, 0, count)
	for i := 0; i < count; i++ {
		lines = append(lines, DisassembleAt(start+uint16(i*instructionLen), mem))
	}
	return lines
}

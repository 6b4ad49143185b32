package cpu

import "github.com/valerio/go-chip8/chip8/bit"

// Instruction holds the fields of a decoded opcode. Every 16 bit value
// decodes to an Instruction, whether or not the class is implemented.
type Instruction struct {
	Opcode uint16
	Class  uint8  // high nibble
	X      uint8  // bits 8-11
	Y      uint8  // bits 4-7
	N      uint8  // low nibble
	NN     uint8  // low byte
	NNN    uint16 // low 12 bits
}

// Decode splits an opcode into its fields.
func Decode(opcode uint16) Instruction {
	return Instruction{
		Opcode: opcode,
		Class:  bit.Nibble(opcode, 3),
		X:      bit.Nibble(opcode, 2),
		Y:      bit.Nibble(opcode, 1),
		N:      bit.Nibble(opcode, 0),
		NN:     bit.Low(opcode),
		NNN:    opcode & 0x0FFF,
	}
}

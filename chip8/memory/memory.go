package memory

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	// Size is the addressable memory of the machine, 4KiB.
	Size = 0x1000
	// FontAddress is where the hex font sprites are stored.
	FontAddress uint16 = 0x000
	// ProgramAddress is where ROMs get loaded and where execution starts.
	ProgramAddress uint16 = 0x200
	// MaxROMSize is the largest program that fits between ProgramAddress and the end of memory.
	MaxROMSize = Size - int(ProgramAddress)
	// FontGlyphHeight is the height in rows of each hex digit sprite.
	FontGlyphHeight = 5

	addressMask = Size - 1
)

var (
	ErrROMTooLarge = errors.New("rom does not fit in memory")
	ErrEmptyROM    = errors.New("rom is empty")
)

// font holds the sprites for the hex digits 0-F, 5 bytes each.
var font = [16 * FontGlyphHeight]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4KiB RAM of the machine. Addresses are masked to 12 bits,
// so any 16 bit address is valid and wraps around.
type Memory struct {
	data [Size]byte
}

// New creates a memory with the font loaded and nothing else.
func New() *Memory {
	m := &Memory{}
	copy(m.data[FontAddress:], font[:])
	return m
}

// NewWithROM creates a memory with the font loaded and the program copied at ProgramAddress.
func NewWithROM(rom []byte) (*Memory, error) {
	m := New()
	if err := m.LoadROM(rom); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset clears RAM back to the font only and loads rom again.
func (m *Memory) Reset(rom []byte) error {
	m.data = [Size]byte{}
	copy(m.data[FontAddress:], font[:])
	return m.LoadROM(rom)
}

// LoadROM copies the program bytes at ProgramAddress.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) == 0 {
		return ErrEmptyROM
	}
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, max is %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}

	copy(m.data[ProgramAddress:], rom)
	slog.Debug("Loaded ROM", "bytes", len(rom), "address", fmt.Sprintf("0x%03X", ProgramAddress))
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) byte {
	return m.data[address&addressMask]
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) {
	m.data[address&addressMask] = value
}

// ReadRange copies length bytes starting at address, wrapping at the end of memory.
func (m *Memory) ReadRange(address uint16, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = m.Read(address + uint16(i))
	}
	return out
}

// FontSpriteAddress returns the address of the sprite for the given hex digit.
func FontSpriteAddress(digit uint8) uint16 {
	return FontAddress + uint16(digit&0x0F)*FontGlyphHeight
}

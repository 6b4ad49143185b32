package debug

// CPUState contains the register file for debugging
type CPUState struct {
	V      [16]uint8
	I      uint16
	PC     uint16
	Opcode uint16 // last executed opcode
	Cycles uint64
}

// MemorySnapshot contains a window of memory, used for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// Read returns the byte at address if it falls inside the snapshot, 0 otherwise.
func (m *MemorySnapshot) Read(address uint16) byte {
	if address < m.StartAddr || int(address-m.StartAddr) >= len(m.Bytes) {
		return 0
	}
	return m.Bytes[address-m.StartAddr]
}

// Contains reports whether address is inside the snapshot.
func (m *MemorySnapshot) Contains(address uint16) bool {
	return address >= m.StartAddr && int(address-m.StartAddr) < len(m.Bytes)
}

// Data contains all debug information needed by debug displays
type Data struct {
	CPU        *CPUState
	Stack      []uint16
	DelayTimer uint8
	SoundTimer uint8
	Keypad     [16]bool
	Memory     *MemorySnapshot
	RunState   string
}

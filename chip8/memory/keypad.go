package memory

// Key is one of the 16 hex keys on the keypad, 0x0 to 0xF.
type Key uint8

const KeyCount = 16

// Keypad holds the pressed state of each key. Only the host writes it.
type Keypad struct {
	keys [KeyCount]bool
}

// NewKeypad creates a keypad with all keys released.
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks the key as held down.
func (k *Keypad) Press(key Key) {
	k.keys[key&0x0F] = true
}

// Release marks the key as released.
func (k *Keypad) Release(key Key) {
	k.keys[key&0x0F] = false
}

// IsPressed reports whether the key is currently held.
func (k *Keypad) IsPressed(key Key) bool {
	return k.keys[key&0x0F]
}

// State returns a copy of the pressed state of every key.
func (k *Keypad) State() [KeyCount]bool {
	return k.keys
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.keys = [KeyCount]bool{}
}

package emu

// KeyCount is the number of keys on the hexadecimal keypad.
const KeyCount = 16

// Keypad reports the state of the 16-key hexadecimal keypad.
// The emulator only ever passes keys in the range 0x0-0xF.
type Keypad interface {
	// IsKeyDown reports whether key is currently held.
	IsKeyDown(key uint8) bool

	// AnyKeyDown returns the first held key in an order chosen by the
	// implementation. The order must be stable between calls.
	AnyKeyDown() (uint8, bool)
}

// NoKeypad is a Keypad on which no key is ever held.
type NoKeypad struct{}

// IsKeyDown always returns false.
func (NoKeypad) IsKeyDown(uint8) bool { return false }

// AnyKeyDown always returns false.
func (NoKeypad) AnyKeyDown() (uint8, bool) { return 0, false }

package emu

// ProgramStart is the address where ROMs are loaded and execution begins.
const ProgramStart = 0x200

// RegFile represents the CHIP-8 register file.
// It contains the sixteen 8-bit registers V0-VF, the index register I,
// the program counter, the call stack and the two timers.
type RegFile struct {
	// V holds the general-purpose registers. VF doubles as the flag register.
	V [16]uint8

	// I is the index register. It is not masked to 12 bits.
	I uint16

	// PC is the program counter.
	PC uint16

	// Stack holds return addresses pushed by CALL, innermost last.
	Stack []uint16

	// DT is the delay timer.
	DT uint8

	// ST is the sound timer.
	ST uint8
}

// ReadReg reads VX. Only the low nibble of x is used.
func (r *RegFile) ReadReg(x uint8) uint8 {
	return r.V[x&0xF]
}

// WriteReg writes VX. Only the low nibble of x is used.
func (r *RegFile) WriteReg(x uint8, value uint8) {
	r.V[x&0xF] = value
}

// SetFlag writes VF.
func (r *RegFile) SetFlag(value uint8) {
	r.V[0xF] = value
}

// SP returns the current call depth.
func (r *RegFile) SP() int {
	return len(r.Stack)
}

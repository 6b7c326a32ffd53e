package emu

// InstructionSize is the size of one instruction word in bytes.
const InstructionSize = 2

// BranchUnit implements CHIP-8 jumps, calls, returns and skips.
//
// The emulator adds InstructionSize to PC after every instruction, so every
// absolute target T is stored as T-2.
type BranchUnit struct {
	regFile    *RegFile
	stackLimit int // 0 means unbounded
}

// NewBranchUnit creates a new BranchUnit connected to the given register
// file. A stackLimit of 0 leaves the call stack unbounded.
func NewBranchUnit(regFile *RegFile, stackLimit int) *BranchUnit {
	return &BranchUnit{regFile: regFile, stackLimit: stackLimit}
}

// JP jumps to addr.
func (b *BranchUnit) JP(addr uint16) {
	b.regFile.PC = addr - InstructionSize
}

// CALL pushes the address of the next instruction and jumps to addr.
func (b *BranchUnit) CALL(addr uint16) error {
	if b.stackLimit > 0 && len(b.regFile.Stack) >= b.stackLimit {
		return ErrStackOverflow
	}
	b.regFile.Stack = append(b.regFile.Stack, b.regFile.PC+InstructionSize)
	b.regFile.PC = addr - InstructionSize
	return nil
}

// RET pops the innermost return address into PC.
func (b *BranchUnit) RET() error {
	n := len(b.regFile.Stack)
	if n == 0 {
		return ErrStackUnderflow
	}
	ret := b.regFile.Stack[n-1]
	b.regFile.Stack = b.regFile.Stack[:n-1]
	b.regFile.PC = ret - InstructionSize
	return nil
}

// SkipIf skips the next instruction when cond holds.
func (b *BranchUnit) SkipIf(cond bool) {
	if cond {
		b.regFile.PC += InstructionSize
	}
}

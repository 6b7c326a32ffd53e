package emu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/c8sim/insts"
)

// Fault causes.
var (
	ErrUnimplemented  = errors.New("unimplemented instruction")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackOverflow  = errors.New("stack overflow")
)

// Fault is a fatal execution error. Once a Fault is returned the emulator
// stays halted until it is reset or a new ROM is loaded.
type Fault struct {
	// PC is the address of the faulting instruction.
	PC uint16

	// Inst is the decoded faulting instruction. It is nil when the
	// instruction word itself could not be fetched.
	Inst *insts.Instruction

	// Addr is the offending address for out-of-bounds faults.
	Addr int

	// Err is the cause: ErrUnimplemented, ErrStackUnderflow,
	// ErrStackOverflow or an *AddressError.
	Err error
}

func (f *Fault) Error() string {
	if f.Inst == nil {
		return fmt.Sprintf("fault at PC=0x%03X: %v", f.PC, f.Err)
	}
	i := f.Inst
	return fmt.Sprintf(
		"fault at PC=0x%03X: %v (opcode 0x%04X %q: class=%X X=%X Y=%X N=%X NN=0x%02X NNN=0x%03X)",
		f.PC, f.Err, i.Word, i.String(), i.Class, i.X, i.Y, i.N, i.NN, i.NNN)
}

// Unwrap returns the cause of the fault.
func (f *Fault) Unwrap() error {
	return f.Err
}

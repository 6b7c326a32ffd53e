package emu

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/sarchlab/c8sim/insts"
)

// DefaultSpeed is the default number of instructions executed per frame.
const DefaultSpeed = 10

// StepResult represents the result of a single cycle-step.
type StepResult struct {
	// Executed is true if an instruction was fetched and executed.
	Executed bool

	// Inst is the executed (or faulting) instruction.
	Inst insts.Instruction

	// Blocked is true if the step was spent waiting for a key press.
	Blocked bool

	// Beeped is true if the sound timer expired during this step.
	Beeped bool

	// Err is set if a fault occurred. It is always a *Fault.
	Err error
}

// Emulator executes CHIP-8 programs.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	display *Display
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	// Host collaborators
	keypad Keypad
	beep   func()
	random func() uint8
	trace  io.Writer

	quirks     Quirks
	stackLimit int
	speed      int

	// Execution state
	inst             insts.Instruction
	waiting          bool
	waitReg          uint8
	fault            *Fault
	instructionCount uint64
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithKeypad sets the keypad the emulator polls.
func WithKeypad(k Keypad) EmulatorOption {
	return func(e *Emulator) {
		e.keypad = k
	}
}

// WithBeeper sets the function called each time the sound timer expires.
// It is called synchronously from Step and must return promptly.
func WithBeeper(fn func()) EmulatorOption {
	return func(e *Emulator) {
		e.beep = fn
	}
}

// WithRandom sets the byte source used by CXNN.
func WithRandom(fn func() uint8) EmulatorOption {
	return func(e *Emulator) {
		e.random = fn
	}
}

// WithSeed makes CXNN deterministic using a PCG source seeded with seed.
func WithSeed(seed uint64) EmulatorOption {
	return func(e *Emulator) {
		r := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
		e.random = func() uint8 { return uint8(r.UintN(256)) }
	}
}

// WithSpeed sets the number of instructions executed per RunFrame.
func WithSpeed(n int) EmulatorOption {
	return func(e *Emulator) {
		e.SetSpeed(n)
	}
}

// WithStackLimit caps the call depth; CALL beyond it faults with
// ErrStackOverflow. A value of 0 means no limit.
func WithStackLimit(n int) EmulatorOption {
	return func(e *Emulator) {
		e.stackLimit = n
	}
}

// WithQuirks selects the flag behaviour of the shift and arithmetic
// instructions.
func WithQuirks(q Quirks) EmulatorOption {
	return func(e *Emulator) {
		e.quirks = q
	}
}

// WithTracer writes one line per executed instruction to w.
func WithTracer(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.trace = w
	}
}

// NewEmulator creates a new CHIP-8 emulator with PC at ProgramStart.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{PC: ProgramStart},
		memory:  NewMemory(),
		display: NewDisplay(),
		decoder: insts.NewDecoder(),
		keypad:  NoKeypad{},
		random:  func() uint8 { return uint8(rand.UintN(256)) },
		speed:   DefaultSpeed,
	}

	for _, opt := range opts {
		opt(e)
	}

	// Create execution units
	e.alu = NewALU(e.regFile, e.quirks)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile, e.stackLimit)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Display returns the emulator's graphics buffer.
func (e *Emulator) Display() *Display {
	return e.display
}

// Frame returns a copy of the current framebuffer.
func (e *Emulator) Frame() Frame {
	return e.display.Frame()
}

// PC returns the program counter.
func (e *Emulator) PC() uint16 { return e.regFile.PC }

// I returns the index register.
func (e *Emulator) I() uint16 { return e.regFile.I }

// SP returns the call depth.
func (e *Emulator) SP() int { return e.regFile.SP() }

// Speed returns the number of instructions executed per RunFrame.
func (e *Emulator) Speed() int {
	return e.speed
}

// SetSpeed sets the number of instructions executed per RunFrame. Negative
// values are treated as 0.
func (e *Emulator) SetSpeed(n int) {
	e.speed = max(n, 0)
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Blocked reports whether the emulator is waiting for a key press, and the
// register that will receive it.
func (e *Emulator) Blocked() (reg uint8, blocked bool) {
	return e.waitReg, e.waiting
}

// Halted reports whether a fault has stopped the emulator.
func (e *Emulator) Halted() bool {
	return e.fault != nil
}

// Fault returns the fault that halted the emulator, or nil.
func (e *Emulator) Fault() *Fault {
	return e.fault
}

// LoadROM writes the font table at FontBase and rom at ProgramStart, and
// moves PC to ProgramStart. A ROM that does not fit is rejected before
// anything is written.
func (e *Emulator) LoadROM(rom []byte) error {
	if len(rom) > MemorySize-ProgramStart {
		return fmt.Errorf("rom of %d bytes does not fit: %w",
			len(rom), &AddressError{Addr: ProgramStart + len(rom) - 1})
	}

	if err := e.memory.WriteBulk(FontBase, Font[:]); err != nil {
		return err
	}
	if err := e.memory.WriteBulk(ProgramStart, rom); err != nil {
		return err
	}

	e.regFile.PC = ProgramStart
	e.waiting = false
	e.fault = nil
	return nil
}

// Reset clears the display and moves PC back to ProgramStart. It also
// leaves the blocked and halted states. Memory, registers, the stack and
// the timers are left as they are.
func (e *Emulator) Reset() {
	e.display.Clear()
	e.regFile.PC = ProgramStart
	e.waiting = false
	e.fault = nil
}

// Peek decodes the instruction at PC without executing it. It returns
// false while the emulator is blocked or halted, or if PC is out of range.
func (e *Emulator) Peek() (insts.Instruction, bool) {
	var inst insts.Instruction
	if e.waiting || e.fault != nil {
		return inst, false
	}
	word, err := e.memory.Read16(int(e.regFile.PC))
	if err != nil {
		return inst, false
	}
	e.decoder.DecodeInto(word, &inst)
	return inst, true
}

// Step performs a single cycle-step: it executes one instruction, or polls
// the keypad while blocked, then updates the timers.
func (e *Emulator) Step() StepResult {
	if e.fault != nil {
		return StepResult{Err: e.fault}
	}

	var result StepResult

	if e.waiting {
		result.Blocked = true
		if key, ok := e.keypad.AnyKeyDown(); ok {
			e.regFile.WriteReg(e.waitReg, key&0xF)
			e.waiting = false
		}
	} else {
		// 1. Fetch
		word, err := e.memory.Read16(int(e.regFile.PC))
		if err != nil {
			return e.halt(err, nil)
		}

		// 2. Decode
		e.decoder.DecodeInto(word, &e.inst)
		result.Inst = e.inst

		if e.trace != nil {
			_, _ = fmt.Fprintf(e.trace, "%03X  %04X  %s\n", e.regFile.PC, word, e.inst.String())
		}

		// 3. Execute
		if err := e.execute(&e.inst); err != nil {
			return e.halt(err, &e.inst)
		}

		e.regFile.PC += InstructionSize
		e.instructionCount++
		result.Executed = true
	}

	result.Beeped = e.tickTimers()
	return result
}

// Cycle performs up to n cycle-steps and returns the first fault.
func (e *Emulator) Cycle(n int) error {
	for i := 0; i < n; i++ {
		if result := e.Step(); result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// RunFrame performs Speed() cycle-steps.
func (e *Emulator) RunFrame() error {
	return e.Cycle(e.speed)
}

func (e *Emulator) halt(err error, inst *insts.Instruction) StepResult {
	f := &Fault{PC: e.regFile.PC, Err: err}
	if inst != nil {
		c := *inst
		f.Inst = &c
	}

	var addrErr *AddressError
	if errors.As(err, &addrErr) {
		f.Addr = addrErr.Addr
	}

	e.fault = f

	result := StepResult{Err: f}
	if inst != nil {
		result.Inst = *inst
	}
	return result
}

// tickTimers decrements both timers and reports whether the sound timer
// expired on this step.
func (e *Emulator) tickTimers() bool {
	r := e.regFile
	if r.DT > 0 {
		r.DT--
	}

	if r.ST == 0 {
		return false
	}
	if r.ST == 1 {
		if e.beep != nil {
			e.beep()
		}
		r.ST = 0
		return true
	}
	r.ST--
	return false
}

// execute dispatches and executes a decoded instruction. PC still points at
// the instruction itself.
func (e *Emulator) execute(inst *insts.Instruction) error {
	r := e.regFile

	switch inst.Op {
	case insts.OpCLS:
		e.display.Clear()
	case insts.OpRET:
		return e.branchUnit.RET()
	case insts.OpJP:
		e.branchUnit.JP(inst.NNN)
	case insts.OpCALL:
		return e.branchUnit.CALL(inst.NNN)
	case insts.OpSEImm:
		e.branchUnit.SkipIf(r.ReadReg(inst.X) == inst.NN)
	case insts.OpSNEImm:
		e.branchUnit.SkipIf(r.ReadReg(inst.X) != inst.NN)
	case insts.OpSEReg:
		e.branchUnit.SkipIf(r.ReadReg(inst.X) == r.ReadReg(inst.Y))
	case insts.OpSNEReg:
		e.branchUnit.SkipIf(r.ReadReg(inst.X) != r.ReadReg(inst.Y))
	case insts.OpLDImm:
		r.WriteReg(inst.X, inst.NN)
	case insts.OpADDImm:
		e.alu.ADDImm(inst.X, inst.NN)
	case insts.OpLDReg:
		e.alu.LD(inst.X, inst.Y)
	case insts.OpOR:
		e.alu.OR(inst.X, inst.Y)
	case insts.OpAND:
		e.alu.AND(inst.X, inst.Y)
	case insts.OpXOR:
		e.alu.XOR(inst.X, inst.Y)
	case insts.OpADDReg:
		e.alu.ADD(inst.X, inst.Y)
	case insts.OpSUB:
		e.alu.SUB(inst.X, inst.Y)
	case insts.OpSHR:
		e.alu.SHR(inst.X)
	case insts.OpSHL:
		e.alu.SHL(inst.X)
	case insts.OpLDI:
		r.I = inst.NNN
	case insts.OpRND:
		r.WriteReg(inst.X, e.random()&inst.NN)
	case insts.OpDRW:
		return e.executeDraw(inst)
	case insts.OpSKP:
		e.branchUnit.SkipIf(e.keypad.IsKeyDown(r.ReadReg(inst.X) & 0xF))
	case insts.OpSKNP:
		e.branchUnit.SkipIf(!e.keypad.IsKeyDown(r.ReadReg(inst.X) & 0xF))
	case insts.OpLDVxDT:
		r.WriteReg(inst.X, r.DT)
	case insts.OpLDVxK:
		e.waiting = true
		e.waitReg = inst.X
	case insts.OpLDDTVx:
		r.DT = r.ReadReg(inst.X)
	case insts.OpLDSTVx:
		r.ST = r.ReadReg(inst.X)
	case insts.OpADDI:
		e.lsu.ADDI(inst.X)
	case insts.OpLDF:
		e.lsu.LDF(inst.X)
	case insts.OpLDB:
		return e.lsu.BCD(inst.X)
	case insts.OpLDIVx:
		return e.lsu.Store(inst.X)
	case insts.OpLDVxI:
		return e.lsu.Load(inst.X)
	default:
		return ErrUnimplemented
	}

	return nil
}

// executeDraw executes DXYN. VF ends up 1 if any flip left its pixel off,
// 0 otherwise.
func (e *Emulator) executeDraw(inst *insts.Instruction) error {
	rows, err := e.lsu.Sprite(inst.N)
	if err != nil {
		return err
	}

	x := e.regFile.ReadReg(inst.X)
	y := e.regFile.ReadReg(inst.Y)
	collided := e.display.DrawSprite(x, y, rows)
	e.regFile.SetFlag(boolToFlag(collided))
	return nil
}

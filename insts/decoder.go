package insts

// Op represents a CHIP-8 operation.
type Op uint8

// CHIP-8 operations.
const (
	OpUnknown Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEImm      // 3XNN
	OpSNEImm     // 4XNN
	OpSEReg      // 5XY0
	OpLDImm      // 6XNN
	OpADDImm     // 7XNN
	OpLDReg      // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADDReg     // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSHL        // 8XYE
	OpSNEReg     // 9XY0
	OpLDI        // ANNN
	OpRND        // CXNN
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxK      // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDI       // FX1E
	OpLDF        // FX29
	OpLDB        // FX33
	OpLDIVx      // FX55
	OpLDVxI      // FX65
)

// Instruction represents a decoded CHIP-8 instruction.
type Instruction struct {
	Op   Op     // Operation
	Word uint16 // Raw instruction word

	Class uint8  // Bits 12-15, the instruction class
	X     uint8  // Bits 8-11, first register index
	Y     uint8  // Bits 4-7, second register index
	N     uint8  // Bits 0-3, immediate nibble
	NN    uint8  // Bits 0-7, immediate byte
	NNN   uint16 // Bits 0-11, immediate address
}

// Decoder decodes CHIP-8 instruction words into instructions.
type Decoder struct{}

// NewDecoder creates a new CHIP-8 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 16-bit instruction word. It never fails: the operand
// fields are always populated and Op is OpUnknown for unsupported words.
func (d *Decoder) Decode(word uint16) *Instruction {
	inst := &Instruction{}
	d.DecodeInto(word, inst)
	return inst
}

// DecodeInto decodes word into inst without allocating.
func (d *Decoder) DecodeInto(word uint16, inst *Instruction) {
	*inst = Instruction{
		Word:  word,
		Class: uint8(word>>12) & 0xF,
		X:     uint8(word>>8) & 0xF,
		Y:     uint8(word>>4) & 0xF,
		N:     uint8(word) & 0xF,
		NN:    uint8(word),
		NNN:   word & 0x0FFF,
	}
	inst.Op = d.classify(inst)
}

func (d *Decoder) classify(inst *Instruction) Op {
	switch inst.Class {
	case 0x0:
		switch inst.NN {
		case 0xE0:
			return OpCLS
		case 0xEE:
			return OpRET
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEImm
	case 0x4:
		return OpSNEImm
	case 0x5:
		// The low nibble is not checked.
		return OpSEReg
	case 0x6:
		return OpLDImm
	case 0x7:
		return OpADDImm
	case 0x8:
		return d.classifyALU(inst.N)
	case 0x9:
		return OpSNEReg
	case 0xA:
		return OpLDI
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch inst.NN {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		return d.classifyMisc(inst.NN)
	}
	return OpUnknown
}

func (d *Decoder) classifyALU(n uint8) Op {
	switch n {
	case 0x0:
		return OpLDReg
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDReg
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0xE:
		return OpSHL
	}
	return OpUnknown
}

func (d *Decoder) classifyMisc(nn uint8) Op {
	switch nn {
	case 0x07:
		return OpLDVxDT
	case 0x0A:
		return OpLDVxK
	case 0x15:
		return OpLDDTVx
	case 0x18:
		return OpLDSTVx
	case 0x1E:
		return OpADDI
	case 0x29:
		return OpLDF
	case 0x33:
		return OpLDB
	case 0x55:
		return OpLDIVx
	case 0x65:
		return OpLDVxI
	}
	return OpUnknown
}

// IsBranch reports whether the instruction sets PC to an absolute target.
func (i *Instruction) IsBranch() bool {
	switch i.Op {
	case OpJP, OpCALL, OpRET:
		return true
	}
	return false
}

// IsSkip reports whether the instruction may skip the following instruction.
func (i *Instruction) IsSkip() bool {
	switch i.Op {
	case OpSEImm, OpSNEImm, OpSEReg, OpSNEReg, OpSKP, OpSKNP:
		return true
	}
	return false
}

package insts

import "fmt"

var opNames = [...]string{
	OpUnknown: "???",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDIVx:   "LD",
	OpLDVxI:   "LD",
}

// Name returns the assembler mnemonic of the operation.
func (o Op) Name() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpUnknown]
}

// String implements fmt.Stringer.
func (o Op) String() string {
	return o.Name()
}

// Operands returns the operand list of the instruction in assembler syntax.
func (i *Instruction) Operands() string {
	switch i.Op {
	case OpCLS, OpRET:
		return ""
	case OpJP, OpCALL:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpSEImm, OpSNEImm, OpLDImm, OpADDImm, OpRND:
		return fmt.Sprintf("V%X, $%02X", i.X, i.NN)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpSHR, OpSHL:
		return fmt.Sprintf("V%X {, V%X}", i.X, i.Y)
	case OpLDI:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, %d", i.X, i.Y, i.N)
	case OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", i.X)
	case OpLDVxDT:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpLDVxK:
		return fmt.Sprintf("V%X, K", i.X)
	case OpLDDTVx:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpLDSTVx:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpADDI:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLDF:
		return fmt.Sprintf("F, V%X", i.X)
	case OpLDB:
		return fmt.Sprintf("B, V%X", i.X)
	case OpLDIVx:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLDVxI:
		return fmt.Sprintf("V%X, [I]", i.X)
	}
	return fmt.Sprintf("$%04X", i.Word)
}

// String renders the instruction in assembler syntax, e.g. "DRW V0, V1, 5".
func (i *Instruction) String() string {
	ops := i.Operands()
	if ops == "" {
		return i.Op.Name()
	}
	return i.Op.Name() + " " + ops
}

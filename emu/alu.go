package emu

// Quirks enables the conventional CHIP-8 VF side effects. The zero value
// keeps the default behaviour, where arithmetic and right shifts never touch
// VF.
type Quirks struct {
	// ArithmeticFlags makes 8XY4 set VF to the carry and 8XY5 set VF to
	// NOT borrow. Without it both leave VF untouched.
	ArithmeticFlags bool

	// ShiftFlags makes 8XY6 store the shifted-out LSB and 8XYE the
	// shifted-out MSB in VF. Without it 8XY6 leaves VF untouched and 8XYE
	// stores the pre-shift LSB.
	ShiftFlags bool
}

// ALU implements the CHIP-8 register arithmetic and logic operations.
type ALU struct {
	regFile *RegFile
	quirks  Quirks
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile, quirks Quirks) *ALU {
	return &ALU{regFile: regFile, quirks: quirks}
}

// ADDImm performs VX = VX + NN, wrapping. VF is never changed.
func (a *ALU) ADDImm(x, nn uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)+nn)
}

// LD performs VX = VY.
func (a *ALU) LD(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(y))
}

// OR performs VX = VX | VY.
func (a *ALU) OR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)|a.regFile.ReadReg(y))
}

// AND performs VX = VX & VY.
func (a *ALU) AND(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)&a.regFile.ReadReg(y))
}

// XOR performs VX = VX ^ VY.
func (a *ALU) XOR(x, y uint8) {
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)^a.regFile.ReadReg(y))
}

// ADD performs VX = VX + VY, wrapping.
func (a *ALU) ADD(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)
	a.regFile.WriteReg(x, op1+op2)
	if a.quirks.ArithmeticFlags {
		a.regFile.SetFlag(boolToFlag(uint16(op1)+uint16(op2) > 0xFF))
	}
}

// SUB performs VX = VX - VY, wrapping.
func (a *ALU) SUB(x, y uint8) {
	op1 := a.regFile.ReadReg(x)
	op2 := a.regFile.ReadReg(y)
	a.regFile.WriteReg(x, op1-op2)
	if a.quirks.ArithmeticFlags {
		a.regFile.SetFlag(boolToFlag(op1 >= op2))
	}
}

// SHR performs VX = VX >> 1.
func (a *ALU) SHR(x uint8) {
	value := a.regFile.ReadReg(x)
	a.regFile.WriteReg(x, value>>1)
	if a.quirks.ShiftFlags {
		a.regFile.SetFlag(value & 1)
	}
}

// SHL performs VX = VX << 1.
func (a *ALU) SHL(x uint8) {
	if a.quirks.ShiftFlags {
		value := a.regFile.ReadReg(x)
		a.regFile.WriteReg(x, value<<1)
		a.regFile.SetFlag(value >> 7)
		return
	}

	// VF is written first, so for X=F the shift applies to the new flag.
	a.regFile.SetFlag(a.regFile.ReadReg(x) & 1)
	a.regFile.WriteReg(x, a.regFile.ReadReg(x)<<1)
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

package emu

// LoadStoreUnit implements the CHIP-8 operations that go through the index
// register. Every operation checks its whole memory range before touching
// memory or registers.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// ADDI performs I = I + VX. I is not masked.
func (lsu *LoadStoreUnit) ADDI(x uint8) {
	lsu.regFile.I += uint16(lsu.regFile.ReadReg(x))
}

// LDF points I at the font glyph for the digit in VX.
func (lsu *LoadStoreUnit) LDF(x uint8) {
	lsu.regFile.I = FontBase + uint16(lsu.regFile.ReadReg(x))*FontGlyphSize
}

// BCD stores the hundreds, tens and ones digits of VX at I, I+1, I+2.
func (lsu *LoadStoreUnit) BCD(x uint8) error {
	value := lsu.regFile.ReadReg(x)
	return lsu.memory.WriteBulk(int(lsu.regFile.I), []byte{
		value / 100,
		(value / 10) % 10,
		value % 10,
	})
}

// Store writes V0..VX inclusive to memory starting at I.
func (lsu *LoadStoreUnit) Store(x uint8) error {
	n := int(x&0xF) + 1
	return lsu.memory.WriteBulk(int(lsu.regFile.I), lsu.regFile.V[:n])
}

// Load reads memory starting at I into V0..VX inclusive.
func (lsu *LoadStoreUnit) Load(x uint8) error {
	n := int(x&0xF) + 1
	data, err := lsu.memory.ReadBulk(int(lsu.regFile.I), n)
	if err != nil {
		return err
	}
	copy(lsu.regFile.V[:n], data)
	return nil
}

// Sprite returns n rows of sprite data starting at I.
func (lsu *LoadStoreUnit) Sprite(n uint8) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return lsu.memory.ReadBulk(int(lsu.regFile.I), int(n))
}

package benchmarks

// Helper functions for building CHIP-8 programs

// BuildProgram assembles instruction words into a big-endian ROM image.
func BuildProgram(words ...uint16) []byte {
	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	return program
}

func encodeXNN(class uint16, x, nn uint8) uint16 {
	return class<<12 | uint16(x&0xF)<<8 | uint16(nn)
}

func encodeXYN(class uint16, x, y, n uint8) uint16 {
	return class<<12 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}

// EncodeCLS encodes 00E0.
func EncodeCLS() uint16 { return 0x00E0 }

// EncodeRET encodes 00EE.
func EncodeRET() uint16 { return 0x00EE }

// EncodeJP encodes 1NNN.
func EncodeJP(addr uint16) uint16 { return 0x1000 | addr&0xFFF }

// EncodeCALL encodes 2NNN.
func EncodeCALL(addr uint16) uint16 { return 0x2000 | addr&0xFFF }

// EncodeSEImm encodes 3XNN.
func EncodeSEImm(x, nn uint8) uint16 { return encodeXNN(0x3, x, nn) }

// EncodeSNEImm encodes 4XNN.
func EncodeSNEImm(x, nn uint8) uint16 { return encodeXNN(0x4, x, nn) }

// EncodeLDImm encodes 6XNN.
func EncodeLDImm(x, nn uint8) uint16 { return encodeXNN(0x6, x, nn) }

// EncodeADDImm encodes 7XNN.
func EncodeADDImm(x, nn uint8) uint16 { return encodeXNN(0x7, x, nn) }

// EncodeADDReg encodes 8XY4.
func EncodeADDReg(x, y uint8) uint16 { return encodeXYN(0x8, x, y, 0x4) }

// EncodeLDI encodes ANNN.
func EncodeLDI(addr uint16) uint16 { return 0xA000 | addr&0xFFF }

// EncodeDRW encodes DXYN.
func EncodeDRW(x, y, n uint8) uint16 { return encodeXYN(0xD, x, y, n) }

// EncodeLDVxDT encodes FX07.
func EncodeLDVxDT(x uint8) uint16 { return encodeXNN(0xF, x, 0x07) }

// EncodeLDDTVx encodes FX15.
func EncodeLDDTVx(x uint8) uint16 { return encodeXNN(0xF, x, 0x15) }

// EncodeLDF encodes FX29.
func EncodeLDF(x uint8) uint16 { return encodeXNN(0xF, x, 0x29) }

// EncodeLDB encodes FX33.
func EncodeLDB(x uint8) uint16 { return encodeXNN(0xF, x, 0x33) }

// EncodeStore encodes FX55.
func EncodeStore(x uint8) uint16 { return encodeXNN(0xF, x, 0x55) }

// EncodeLoad encodes FX65.
func EncodeLoad(x uint8) uint16 { return encodeXNN(0xF, x, 0x65) }

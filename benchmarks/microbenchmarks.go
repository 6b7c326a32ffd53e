package benchmarks

import (
	"fmt"

	"github.com/sarchlab/c8sim/emu"
)

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark targets one instruction class and ends in a tight
// self-jump, so running extra frames does not change its final state.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		aluLoop(),
		callReturn(),
		drawGlyphs(),
		clearScreen(),
		bcdRoundTrip(),
		registerDump(),
		timerWait(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		aluLoop(),
		callReturn(),
		drawGlyphs(),
	}
}

func expectReg(e *emu.Emulator, x uint8, want uint8) error {
	if got := e.RegFile().ReadReg(x); got != want {
		return fmt.Errorf("V%X = 0x%02X, want 0x%02X", x, got, want)
	}
	return nil
}

func expectRegs(e *emu.Emulator, want map[uint8]uint8) error {
	for x := uint8(0); x < 16; x++ {
		if v, ok := want[x]; ok {
			if err := expectReg(e, x, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// 1. ALU loop - counts V0 to 255 and accumulates the running sum in V1.
func aluLoop() Benchmark {
	return Benchmark{
		Name:        "alu_loop",
		Description: "255 iterations of ADD/ADD/SE/JP - measures ALU and skip cost",
		Program: BuildProgram(
			EncodeLDImm(0, 0),    // 200
			EncodeLDImm(1, 0),    // 202
			EncodeADDImm(0, 1),   // 204
			EncodeADDReg(1, 0),   // 206
			EncodeSEImm(0, 0xFF), // 208
			EncodeJP(0x204),      // 20A
			EncodeJP(0x20C),      // 20C
		),
		Speed:  100,
		Frames: 12,
		Validate: func(e *emu.Emulator) error {
			// 1+2+...+255 = 32640 = 0x7F80
			return expectRegs(e, map[uint8]uint8{0: 0xFF, 1: 0x80})
		},
	}
}

// 2. Call/return - 100 calls to a one-instruction subroutine.
func callReturn() Benchmark {
	return Benchmark{
		Name:        "call_return",
		Description: "100 CALL/RET pairs - measures stack operation cost",
		Program: BuildProgram(
			EncodeLDImm(0, 0),   // 200
			EncodeCALL(0x20A),   // 202
			EncodeSEImm(0, 100), // 204
			EncodeJP(0x202),     // 206
			EncodeJP(0x208),     // 208
			EncodeADDImm(0, 1),  // 20A
			EncodeRET(),         // 20C
		),
		Speed:  50,
		Frames: 12,
		Validate: func(e *emu.Emulator) error {
			if e.SP() != 0 {
				return fmt.Errorf("SP = %d, want 0", e.SP())
			}
			return expectReg(e, 0, 100)
		},
	}
}

// 3. Draw glyphs - draws the 16 font glyphs across the top of the screen.
func drawGlyphs() Benchmark {
	return Benchmark{
		Name:        "draw_glyphs",
		Description: "16 five-row sprites from the font - measures DXYN and sprite reads",
		Program: BuildProgram(
			EncodeLDImm(0, 0),  // 200 glyph
			EncodeLDImm(1, 0),  // 202 x
			EncodeLDImm(2, 0),  // 204 y
			EncodeLDF(0),       // 206
			EncodeDRW(1, 2, 5), // 208
			EncodeADDImm(1, 4), // 20A
			EncodeADDImm(0, 1), // 20C
			EncodeSEImm(0, 16), // 20E
			EncodeJP(0x206),    // 210
			EncodeJP(0x212),    // 212
		),
		Speed:  10,
		Frames: 12,
		Validate: func(e *emu.Emulator) error {
			if e.Display().Lit() == 0 {
				return fmt.Errorf("no pixels lit")
			}
			return expectRegs(e, map[uint8]uint8{0: 16, 1: 64})
		},
	}
}

// 4. Clear screen - 100 CLS instructions.
func clearScreen() Benchmark {
	return Benchmark{
		Name:        "clear_screen",
		Description: "100 CLS - the most expensive instruction, exceeds the frame budget",
		Program: BuildProgram(
			EncodeLDImm(0, 0),   // 200
			EncodeCLS(),         // 202
			EncodeADDImm(0, 1),  // 204
			EncodeSEImm(0, 100), // 206
			EncodeJP(0x202),     // 208
			EncodeJP(0x20A),     // 20A
		),
		Speed:  10,
		Frames: 45,
		Validate: func(e *emu.Emulator) error {
			return expectReg(e, 0, 100)
		},
	}
}

// 5. BCD round trip - converts 0..199 to decimal and reads the digits back.
func bcdRoundTrip() Benchmark {
	return Benchmark{
		Name:        "bcd_round_trip",
		Description: "200 FX33/F265 pairs - measures BCD stores and register loads",
		Program: BuildProgram(
			EncodeLDImm(3, 0),   // 200
			EncodeLDI(0x300),    // 202
			EncodeLDB(3),        // 204
			EncodeLoad(2),       // 206
			EncodeADDImm(3, 1),  // 208
			EncodeSEImm(3, 200), // 20A
			EncodeJP(0x204),     // 20C
			EncodeJP(0x20E),     // 20E
		),
		Speed:  50,
		Frames: 25,
		Validate: func(e *emu.Emulator) error {
			// The last conversion was 199.
			return expectRegs(e, map[uint8]uint8{0: 1, 1: 9, 2: 9, 3: 200})
		},
	}
}

// 6. Register dump - stores and reloads all 16 registers 50 times.
func registerDump() Benchmark {
	return Benchmark{
		Name:        "register_dump",
		Description: "50 FF55/FF65 pairs - measures bulk register transfers",
		Program: BuildProgram(
			EncodeLDImm(0xA, 0x2A), // 200
			EncodeLDI(0x300),       // 202
			EncodeStore(0xF),       // 204
			EncodeLoad(0xF),        // 206
			EncodeADDImm(0, 1),     // 208
			EncodeSEImm(0, 50),     // 20A
			EncodeJP(0x204),        // 20C
			EncodeJP(0x20E),        // 20E
		),
		Speed:  30,
		Frames: 10,
		Validate: func(e *emu.Emulator) error {
			v, err := e.Memory().Read(0x30A)
			if err != nil {
				return err
			}
			if v != 0x2A {
				return fmt.Errorf("memory[0x30A] = 0x%02X, want 0x2A", v)
			}
			return expectRegs(e, map[uint8]uint8{0: 50, 0xA: 0x2A})
		},
	}
}

// 7. Timer wait - polls the delay timer until it reaches zero.
func timerWait() Benchmark {
	return Benchmark{
		Name:        "timer_wait",
		Description: "busy-wait on DT=60 - measures timer polling",
		Program: BuildProgram(
			EncodeLDImm(0, 60), // 200
			EncodeLDDTVx(0),    // 202
			EncodeLDVxDT(1),    // 204
			EncodeSEImm(1, 0),  // 206
			EncodeJP(0x204),    // 208
			EncodeJP(0x20A),    // 20A
		),
		Speed:  10,
		Frames: 10,
		Validate: func(e *emu.Emulator) error {
			if dt := e.RegFile().DT; dt != 0 {
				return fmt.Errorf("DT = %d, want 0", dt)
			}
			return expectReg(e, 1, 0)
		},
	}
}

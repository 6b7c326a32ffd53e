package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Field extraction", func() {
		// DRW VA, VB, 7 -> 0xDAB7
		It("should split every nibble of 0xDAB7", func() {
			inst := decoder.Decode(0xDAB7)

			Expect(inst.Word).To(Equal(uint16(0xDAB7)))
			Expect(inst.Class).To(Equal(uint8(0xD)))
			Expect(inst.X).To(Equal(uint8(0xA)))
			Expect(inst.Y).To(Equal(uint8(0xB)))
			Expect(inst.N).To(Equal(uint8(0x7)))
			Expect(inst.NN).To(Equal(uint8(0xB7)))
			Expect(inst.NNN).To(Equal(uint16(0xAB7)))
		})

		It("should populate fields even for unknown words", func() {
			inst := decoder.Decode(0xB123)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Class).To(Equal(uint8(0xB)))
			Expect(inst.NNN).To(Equal(uint16(0x123)))
		})

		It("should decode the zero word", func() {
			inst := decoder.Decode(0x0000)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.NNN).To(BeZero())
		})

		It("should reuse the target in DecodeInto", func() {
			var inst insts.Instruction
			decoder.DecodeInto(0x6A2F, &inst)
			Expect(inst.Op).To(Equal(insts.OpLDImm))

			decoder.DecodeInto(0x00E0, &inst)
			Expect(inst.Op).To(Equal(insts.OpCLS))
			Expect(inst.X).To(BeZero())
			Expect(inst.NN).To(Equal(uint8(0xE0)))
		})
	})

	DescribeTable("Operation classification",
		func(word uint16, op insts.Op) {
			Expect(decoder.Decode(word).Op).To(Equal(op))
		},
		Entry("00E0 CLS", uint16(0x00E0), insts.OpCLS),
		Entry("00EE RET", uint16(0x00EE), insts.OpRET),
		Entry("0xE0 in class 0 ignores X", uint16(0x03E0), insts.OpCLS),
		Entry("0NNN machine call", uint16(0x0123), insts.OpUnknown),
		Entry("1NNN JP", uint16(0x1234), insts.OpJP),
		Entry("2NNN CALL", uint16(0x2345), insts.OpCALL),
		Entry("3XNN SE", uint16(0x3A42), insts.OpSEImm),
		Entry("4XNN SNE", uint16(0x4A42), insts.OpSNEImm),
		Entry("5XY0 SE", uint16(0x5120), insts.OpSEReg),
		Entry("5XY1 matches on class", uint16(0x5121), insts.OpSEReg),
		Entry("6XNN LD", uint16(0x6012), insts.OpLDImm),
		Entry("7XNN ADD", uint16(0x7012), insts.OpADDImm),
		Entry("8XY0 LD", uint16(0x8120), insts.OpLDReg),
		Entry("8XY1 OR", uint16(0x8121), insts.OpOR),
		Entry("8XY2 AND", uint16(0x8122), insts.OpAND),
		Entry("8XY3 XOR", uint16(0x8123), insts.OpXOR),
		Entry("8XY4 ADD", uint16(0x8124), insts.OpADDReg),
		Entry("8XY5 SUB", uint16(0x8125), insts.OpSUB),
		Entry("8XY6 SHR", uint16(0x8126), insts.OpSHR),
		Entry("8XY7 SUBN", uint16(0x8127), insts.OpUnknown),
		Entry("8XYE SHL", uint16(0x812E), insts.OpSHL),
		Entry("9XY0 SNE", uint16(0x9120), insts.OpSNEReg),
		Entry("ANNN LD I", uint16(0xA123), insts.OpLDI),
		Entry("BNNN JP V0", uint16(0xB123), insts.OpUnknown),
		Entry("CXNN RND", uint16(0xC10F), insts.OpRND),
		Entry("DXYN DRW", uint16(0xD125), insts.OpDRW),
		Entry("EX9E SKP", uint16(0xE19E), insts.OpSKP),
		Entry("EXA1 SKNP", uint16(0xE1A1), insts.OpSKNP),
		Entry("EX00", uint16(0xE100), insts.OpUnknown),
		Entry("FX07", uint16(0xF107), insts.OpLDVxDT),
		Entry("FX0A", uint16(0xF10A), insts.OpLDVxK),
		Entry("FX15", uint16(0xF115), insts.OpLDDTVx),
		Entry("FX18", uint16(0xF118), insts.OpLDSTVx),
		Entry("FX1E", uint16(0xF11E), insts.OpADDI),
		Entry("FX29", uint16(0xF129), insts.OpLDF),
		Entry("FX33", uint16(0xF133), insts.OpLDB),
		Entry("FX55", uint16(0xF155), insts.OpLDIVx),
		Entry("FX65", uint16(0xF165), insts.OpLDVxI),
		Entry("FX75", uint16(0xF175), insts.OpUnknown),
	)

	Describe("Control flow helpers", func() {
		It("should flag absolute branches", func() {
			Expect(decoder.Decode(0x1200).IsBranch()).To(BeTrue())
			Expect(decoder.Decode(0x2200).IsBranch()).To(BeTrue())
			Expect(decoder.Decode(0x00EE).IsBranch()).To(BeTrue())
			Expect(decoder.Decode(0x6000).IsBranch()).To(BeFalse())
		})

		It("should flag skips", func() {
			Expect(decoder.Decode(0x3000).IsSkip()).To(BeTrue())
			Expect(decoder.Decode(0xE0A1).IsSkip()).To(BeTrue())
			Expect(decoder.Decode(0x1200).IsSkip()).To(BeFalse())
		})
	})

	Describe("Formatting", func() {
		It("should render instructions in assembler syntax", func() {
			Expect(decoder.Decode(0x00E0).String()).To(Equal("CLS"))
			Expect(decoder.Decode(0x1ABC).String()).To(Equal("JP $ABC"))
			Expect(decoder.Decode(0x6A2F).String()).To(Equal("LD VA, $2F"))
			Expect(decoder.Decode(0x8124).String()).To(Equal("ADD V1, V2"))
			Expect(decoder.Decode(0xD015).String()).To(Equal("DRW V0, V1, 5"))
			Expect(decoder.Decode(0xF355).String()).To(Equal("LD [I], V3"))
			Expect(decoder.Decode(0xF30A).String()).To(Equal("LD V3, K"))
		})

		It("should render unknown words as raw data", func() {
			Expect(decoder.Decode(0xB123).String()).To(Equal("??? $B123"))
		})
	})
})

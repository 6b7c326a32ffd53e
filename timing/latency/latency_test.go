package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have correct fetch latency", func() {
			Expect(table.Config().FetchLatency).To(Equal(uint64(40)))
		})

		It("should have correct clear latency", func() {
			Expect(table.Config().ClearLatency).To(Equal(uint64(3078)))
		})

		It("should have a 60 Hz frame rate", func() {
			Expect(table.Config().FrameRate).To(Equal(uint64(60)))
		})

		It("should derive the frame budget from the cycle rate", func() {
			Expect(table.Config().CyclesPerFrame()).To(Equal(uint64(3668)))
		})
	})

	DescribeTable("Instruction latencies including fetch",
		func(word uint16, expected uint64) {
			Expect(table.GetLatency(decoder.Decode(word))).To(Equal(expected))
		},
		Entry("CLS", uint16(0x00E0), uint64(40+3078)),
		Entry("RET", uint16(0x00EE), uint64(40+10)),
		Entry("JP", uint16(0x1234), uint64(40+12)),
		Entry("CALL", uint16(0x2345), uint64(40+26)),
		Entry("SE Vx, byte", uint16(0x3A12), uint64(40+10)),
		Entry("SNE Vx, Vy", uint16(0x9AB0), uint64(40+10)),
		Entry("LD Vx, byte", uint16(0x6A2F), uint64(40+6)),
		Entry("LD I, addr", uint16(0xA123), uint64(40+6)),
		Entry("ADD Vx, byte", uint16(0x7A01), uint64(40+44)),
		Entry("XOR Vx, Vy", uint16(0x8AB3), uint64(40+44)),
		Entry("SHL Vx", uint16(0x8ABE), uint64(40+44)),
		Entry("RND", uint16(0xC0FF), uint64(40+36)),
		Entry("SKP", uint16(0xE09E), uint64(40+14)),
		Entry("LD Vx, DT", uint16(0xF007), uint64(40+10)),
		Entry("LD Vx, K", uint16(0xF00A), uint64(40+10)),
		Entry("ADD I, Vx", uint16(0xF01E), uint64(40+16)),
		Entry("LD F, Vx", uint16(0xF029), uint64(40+16)),
		Entry("LD B, Vx", uint16(0xF033), uint64(40+84)),
		Entry("DRW with 5 rows", uint16(0xD125), uint64(40+26+5*68)),
		Entry("DRW with 0 rows", uint16(0xD120), uint64(40+26)),
		Entry("LD [I], V3", uint16(0xF355), uint64(40+4*14)),
		Entry("LD V0, [I]", uint16(0xF065), uint64(40+14)),
		Entry("unknown", uint16(0xB123), uint64(40)),
	)

	It("should return fetch latency for a nil instruction", func() {
		Expect(table.GetLatency(nil)).To(Equal(uint64(40)))
	})

	Describe("Instruction Classification", func() {
		It("should identify memory operations", func() {
			Expect(table.IsMemoryOp(decoder.Decode(0xD125))).To(BeTrue())
			Expect(table.IsMemoryOp(decoder.Decode(0xF033))).To(BeTrue())
			Expect(table.IsMemoryOp(decoder.Decode(0xF355))).To(BeTrue())
			Expect(table.IsMemoryOp(decoder.Decode(0xF365))).To(BeTrue())
			Expect(table.IsMemoryOp(decoder.Decode(0xA123))).To(BeFalse())
			Expect(table.IsMemoryOp(nil)).To(BeFalse())
		})

		It("should identify store operations", func() {
			Expect(table.IsStoreOp(decoder.Decode(0xF033))).To(BeTrue())
			Expect(table.IsStoreOp(decoder.Decode(0xF355))).To(BeTrue())
			Expect(table.IsStoreOp(decoder.Decode(0xF365))).To(BeFalse())
			Expect(table.IsStoreOp(decoder.Decode(0xD125))).To(BeFalse())
		})

		It("should identify branch operations", func() {
			Expect(table.IsBranchOp(decoder.Decode(0x1234))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(0x2345))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(0x00EE))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(0x3A12))).To(BeFalse())
			Expect(table.IsBranchOp(nil)).To(BeFalse())
		})

		It("should identify display operations", func() {
			Expect(table.IsDrawOp(decoder.Decode(0x00E0))).To(BeTrue())
			Expect(table.IsDrawOp(decoder.Decode(0xD125))).To(BeTrue())
			Expect(table.IsDrawOp(decoder.Decode(0xF029))).To(BeFalse())
		})
	})

	Describe("Custom Configuration", func() {
		It("should use custom latency values", func() {
			config := latency.DefaultTimingConfig()
			config.FetchLatency = 1
			config.ALULatency = 2
			config.DrawLatencyPerRow = 3

			customTable := latency.NewTableWithConfig(config)

			Expect(customTable.GetLatency(decoder.Decode(0x8AB4))).To(Equal(uint64(3)))
			Expect(customTable.GetLatency(decoder.Decode(0xD122))).To(Equal(uint64(1 + 26 + 2*3)))
		})
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			config := latency.DefaultTimingConfig()
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		It("should reject zero fetch latency", func() {
			config := latency.DefaultTimingConfig()
			config.FetchLatency = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject zero cycle rate", func() {
			config := latency.DefaultTimingConfig()
			config.CycleRate = 0
			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should reject zero frame rate", func() {
			config := latency.DefaultTimingConfig()
			config.FrameRate = 0
			Expect(config.Validate()).To(HaveOccurred())
			Expect(config.CyclesPerFrame()).To(Equal(uint64(0)))
		})

		It("should reject a frame rate above the cycle rate", func() {
			config := latency.DefaultTimingConfig()
			config.CycleRate = 30
			Expect(config.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()

			clone.ALULatency = 100

			Expect(original.ALULatency).To(Equal(uint64(44)))
			Expect(clone.ALULatency).To(Equal(uint64(100)))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			tempDir = GinkgoT().TempDir()
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.ALULatency = 5
			original.FrameRate = 50

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"draw_latency_per_row": 100}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.DrawLatencyPerRow).To(Equal(uint64(100)))
			Expect(loaded.FetchLatency).To(Equal(uint64(40)))
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})

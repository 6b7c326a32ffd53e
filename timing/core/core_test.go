package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

var _ = Describe("Core", func() {
	var (
		e *emu.Emulator
		c *core.Core
	)

	BeforeEach(func() {
		e = emu.NewEmulator(emu.WithSpeed(1))
		c = core.NewCore(e, nil)
	})

	It("should wrap the emulator with default timing", func() {
		Expect(c.Emulator()).To(BeIdenticalTo(e))
		Expect(c.Table().Config()).To(Equal(latency.DefaultTimingConfig()))
	})

	It("should charge table latency and instruction cache misses", func() {
		Expect(c.LoadROM(program(0x6001, 0x6102, 0x1204))).To(Succeed())

		// LD V0: 40+6 plus a cold line miss of 8.
		c.Step()
		Expect(c.Stats().Cycles).To(Equal(uint64(54)))

		// LD V1: 40+6, same line.
		c.Step()
		Expect(c.Stats().Cycles).To(Equal(uint64(100)))

		// JP: 40+12, same line.
		c.Step()

		stats := c.Stats()
		Expect(stats.Cycles).To(Equal(uint64(152)))
		Expect(stats.Instructions).To(Equal(uint64(3)))
		Expect(stats.ICache.Reads).To(Equal(uint64(3)))
		Expect(stats.ICache.Misses).To(Equal(uint64(1)))
		Expect(stats.CyclesPerInstruction()).To(BeNumerically("~", 152.0/3.0))
	})

	It("should route sprite reads through the data cache", func() {
		Expect(c.LoadROM(program(0xA300, 0xD013))).To(Succeed())

		Expect(c.Cycle(2)).To(Succeed())

		stats := c.Stats()
		// 54 for LD I, then 40+26+3*68 plus one data miss.
		Expect(stats.Cycles).To(Equal(uint64(54 + 270 + 8)))
		Expect(stats.DCache.Reads).To(Equal(uint64(3)))
		Expect(stats.DCache.Misses).To(Equal(uint64(1)))
		Expect(stats.DCache.Hits).To(Equal(uint64(2)))
	})

	It("should route BCD and register stores as data cache writes", func() {
		Expect(c.LoadROM(program(0x60FF, 0xA300, 0xF033, 0xF155))).To(Succeed())

		Expect(c.Cycle(4)).To(Succeed())

		stats := c.Stats()
		Expect(stats.DCache.Writes).To(Equal(uint64(5)))
		Expect(stats.DCache.Misses).To(Equal(uint64(1)))

		value, err := e.Memory().Read(0x300)
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal(uint8(0xFF)))
	})

	It("should count register loads as data cache reads", func() {
		Expect(c.LoadROM(program(0xA300, 0xF265))).To(Succeed())

		Expect(c.Cycle(2)).To(Succeed())

		Expect(c.Stats().DCache.Reads).To(Equal(uint64(3)))
		Expect(c.Stats().DCache.Writes).To(Equal(uint64(0)))
	})

	It("should charge blocked steps with fetch overhead only", func() {
		Expect(c.LoadROM(program(0xF00A))).To(Succeed())

		Expect(c.Cycle(2)).To(Succeed())

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(1)))
		Expect(stats.BlockedSteps).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(40 + 10 + 8 + 40)))
	})

	It("should count beeps", func() {
		Expect(c.LoadROM(program(0x6001, 0xF018, 0x1204))).To(Succeed())

		Expect(c.Cycle(3)).To(Succeed())

		Expect(c.Stats().Beeps).To(Equal(uint64(1)))
	})

	It("should stop on faults without charging them", func() {
		Expect(c.LoadROM(program(0x6001, 0x0000))).To(Succeed())

		err := c.RunFrames(5)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, emu.ErrUnimplemented)).To(BeTrue())

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(54)))
		Expect(stats.Frames).To(Equal(uint64(2)))
	})

	Describe("Frames", func() {
		It("should stay within the default budget", func() {
			e.SetSpeed(10)
			Expect(c.LoadROM(program(0x1200))).To(Succeed())

			Expect(c.RunFrames(3)).To(Succeed())

			stats := c.Stats()
			Expect(stats.Frames).To(Equal(uint64(3)))
			Expect(stats.Instructions).To(Equal(uint64(30)))
			Expect(stats.FramesOverBudget).To(Equal(uint64(0)))
		})

		It("should flag frames that exceed the budget", func() {
			config := latency.DefaultTimingConfig()
			config.CycleRate = 600 // 10 cycles per frame at 60 Hz
			c = core.NewCore(e, config)
			Expect(c.LoadROM(program(0x1200))).To(Succeed())

			Expect(c.RunFrames(2)).To(Succeed())

			Expect(c.Stats().FramesOverBudget).To(Equal(uint64(2)))
		})
	})

	It("should accept custom cache configurations", func() {
		slow := cache.Config{
			Size:          32,
			Associativity: 1,
			BlockSize:     16,
			HitLatency:    1,
			MissLatency:   100,
		}
		c = core.NewCore(e, nil, core.WithICache(slow))
		Expect(c.LoadROM(program(0x6001))).To(Succeed())

		c.Step()

		Expect(c.Stats().Cycles).To(Equal(uint64(146)))
	})

	It("should run without caches", func() {
		c = core.NewCore(e, nil, core.WithoutICache(), core.WithoutDCache())
		Expect(c.UseICache()).To(BeFalse())
		Expect(c.UseDCache()).To(BeFalse())
		Expect(c.LoadROM(program(0xA300, 0xD013))).To(Succeed())

		Expect(c.Cycle(2)).To(Succeed())

		stats := c.Stats()
		Expect(stats.Cycles).To(Equal(uint64(46 + 270)))
		Expect(stats.ICache).To(Equal(cache.Statistics{}))
		Expect(stats.DCache).To(Equal(cache.Statistics{}))
	})

	It("should clear statistics on reset", func() {
		Expect(c.LoadROM(program(0x1200))).To(Succeed())
		Expect(c.Cycle(5)).To(Succeed())

		c.Reset()

		Expect(c.Stats()).To(Equal(core.Stats{}))
		Expect(e.InstructionCount()).To(Equal(uint64(5)))
	})
})

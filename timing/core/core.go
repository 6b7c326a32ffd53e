// Package core provides the profiling core model.
// It wraps the functional emulator and charges each step with the cost from
// a latency table plus the miss penalties of an instruction and a data cache.
package core

import (
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/insts"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the estimated number of machine cycles spent.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// BlockedSteps is the number of steps spent waiting for a key.
	BlockedSteps uint64
	// Beeps is the number of sound timer expiries.
	Beeps uint64
	// Frames is the number of frames run.
	Frames uint64
	// FramesOverBudget counts frames whose cycles exceeded the frame budget.
	FramesOverBudget uint64

	ICache cache.Statistics
	DCache cache.Statistics
}

// CyclesPerInstruction returns the average cost of a retired instruction.
func (s Stats) CyclesPerInstruction() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core is a timing model around an emu.Emulator.
type Core struct {
	emulator *emu.Emulator
	table    *latency.Table
	icache   *cache.Cache
	dcache   *cache.Cache

	stats       Stats
	frameCycles uint64
}

// CoreOption is a functional option for configuring the Core.
type CoreOption func(*coreConfig)

type coreConfig struct {
	icache   cache.Config
	dcache   cache.Config
	noICache bool
	noDCache bool
}

// WithICache overrides the instruction cache configuration.
func WithICache(config cache.Config) CoreOption {
	return func(c *coreConfig) {
		c.icache = config
	}
}

// WithDCache overrides the data cache configuration.
func WithDCache(config cache.Config) CoreOption {
	return func(c *coreConfig) {
		c.dcache = config
	}
}

// WithoutICache disables the instruction cache; fetches cost nothing extra.
func WithoutICache() CoreOption {
	return func(c *coreConfig) {
		c.noICache = true
	}
}

// WithoutDCache disables the data cache; memory operands cost nothing extra.
func WithoutDCache() CoreOption {
	return func(c *coreConfig) {
		c.noDCache = true
	}
}

// NewCore creates a Core driving the given emulator. A nil config selects
// the default timing values.
func NewCore(emulator *emu.Emulator, config *latency.TimingConfig, opts ...CoreOption) *Core {
	cfg := coreConfig{
		icache: cache.DefaultICacheConfig(),
		dcache: cache.DefaultDCacheConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	table := latency.NewTable()
	if config != nil {
		table = latency.NewTableWithConfig(config)
	}

	backing := cache.NewMemoryBacking(emulator.Memory())

	c := &Core{
		emulator: emulator,
		table:    table,
	}
	if !cfg.noICache {
		c.icache = cache.New(cfg.icache, backing)
	}
	if !cfg.noDCache {
		c.dcache = cache.New(cfg.dcache, backing)
	}
	return c
}

// Emulator returns the wrapped emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Table returns the latency table.
func (c *Core) Table() *latency.Table {
	return c.table
}

// LoadROM loads a program into the emulator and clears all timing state.
func (c *Core) LoadROM(rom []byte) error {
	if err := c.emulator.LoadROM(rom); err != nil {
		return err
	}
	c.Reset()
	return nil
}

// Step performs one emulator step and charges its cost.
func (c *Core) Step() emu.StepResult {
	pc := c.emulator.PC()
	index := c.emulator.I()

	result := c.emulator.Step()
	if result.Err != nil {
		return result
	}

	var cycles uint64
	switch {
	case result.Executed:
		c.stats.Instructions++
		cycles = c.table.GetLatency(&result.Inst)
		if c.icache != nil {
			cycles += c.missPenalty(c.icache.Read(uint64(pc), emu.InstructionSize))
		}
		if c.dcache != nil && c.table.IsMemoryOp(&result.Inst) {
			cycles += c.chargeMemory(&result.Inst, index)
		}
	case result.Blocked:
		c.stats.BlockedSteps++
		cycles = c.table.GetLatency(nil)
	}

	if result.Beeped {
		c.stats.Beeps++
	}

	c.stats.Cycles += cycles
	c.frameCycles += cycles
	return result
}

// chargeMemory routes the memory operands of inst through the data cache.
func (c *Core) chargeMemory(inst *insts.Instruction, index uint16) uint64 {
	var n int
	switch inst.Op {
	case insts.OpDRW:
		n = int(inst.N)
	case insts.OpLDB:
		n = 3
	case insts.OpLDIVx, insts.OpLDVxI:
		n = int(inst.X) + 1
	}

	store := c.table.IsStoreOp(inst)
	memory := c.emulator.Memory()

	var penalty uint64
	for k := 0; k < n; k++ {
		addr := int(index) + k
		if store {
			value, _ := memory.Read(addr)
			penalty += c.missPenalty(c.dcache.Write(uint64(addr), 1, uint64(value)))
		} else {
			penalty += c.missPenalty(c.dcache.Read(uint64(addr), 1))
		}
	}
	return penalty
}

// missPenalty returns the extra cycles of an access. Hits are folded into
// the table costs.
func (c *Core) missPenalty(result cache.AccessResult) uint64 {
	if result.Hit {
		return 0
	}
	return result.Latency
}

// Cycle performs up to n steps and returns the first fault.
func (c *Core) Cycle(n int) error {
	for i := 0; i < n; i++ {
		if result := c.Step(); result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// RunFrame runs one frame of Speed() steps and checks it against the
// frame budget.
func (c *Core) RunFrame() error {
	c.frameCycles = 0
	err := c.Cycle(c.emulator.Speed())

	c.stats.Frames++
	if c.frameCycles > c.table.Config().CyclesPerFrame() {
		c.stats.FramesOverBudget++
	}
	return err
}

// RunFrames runs up to n frames, stopping at the first fault.
func (c *Core) RunFrames(n int) error {
	for i := 0; i < n; i++ {
		if err := c.RunFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	stats := c.stats
	if c.icache != nil {
		stats.ICache = c.icache.Stats()
	}
	if c.dcache != nil {
		stats.DCache = c.dcache.Stats()
	}
	return stats
}

// Reset clears statistics and cache contents. Emulator state is untouched.
func (c *Core) Reset() {
	c.stats = Stats{}
	c.frameCycles = 0
	if c.icache != nil {
		c.icache.Reset()
	}
	if c.dcache != nil {
		c.dcache.Reset()
	}
}

// UseICache reports whether the instruction cache is modelled.
func (c *Core) UseICache() bool {
	return c.icache != nil
}

// UseDCache reports whether the data cache is modelled.
func (c *Core) UseDCache() bool {
	return c.dcache != nil
}

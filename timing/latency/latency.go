// Package latency provides instruction timing models for CHIP-8 programs.
//
// The latency values approximate the COSMAC VIP interpreter and can be
// configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/c8sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the cost in machine cycles of the given instruction,
// fetch overhead included.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return t.config.FetchLatency
	}
	return t.config.FetchLatency + t.executeLatency(inst)
}

func (t *Table) executeLatency(inst *insts.Instruction) uint64 {
	c := t.config

	switch inst.Op {
	case insts.OpCLS:
		return c.ClearLatency
	case insts.OpJP:
		return c.JumpLatency
	case insts.OpCALL:
		return c.CallLatency
	case insts.OpRET:
		return c.ReturnLatency
	case insts.OpSEImm, insts.OpSNEImm, insts.OpSEReg, insts.OpSNEReg:
		return c.SkipLatency
	case insts.OpLDImm, insts.OpLDI:
		return c.LoadLatency
	case insts.OpADDImm, insts.OpLDReg, insts.OpOR, insts.OpAND, insts.OpXOR,
		insts.OpADDReg, insts.OpSUB, insts.OpSHR, insts.OpSHL:
		return c.ALULatency
	case insts.OpRND:
		return c.RandomLatency
	case insts.OpSKP, insts.OpSKNP:
		return c.KeyLatency
	case insts.OpLDVxDT, insts.OpLDVxK, insts.OpLDDTVx, insts.OpLDSTVx:
		return c.TimerLatency
	case insts.OpADDI, insts.OpLDF:
		return c.IndexLatency
	case insts.OpLDB:
		return c.BCDLatency
	case insts.OpLDIVx, insts.OpLDVxI:
		return c.MemoryLatencyPerByte * (uint64(inst.X) + 1)
	case insts.OpDRW:
		return c.DrawLatencyBase + c.DrawLatencyPerRow*uint64(inst.N)
	default:
		return 0
	}
}

// IsMemoryOp returns true if the instruction reads or writes memory through I.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpDRW, insts.OpLDB, insts.OpLDIVx, insts.OpLDVxI:
		return true
	default:
		return false
	}
}

// IsStoreOp returns true if the instruction writes memory.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpLDB || inst.Op == insts.OpLDIVx
}

// IsBranchOp returns true if the instruction sets PC to an absolute target.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.IsBranch()
}

// IsDrawOp returns true if the instruction touches the display.
func (t *Table) IsDrawOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpDRW || inst.Op == insts.OpCLS
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}

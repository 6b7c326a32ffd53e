package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the cost, in machine cycles, of each instruction class.
// Default values approximate the original COSMAC VIP interpreter.
type TimingConfig struct {
	// FetchLatency is the fetch and dispatch overhead paid by every
	// instruction. Default: 40 cycles.
	FetchLatency uint64 `json:"fetch_latency"`

	// ClearLatency is the cost of 00E0. Default: 3078 cycles.
	ClearLatency uint64 `json:"clear_latency"`

	// JumpLatency is the cost of 1NNN. Default: 12 cycles.
	JumpLatency uint64 `json:"jump_latency"`

	// CallLatency is the cost of 2NNN. Default: 26 cycles.
	CallLatency uint64 `json:"call_latency"`

	// ReturnLatency is the cost of 00EE. Default: 10 cycles.
	ReturnLatency uint64 `json:"return_latency"`

	// SkipLatency is the cost of the conditional skips. Default: 10 cycles.
	SkipLatency uint64 `json:"skip_latency"`

	// LoadLatency is the cost of 6XNN and ANNN. Default: 6 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// ALULatency is the cost of 7XNN and the 8XYN group. Default: 44 cycles.
	ALULatency uint64 `json:"alu_latency"`

	// RandomLatency is the cost of CXNN. Default: 36 cycles.
	RandomLatency uint64 `json:"random_latency"`

	// KeyLatency is the cost of EX9E and EXA1. Default: 14 cycles.
	KeyLatency uint64 `json:"key_latency"`

	// TimerLatency is the cost of FX07, FX0A, FX15 and FX18.
	// Default: 10 cycles.
	TimerLatency uint64 `json:"timer_latency"`

	// IndexLatency is the cost of FX1E and FX29. Default: 16 cycles.
	IndexLatency uint64 `json:"index_latency"`

	// BCDLatency is the cost of FX33. Default: 84 cycles.
	BCDLatency uint64 `json:"bcd_latency"`

	// MemoryLatencyPerByte is the per-register cost of FX55 and FX65.
	// Default: 14 cycles.
	MemoryLatencyPerByte uint64 `json:"memory_latency_per_byte"`

	// DrawLatencyBase is the fixed cost of DXYN. Default: 26 cycles.
	DrawLatencyBase uint64 `json:"draw_latency_base"`

	// DrawLatencyPerRow is the per-row cost of DXYN. Default: 68 cycles.
	DrawLatencyPerRow uint64 `json:"draw_latency_per_row"`

	// CycleRate is the number of machine cycles per second.
	// Default: 220113 (1.7609 MHz clock, 8 clocks per machine cycle).
	CycleRate uint64 `json:"cycle_rate"`

	// FrameRate is the display refresh rate in Hz. Default: 60.
	FrameRate uint64 `json:"frame_rate"`
}

// DefaultTimingConfig returns a TimingConfig with COSMAC VIP based defaults.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		FetchLatency:         40,
		ClearLatency:         3078,
		JumpLatency:          12,
		CallLatency:          26,
		ReturnLatency:        10,
		SkipLatency:          10,
		LoadLatency:          6,
		ALULatency:           44,
		RandomLatency:        36,
		KeyLatency:           14,
		TimerLatency:         10,
		IndexLatency:         16,
		BCDLatency:           84,
		MemoryLatencyPerByte: 14,
		DrawLatencyBase:      26,
		DrawLatencyPerRow:    68,
		CycleRate:            220113,
		FrameRate:            60,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *TimingConfig) Validate() error {
	if c.FetchLatency == 0 {
		return fmt.Errorf("fetch_latency must be > 0")
	}
	if c.CycleRate == 0 {
		return fmt.Errorf("cycle_rate must be > 0")
	}
	if c.FrameRate == 0 {
		return fmt.Errorf("frame_rate must be > 0")
	}
	if c.FrameRate > c.CycleRate {
		return fmt.Errorf("frame_rate must be <= cycle_rate")
	}
	return nil
}

// CyclesPerFrame returns the machine cycle budget of one display frame.
func (c *TimingConfig) CyclesPerFrame() uint64 {
	if c.FrameRate == 0 {
		return 0
	}
	return c.CycleRate / c.FrameRate
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}

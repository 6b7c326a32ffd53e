// Package benchmarks provides timing benchmark infrastructure for C8Sim calibration.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Frames is the number of frames run
	Frames uint64 `json:"frames"`

	// SimulatedCycles is the estimated machine cycle count
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of executed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// BlockedSteps is the number of steps spent waiting for a key
	BlockedSteps uint64 `json:"blocked_steps"`

	// FramesOverBudget counts frames slower than the display refresh
	FramesOverBudget uint64 `json:"frames_over_budget"`

	ICacheHits   uint64 `json:"icache_hits,omitempty"`
	ICacheMisses uint64 `json:"icache_misses,omitempty"`

	DCacheHits   uint64 `json:"dcache_hits,omitempty"`
	DCacheMisses uint64 `json:"dcache_misses,omitempty"`

	// Error is set if the program faulted or failed validation
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program is the CHIP-8 ROM image loaded at 0x200
	Program []byte

	// Speed is the number of instructions per frame; 0 means the default
	Speed int

	// Frames is the number of frames to run
	Frames int

	// Validate checks the final emulator state
	Validate func(e *emu.Emulator) error
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing overrides the default instruction costs
	Timing *latency.TimingConfig

	// EnableICache enables instruction cache simulation
	EnableICache bool

	// EnableDCache enables data cache simulation
	EnableDCache bool

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableICache: true,
		EnableDCache: true,
		Output:       os.Stdout,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

// runBenchmark executes a single benchmark on a fresh emulator.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	emuOpts := []emu.EmulatorOption{emu.WithSeed(1)}
	if bench.Speed > 0 {
		emuOpts = append(emuOpts, emu.WithSpeed(bench.Speed))
	}
	e := emu.NewEmulator(emuOpts...)

	var coreOpts []core.CoreOption
	if !h.config.EnableICache {
		coreOpts = append(coreOpts, core.WithoutICache())
	}
	if !h.config.EnableDCache {
		coreOpts = append(coreOpts, core.WithoutDCache())
	}
	c := core.NewCore(e, h.config.Timing, coreOpts...)

	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	if err := c.LoadROM(bench.Program); err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	err := c.RunFrames(bench.Frames)
	result.WallTime = time.Since(start)

	if err == nil && bench.Validate != nil {
		err = bench.Validate(e)
	}
	if err != nil {
		result.Error = err.Error()
	}

	stats := c.Stats()
	result.Frames = stats.Frames
	result.SimulatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.CPI = stats.CyclesPerInstruction()
	result.BlockedSteps = stats.BlockedSteps
	result.FramesOverBudget = stats.FramesOverBudget
	result.ICacheHits = stats.ICache.Hits
	result.ICacheMisses = stats.ICache.Misses
	result.DCacheHits = stats.DCache.Hits
	result.DCacheMisses = stats.DCache.Misses

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d instructions in %v\n",
			bench.Name, result.InstructionsRetired, result.WallTime)
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	w := h.config.Output
	_, _ = fmt.Fprintln(w, "=== C8Sim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(w, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(w, "  Description: %s\n", r.Description)
		if r.Error != "" {
			_, _ = fmt.Fprintf(w, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(w, "  --- Timing ---")
		_, _ = fmt.Fprintf(w, "  Frames:               %d\n", r.Frames)
		_, _ = fmt.Fprintf(w, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(w, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(w, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(w, "  Blocked Steps:        %d\n", r.BlockedSteps)
		_, _ = fmt.Fprintf(w, "  Frames Over Budget:   %d\n", r.FramesOverBudget)

		if r.ICacheHits > 0 || r.ICacheMisses > 0 {
			_, _ = fmt.Fprintln(w, "  --- I-Cache ---")
			_, _ = fmt.Fprintf(w, "  Hits:   %d\n", r.ICacheHits)
			_, _ = fmt.Fprintf(w, "  Misses: %d\n", r.ICacheMisses)
		}

		if r.DCacheHits > 0 || r.DCacheMisses > 0 {
			_, _ = fmt.Fprintln(w, "  --- D-Cache ---")
			_, _ = fmt.Fprintf(w, "  Hits:   %d\n", r.DCacheHits)
			_, _ = fmt.Fprintf(w, "  Misses: %d\n", r.DCacheMisses)
		}

		_, _ = fmt.Fprintf(w, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(w, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,frames,cycles,instructions,cpi,blocked,over_budget,icache_hits,icache_misses,dcache_hits,dcache_misses,error")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%d,%d,%d,%d,%d,%d,%q\n",
			r.Name,
			r.Frames,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.BlockedSteps,
			r.FramesOverBudget,
			r.ICacheHits,
			r.ICacheMisses,
			r.DCacheHits,
			r.DCacheMisses,
			r.Error,
		)
	}
}

// BenchmarkReport is the JSON document written by PrintJSON.
type BenchmarkReport struct {
	Metadata ReportMetadata    `json:"metadata"`
	Results  []BenchmarkResult `json:"results"`
	Summary  ReportSummary     `json:"summary"`
}

// ReportMetadata describes the run.
type ReportMetadata struct {
	Timestamp     string `json:"timestamp"`
	ICacheEnabled bool   `json:"icache_enabled"`
	DCacheEnabled bool   `json:"dcache_enabled"`
}

// ReportSummary aggregates all results.
type ReportSummary struct {
	TotalBenchmarks   int    `json:"total_benchmarks"`
	Failed            int    `json:"failed"`
	TotalCycles       uint64 `json:"total_cycles"`
	TotalInstructions uint64 `json:"total_instructions"`
	// AverageCPI is weighted by instruction count
	AverageCPI    float64       `json:"average_cpi"`
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates results.
func Summarize(results []BenchmarkResult) ReportSummary {
	s := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		s.TotalCycles += r.SimulatedCycles
		s.TotalInstructions += r.InstructionsRetired
		s.TotalWallTime += r.WallTime
		if r.Error != "" {
			s.Failed++
		}
	}
	if s.TotalInstructions > 0 {
		s.AverageCPI = float64(s.TotalCycles) / float64(s.TotalInstructions)
	}
	return s
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			ICacheEnabled: h.config.EnableICache,
			DCacheEnabled: h.config.EnableDCache,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

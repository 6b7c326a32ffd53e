// Package main provides the entry point for C8Sim.
// C8Sim is a CHIP-8 virtual machine with window, terminal and headless
// timing front-ends.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/host/keymap"
	"github.com/sarchlab/c8sim/host/term"
	"github.com/sarchlab/c8sim/host/window"
	"github.com/sarchlab/c8sim/loader"
	"github.com/sarchlab/c8sim/timing/core"
	"github.com/sarchlab/c8sim/timing/latency"
)

var (
	speed      = flag.Int("speed", emu.DefaultSpeed, "Instructions executed per frame")
	scale      = flag.Int("scale", window.DefaultScale, "Window pixels per CHIP-8 pixel")
	termMode   = flag.Bool("term", false, "Run in the terminal instead of a window")
	timing     = flag.Bool("timing", false, "Run headless and print a timing report")
	frames     = flag.Int("frames", 600, "Number of frames to run in timing mode")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	seed       = flag.Uint64("seed", 0, "Seed for CXNN (0 picks a random seed)")
	quirks     = flag.String("quirks", "", "Comma-separated VF quirks to enable: arith, shift, all")
	stackLimit = flag.Int("stack-limit", 0, "Maximum call depth (0 is unbounded)")
	layoutName = flag.String("layout", keymap.Modern.Name(), "Keyboard layout: modern or hex")
	tracePath  = flag.String("trace", "", "Write an instruction trace to this file (- for stderr)")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: c8sim [options] <rom.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	romPath := flag.Arg(0)

	rom, err := loader.Load(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ROM: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Loaded: %s (%d bytes)\n", romPath, rom.Size())
	}

	opts, closeTrace, err := emulatorOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeTrace()

	switch {
	case *timing:
		err = runTiming(rom, opts)
	case *termMode:
		err = runTerminal(rom, opts)
	default:
		err = runWindow(rom, opts)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running %s: %v\n", rom.Name, err)
		closeTrace()
		os.Exit(1)
	}
}

// emulatorOptions builds the emulator options shared by every mode.
func emulatorOptions() ([]emu.EmulatorOption, func(), error) {
	q, err := parseQuirks(*quirks)
	if err != nil {
		return nil, nil, err
	}

	opts := []emu.EmulatorOption{
		emu.WithSpeed(*speed),
		emu.WithQuirks(q),
		emu.WithStackLimit(*stackLimit),
	}
	if *seed != 0 {
		opts = append(opts, emu.WithSeed(*seed))
	}

	closeTrace := func() {}
	switch *tracePath {
	case "":
	case "-":
		opts = append(opts, emu.WithTracer(os.Stderr))
	default:
		f, err := os.Create(*tracePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create trace file: %w", err)
		}
		opts = append(opts, emu.WithTracer(f))
		closeTrace = func() { _ = f.Close() }
	}

	return opts, closeTrace, nil
}

// parseQuirks parses a comma-separated quirk list.
func parseQuirks(s string) (emu.Quirks, error) {
	var q emu.Quirks
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "":
		case "arith":
			q.ArithmeticFlags = true
		case "shift":
			q.ShiftFlags = true
		case "all":
			q.ArithmeticFlags = true
			q.ShiftFlags = true
		default:
			return q, fmt.Errorf("unknown quirk %q", name)
		}
	}
	return q, nil
}

// runWindow runs the ROM in a desktop window.
func runWindow(rom *loader.ROM, opts []emu.EmulatorOption) error {
	layout, err := keymap.LayoutByName(*layoutName)
	if err != nil {
		return err
	}

	game := window.NewGame(
		window.WithScale(*scale),
		window.WithLayout(layout),
		window.WithEmulatorOptions(opts...),
	)
	if err := game.Emulator().LoadROM(rom.Data); err != nil {
		return err
	}

	err = game.Run("C8Sim - " + rom.Name)
	report(os.Stderr, game.Emulator())
	return err
}

// runTerminal runs the ROM in the current terminal.
func runTerminal(rom *loader.ROM, opts []emu.EmulatorOption) error {
	layout, err := keymap.LayoutByName(*layoutName)
	if err != nil {
		return err
	}

	t := term.New(
		term.WithLayout(layout),
		term.WithEmulatorOptions(opts...),
	)
	if err := t.Emulator().LoadROM(rom.Data); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = t.Run(ctx)
	report(os.Stderr, t.Emulator())
	return err
}

// runTiming runs the ROM headless through the timing model.
func runTiming(rom *loader.ROM, opts []emu.EmulatorOption) error {
	timingConfig := latency.DefaultTimingConfig()
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("loading timing config: %w", err)
		}
	}
	if err := timingConfig.Validate(); err != nil {
		return fmt.Errorf("invalid timing config: %w", err)
	}

	c := core.NewCore(emu.NewEmulator(opts...), timingConfig)
	if err := c.LoadROM(rom.Data); err != nil {
		return err
	}

	runErr := c.RunFrames(*frames)

	stats := c.Stats()
	budget := timingConfig.CyclesPerFrame()

	fmt.Printf("\n")
	fmt.Printf("ROM: %s\n", rom.Name)
	fmt.Printf("Frames: %d\n", stats.Frames)
	fmt.Printf("Total Instructions: %d\n", stats.Instructions)
	fmt.Printf("Blocked Steps: %d\n", stats.BlockedSteps)
	fmt.Printf("Beeps: %d\n", stats.Beeps)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("Cycles per Instruction: %.2f\n", stats.CyclesPerInstruction())
	fmt.Printf("\n")
	fmt.Printf("Frame Budget: %d cycles at %d Hz\n", budget, timingConfig.FrameRate)
	if stats.Frames > 0 && budget > 0 {
		avg := stats.Cycles / stats.Frames
		fmt.Printf("  Average frame: %6d cycles (%5.1f%%)\n", avg, 100.0*float64(avg)/float64(budget))
	}
	fmt.Printf("  Over budget:   %6d frames\n", stats.FramesOverBudget)
	fmt.Printf("\n")
	fmt.Printf("Caches:\n")
	fmt.Printf("  I-cache: %d reads, %d misses (%.1f%% hit)\n",
		stats.ICache.Reads, stats.ICache.Misses, 100.0*stats.ICache.HitRate())
	fmt.Printf("  D-cache: %d accesses, %d misses (%.1f%% hit)\n",
		stats.DCache.Accesses(), stats.DCache.Misses, 100.0*stats.DCache.HitRate())

	return runErr
}

// report prints the final emulator state when verbose output is enabled.
func report(w io.Writer, e *emu.Emulator) {
	if !*verbose {
		return
	}
	fmt.Fprintf(w, "\nInstructions executed: %d\n", e.InstructionCount())
	fmt.Fprintf(w, "PC: 0x%03X  I: 0x%03X  SP: %d\n", e.PC(), e.I(), e.SP())
	if f := e.Fault(); f != nil {
		fmt.Fprintf(w, "Fault: %v\n", f)
	}
}

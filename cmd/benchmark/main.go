// Command benchmark runs the C8Sim timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results in JSON format
//	-config     Path to timing configuration JSON file
//	-no-icache  Disable instruction cache simulation
//	-no-dcache  Disable data cache simulation
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/c8sim/benchmarks"
	"github.com/sarchlab/c8sim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	noICache := flag.Bool("no-icache", false, "Disable instruction cache simulation")
	noDCache := flag.Bool("no-dcache", false, "Disable data cache simulation")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.EnableICache = !*noICache
	config.EnableDCache = !*noDCache
	config.Output = os.Stdout
	config.Verbose = *verbose

	if *configPath != "" {
		timingConfig, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := timingConfig.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timingConfig
	}

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	if !*csvOutput && !*jsonOutput {
		fmt.Println("C8Sim Timing Benchmark Harness")
		fmt.Println("==============================")
		fmt.Printf("I-Cache: %v\n", config.EnableICache)
		fmt.Printf("D-Cache: %v\n", config.EnableDCache)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		summary := benchmarks.Summarize(results)
		fmt.Println("=== Summary ===")
		fmt.Printf("Benchmarks: %d (%d failed)\n", summary.TotalBenchmarks, summary.Failed)
		fmt.Printf("Total Cycles: %d\n", summary.TotalCycles)
		fmt.Printf("Average CPI: %.2f\n", summary.AverageCPI)
	}

	if benchmarks.Summarize(results).Failed > 0 {
		os.Exit(1)
	}
}

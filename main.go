// Package main provides the entry point for C8Sim.
// C8Sim is a CHIP-8 virtual machine with a timing model built on Akita.
//
// For the full CLI, use: go run ./cmd/c8sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("C8Sim - CHIP-8 Virtual Machine")
	fmt.Println("Built on Akita simulation components")
	fmt.Println("")
	fmt.Println("Usage: c8sim [options] <rom.ch8>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -speed     Instructions executed per frame")
	fmt.Println("  -term      Run in the terminal instead of a window")
	fmt.Println("  -timing    Run headless and print a timing report")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/c8sim -h' for all options.")
	fmt.Println("Run 'go run ./cmd/benchmark' for the timing benchmarks.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/c8sim' instead.")
	}
}

// Package insts provides CHIP-8 instruction definitions and decoding.
//
// This package turns raw 16-bit CHIP-8 instruction words into structured
// instruction representations. Every word decodes; words that do not name a
// supported instruction carry OpUnknown.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x6A2F) // LD VA, $2F
//	fmt.Printf("Op: %v, X: %d, NN: %#x\n", inst.Op, inst.X, inst.NN)
package insts

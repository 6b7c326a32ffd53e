package cache

import (
	"github.com/sarchlab/c8sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
//
// The emulator writes memory itself, so writebacks are counted by the cache
// but never applied here. Bytes past the end of memory read as zero.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory.
func (m *MemoryBacking) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		b, err := m.memory.Read(int(addr) + i)
		if err != nil {
			break
		}
		data[i] = b
	}
	return data
}

// Write discards the evicted line.
func (m *MemoryBacking) Write(addr uint64, data []byte) {}

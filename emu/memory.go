// Package emu provides functional CHIP-8 emulation.
package emu

import (
	"errors"
	"fmt"
)

// MemorySize is the size of the CHIP-8 address space in bytes.
const MemorySize = 4096

// ErrOutOfBounds is returned for memory accesses outside the address space.
var ErrOutOfBounds = errors.New("memory access out of bounds")

// AddressError reports an access to an address outside [0, MemorySize).
type AddressError struct {
	// Addr is the first offending address.
	Addr int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%v: address 0x%X", ErrOutOfBounds, e.Addr)
}

// Unwrap returns ErrOutOfBounds.
func (e *AddressError) Unwrap() error {
	return ErrOutOfBounds
}

// Memory is the flat 4 KiB CHIP-8 byte store.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates zero-initialized memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Size returns the number of addressable bytes.
func (m *Memory) Size() int {
	return MemorySize
}

// Read reads the byte at addr.
func (m *Memory) Read(addr int) (uint8, error) {
	if err := m.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Write stores value at addr.
func (m *Memory) Write(addr int, value uint8) error {
	if err := m.checkRange(addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// ReadBulk returns a copy of n bytes starting at addr.
func (m *Memory) ReadBulk(addr, n int) ([]byte, error) {
	if err := m.checkRange(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.data[addr:addr+n])
	return out, nil
}

// WriteBulk copies data into memory starting at addr. Nothing is written
// unless the whole range fits.
func (m *Memory) WriteBulk(addr int, data []byte) error {
	if err := m.checkRange(addr, len(data)); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	return nil
}

// Read16 reads the big-endian word at addr, addr+1.
func (m *Memory) Read16(addr int) (uint16, error) {
	if err := m.checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1]), nil
}

// Reset zeroes the whole address space.
func (m *Memory) Reset() {
	m.data = [MemorySize]byte{}
}

func (m *Memory) checkRange(addr, n int) error {
	if addr < 0 || addr >= MemorySize {
		return &AddressError{Addr: addr}
	}
	if n > 0 && addr+n > MemorySize {
		return &AddressError{Addr: MemorySize}
	}
	return nil
}

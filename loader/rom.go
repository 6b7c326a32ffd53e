// Package loader provides CHIP-8 ROM image loading.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/c8sim/emu"
)

// MaxROMSize is the largest image that fits between ProgramStart and the end
// of memory.
const MaxROMSize = emu.MemorySize - emu.ProgramStart

// Extensions lists the file extensions conventionally used for ROM images.
var Extensions = []string{".ch8", ".chip8", ".bin"}

// ErrEmptyROM is returned for zero-length images.
var ErrEmptyROM = errors.New("empty ROM image")

// ErrROMTooLarge is returned for images larger than MaxROMSize.
var ErrROMTooLarge = errors.New("ROM image too large")

// ROM represents a loaded CHIP-8 program image. The image has no header; it
// is copied verbatim to ProgramStart.
type ROM struct {
	// Name identifies the image, usually its file name.
	Name string
	// Data contains the raw image.
	Data []byte
}

// Size returns the image size in bytes.
func (r *ROM) Size() int {
	return len(r.Data)
}

// Load reads the ROM image at path.
func Load(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, filepath.Base(path))
}

// Read reads a ROM image from r.
func Read(r io.Reader, name string) (*ROM, error) {
	// Read one byte past the limit to detect oversized images.
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM %s: %w", name, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyROM)
	}
	if len(data) > MaxROMSize {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", name, ErrROMTooLarge, MaxROMSize)
	}

	return &ROM{Name: name, Data: data}, nil
}

// IsROMFile reports whether path carries one of the conventional ROM
// extensions.
func IsROMFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

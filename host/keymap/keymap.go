// Package keymap maps host keyboards onto the CHIP-8 hex keypad.
//
// The COSMAC VIP keypad is laid out as
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// The Modern layout places it on the 1234/QWER/ASDF/ZXCV block. The Hex
// layout binds each nibble to the key with the same hex digit.
package keymap

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sarchlab/c8sim/emu"
)

// Layout assigns one host key, a lower-case letter or digit, to each nibble.
type Layout struct {
	name string
	keys [emu.KeyCount]rune
}

// Modern is the conventional 1234/QWER/ASDF/ZXCV layout.
var Modern = Layout{
	name: "modern",
	keys: [emu.KeyCount]rune{
		'x', '1', '2', '3',
		'q', 'w', 'e', 'a',
		's', 'd', 'z', 'c',
		'4', 'r', 'f', 'v',
	},
}

// Hex binds nibble 0x0..0xF to the keys 0..9 and a..f.
var Hex = Layout{
	name: "hex",
	keys: [emu.KeyCount]rune{
		'0', '1', '2', '3',
		'4', '5', '6', '7',
		'8', '9', 'a', 'b',
		'c', 'd', 'e', 'f',
	},
}

// Layouts lists the built-in layouts.
var Layouts = []Layout{Modern, Hex}

// LayoutByName returns the built-in layout with the given name.
func LayoutByName(name string) (Layout, error) {
	for _, l := range Layouts {
		if strings.EqualFold(l.name, name) {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("unknown keypad layout %q", name)
}

// Name returns the layout name.
func (l Layout) Name() string {
	return l.name
}

// Key returns the host key bound to a nibble.
func (l Layout) Key(nibble uint8) rune {
	return l.keys[nibble&0xF]
}

// Nibble returns the nibble bound to a host key. Letters match in either case.
func (l Layout) Nibble(r rune) (uint8, bool) {
	r = unicode.ToLower(r)
	for i, k := range l.keys {
		if k == r {
			return uint8(i), true
		}
	}
	return 0, false
}

package term

import (
	"strings"

	"github.com/sarchlab/c8sim/emu"
)

// Render draws a frame with half-block characters, two pixel rows per text
// row. Lines end in CRLF because the terminal is in raw mode.
func Render(frame *emu.Frame) string {
	var b strings.Builder
	b.Grow(emu.DisplayHeight / 2 * (emu.DisplayWidth*3 + 2))

	for y := 0; y < emu.DisplayHeight; y += 2 {
		for x := 0; x < emu.DisplayWidth; x++ {
			top := frame.Pixel(x, y) != 0
			bottom := frame.Pixel(x, y+1) != 0
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteString("\r\n")
	}
	return b.String()
}

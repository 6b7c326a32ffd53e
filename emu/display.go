package emu

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Frame is a snapshot of the framebuffer, one byte (0 or 1) per pixel in
// row-major order.
type Frame [DisplayWidth * DisplayHeight]uint8

// Pixel returns the pixel at (x, y), or 0 outside the frame.
func (f *Frame) Pixel(x, y int) uint8 {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return 0
	}
	return f[y*DisplayWidth+x]
}

// Display is the 64x32 monochrome graphics buffer.
type Display struct {
	pixels Frame
}

// NewDisplay creates a cleared display.
func NewDisplay() *Display {
	return &Display{}
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.pixels = Frame{}
}

// Pixel returns the pixel at (x, y), or 0 outside the display.
func (d *Display) Pixel(x, y int) uint8 {
	return d.pixels.Pixel(x, y)
}

// Flip XORs bit into the pixel at (x, y) and reports whether the pixel is
// off afterwards. A bit of 0 on an unlit pixel therefore also reports true.
// Coordinates outside the display are ignored and report false.
func (d *Display) Flip(x, y int, bit uint8) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	i := y*DisplayWidth + x
	d.pixels[i] ^= bit & 1
	return d.pixels[i] == 0
}

// DrawSprite draws rows of 8-pixel sprite data with the top-left corner at
// (x mod 64, y mod 32). Pixels past the right or bottom edge are clipped.
// It reports whether any flip left its pixel off.
func (d *Display) DrawSprite(x, y uint8, rows []byte) bool {
	originX := int(x & (DisplayWidth - 1))
	originY := int(y & (DisplayHeight - 1))

	collided := false
	for row, data := range rows {
		py := originY + row
		if py >= DisplayHeight {
			break
		}
		for col := 0; col < 8; col++ {
			px := originX + col
			if px >= DisplayWidth {
				break
			}
			bit := (data >> (7 - col)) & 1
			if d.Flip(px, py, bit) {
				collided = true
			}
		}
	}
	return collided
}

// Frame returns a copy of the framebuffer.
func (d *Display) Frame() Frame {
	return d.pixels
}

// Lit returns the number of pixels that are on.
func (d *Display) Lit() int {
	n := 0
	for _, p := range d.pixels {
		n += int(p)
	}
	return n
}

// Package window runs the emulator in a desktop window using Ebitengine.
package window

import (
	"fmt"
	"image/color"
	"strings"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/host/keymap"
)

const (
	// DefaultScale is the default size of one CHIP-8 pixel in screen pixels.
	DefaultScale = 9

	// SpeedStep is the speed change applied by the +/- keys.
	SpeedStep = 10

	// TPS is the update rate. One update runs one emulator frame.
	TPS = 60

	lineHeight    = 14
	overlayLines  = 5
	overlayHeight = overlayLines*lineHeight + 6

	beepLabel = "BEEP"

	// indicatorFrames is how long the beep and speaker indicators stay lit.
	indicatorFrames = TPS / 6
)

var (
	// On is the colour of lit pixels.
	On = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	// Off is the colour of unlit pixels.
	Off = color.RGBA{0x00, 0x00, 0x00, 0xFF}

	overlayBackground = color.RGBA{0x20, 0x20, 0x20, 0xFF}
	labelColor        = color.RGBA{190, 190, 190, 255}
	beepColor         = color.RGBA{0, 220, 90, 255}
)

// Game is an ebiten.Game driving one emulator.
type Game struct {
	emulator *emu.Emulator
	keys     *keymap.State
	layout   keymap.Layout
	scale    int

	screen *ebiten.Image
	pixels []byte

	emuOpts []emu.EmulatorOption

	beeps       atomic.Uint64
	beepFrames  int
	speakerTest int
	err         error
}

// GameOption is a functional option for configuring the Game.
type GameOption func(*Game)

// WithScale sets the size of one CHIP-8 pixel. Values below 1 are ignored.
func WithScale(scale int) GameOption {
	return func(g *Game) {
		if scale >= 1 {
			g.scale = scale
		}
	}
}

// WithLayout sets the keyboard layout.
func WithLayout(l keymap.Layout) GameOption {
	return func(g *Game) {
		g.layout = l
	}
}

// WithEmulatorOptions passes options to the emulator. The keypad and beeper
// are always supplied by the Game.
func WithEmulatorOptions(opts ...emu.EmulatorOption) GameOption {
	return func(g *Game) {
		g.emuOpts = append(g.emuOpts, opts...)
	}
}

// NewGame creates a Game and its emulator.
func NewGame(opts ...GameOption) *Game {
	g := &Game{
		keys:   keymap.NewState(),
		layout: keymap.Modern,
		scale:  DefaultScale,
		pixels: make([]byte, emu.DisplayWidth*emu.DisplayHeight*4),
	}
	for _, opt := range opts {
		opt(g)
	}

	emuOpts := append(g.emuOpts, emu.WithKeypad(g.keys), emu.WithBeeper(g.Beep))
	g.emulator = emu.NewEmulator(emuOpts...)

	return g
}

// Emulator returns the emulator driven by the game.
func (g *Game) Emulator() *emu.Emulator {
	return g.emulator
}

// Beep records a sound timer expiry. It is safe to call from any goroutine.
func (g *Game) Beep() {
	g.beeps.Add(1)
}

// Beeps returns the number of beeps so far.
func (g *Game) Beeps() uint64 {
	return g.beeps.Load()
}

// Update polls the keyboard and runs one emulator frame. A fault stops the
// game loop and is returned from Run.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleControls()
	g.pollKeypad()

	before := g.beeps.Load()
	if err := g.emulator.RunFrame(); err != nil {
		g.err = err
		return err
	}
	if g.beeps.Load() != before {
		g.beepFrames = indicatorFrames
	}
	if g.beepFrames > 0 {
		g.beepFrames--
	}
	if g.speakerTest > 0 {
		g.speakerTest--
	}

	return nil
}

func (g *Game) handleControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.emulator.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		g.emulator.SetSpeed(g.emulator.Speed() + SpeedStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		g.emulator.SetSpeed(g.emulator.Speed() - SpeedStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.speakerTest = indicatorFrames
	}
}

func (g *Game) pollKeypad() {
	for nibble := uint8(0); nibble < emu.KeyCount; nibble++ {
		key, ok := hostKey(g.layout.Key(nibble))
		if !ok {
			continue
		}
		g.keys.Set(nibble, ebiten.IsKeyPressed(key))
	}
}

// Draw renders the framebuffer and the status overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(emu.DisplayWidth, emu.DisplayHeight)
	}

	frame := g.emulator.Frame()
	FillPixels(g.pixels, &frame)
	g.screen.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screen, op)

	top := emu.DisplayHeight * g.scale
	w, _ := g.Layout(0, 0)
	ebitenutil.DrawRect(screen, 0, float64(top), float64(w), overlayHeight, overlayBackground)

	face := basicfont.Face7x13
	for i, line := range strings.Split(g.Status(), "\n") {
		c := labelColor
		if line == beepLabel {
			c = beepColor
		}
		text.Draw(screen, line, face, 4, top+(i+1)*lineHeight, c)
	}
}

// Status returns the overlay text.
func (g *Game) Status() string {
	e := g.emulator

	s := fmt.Sprintf("PC: %03X  I: %03X  SP: %d\nInstructions per frame: %d",
		e.PC(), e.I(), e.SP(), e.Speed())
	if _, blocked := e.Blocked(); blocked {
		s += "\nWaiting for key"
	}
	if g.beepFrames > 0 || g.speakerTest > 0 {
		s += "\n" + beepLabel
	}
	s += "\nF5 reset  +/- speed  Space speaker"
	return s
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return emu.DisplayWidth * g.scale, emu.DisplayHeight*g.scale + overlayHeight
}

// Run opens the window and blocks until it is closed or the emulator faults.
func (g *Game) Run(title string) error {
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(TPS)

	return ebiten.RunGame(g)
}

// FillPixels writes frame into dst as RGBA, using On and Off.
func FillPixels(dst []byte, frame *emu.Frame) {
	for i, p := range frame {
		c := Off
		if p != 0 {
			c = On
		}
		dst[i*4] = c.R
		dst[i*4+1] = c.G
		dst[i*4+2] = c.B
		dst[i*4+3] = c.A
	}
}

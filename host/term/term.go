// Package term runs the emulator in a text terminal.
//
// Terminals only report key presses, so every press holds its keypad key
// for a fixed time. The sound timer rings the terminal bell.
package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	xterm "golang.org/x/term"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/host/keymap"
)

const (
	// DefaultHold is how long a key press keeps a keypad key down.
	DefaultHold = 150 * time.Millisecond

	// FrameRate is the number of emulator frames per second.
	FrameRate = 60

	// SpeedStep is the speed change applied by the +/- keys.
	SpeedStep = 10

	minColumns = emu.DisplayWidth
	minRows    = emu.DisplayHeight/2 + 1

	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	clearLine   = "\x1b[K"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	bell        = "\a"
)

// ErrNotTerminal is returned by Start when stdin is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Terminal drives one emulator from a raw-mode terminal.
type Terminal struct {
	emulator *emu.Emulator
	keys     *keymap.State
	layout   keymap.Layout
	hold     time.Duration
	out      io.Writer
	emuOpts  []emu.EmulatorOption

	fd       int
	oldState *xterm.State
	nonblock bool

	commands chan Command
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	beeps atomic.Uint64
}

// Option is a functional option for configuring the Terminal.
type Option func(*Terminal)

// WithLayout sets the keyboard layout.
func WithLayout(l keymap.Layout) Option {
	return func(t *Terminal) {
		t.layout = l
	}
}

// WithHold sets how long a key press stays down.
func WithHold(d time.Duration) Option {
	return func(t *Terminal) {
		t.hold = d
	}
}

// WithOutput sets the writer the screen is drawn to.
func WithOutput(w io.Writer) Option {
	return func(t *Terminal) {
		t.out = w
	}
}

// WithEmulatorOptions passes options to the emulator. The keypad and beeper
// are always supplied by the Terminal.
func WithEmulatorOptions(opts ...emu.EmulatorOption) Option {
	return func(t *Terminal) {
		t.emuOpts = append(t.emuOpts, opts...)
	}
}

// New creates a Terminal and its emulator.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		layout:   keymap.Modern,
		hold:     DefaultHold,
		out:      os.Stdout,
		fd:       int(os.Stdin.Fd()),
		commands: make(chan Command, 16),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.keys = keymap.NewState(keymap.WithHold(t.hold))
	emuOpts := append(t.emuOpts, emu.WithKeypad(t.keys), emu.WithBeeper(t.Beep))
	t.emulator = emu.NewEmulator(emuOpts...)

	return t
}

// Emulator returns the emulator driven by the terminal.
func (t *Terminal) Emulator() *emu.Emulator {
	return t.emulator
}

// Keys returns the keypad state fed by stdin.
func (t *Terminal) Keys() *keymap.State {
	return t.keys
}

// Beep records a sound timer expiry. The bell rings on the next screen.
func (t *Terminal) Beep() {
	t.beeps.Add(1)
}

// Start puts stdin into raw non-blocking mode and starts reading keys.
// Call Stop to restore the terminal.
func (t *Terminal) Start() error {
	if !xterm.IsTerminal(t.fd) {
		return ErrNotTerminal
	}
	if w, h, err := xterm.GetSize(int(os.Stdout.Fd())); err == nil && (w < minColumns || h < minRows) {
		return fmt.Errorf("terminal is %dx%d, need at least %dx%d", w, h, minColumns, minRows)
	}

	oldState, err := xterm.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	t.oldState = oldState

	if err := setNonblock(t.fd, true); err != nil {
		_ = xterm.Restore(t.fd, t.oldState)
		t.oldState = nil
		return fmt.Errorf("failed to set nonblocking stdin: %w", err)
	}
	t.nonblock = true

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.readLoop()

	return nil
}

func (t *Terminal) readLoop() {
	defer close(t.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-t.stop:
			return
		default:
		}

		ok, err := readByte(t.fd, buf)
		if err != nil {
			return
		}
		if !ok {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		t.Feed(buf[0])
	}
}

// Feed handles one byte of terminal input.
func (t *Terminal) Feed(b byte) {
	nibble, isKey, cmd := Translate(b, t.layout)
	if isKey {
		t.keys.Press(nibble)
	}
	if cmd != CommandNone {
		select {
		case t.commands <- cmd:
		default:
		}
	}
}

// Stop terminates the reader and restores the terminal.
func (t *Terminal) Stop() {
	if t.done == nil {
		return
	}
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	<-t.done
	if t.nonblock {
		_ = setNonblock(t.fd, false)
		t.nonblock = false
	}
	if t.oldState != nil {
		_ = xterm.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

// Apply executes a command and reports whether the front-end should quit.
func (t *Terminal) Apply(cmd Command) (quit bool) {
	switch cmd {
	case CommandQuit:
		return true
	case CommandReset:
		t.emulator.Reset()
	case CommandFaster:
		t.emulator.SetSpeed(t.emulator.Speed() + SpeedStep)
	case CommandSlower:
		t.emulator.SetSpeed(t.emulator.Speed() - SpeedStep)
	}
	return false
}

// Screen returns the escape sequence that redraws the whole screen,
// ringing the bell if the emulator beeped since the previous call.
func (t *Terminal) Screen() string {
	e := t.emulator
	frame := e.Frame()

	status := fmt.Sprintf("PC: %03X  I: %03X  SP: %d  speed: %d  ^R reset  +/- speed  Esc quit",
		e.PC(), e.I(), e.SP(), e.Speed())

	s := cursorHome + Render(&frame) + status + clearLine
	if t.beeps.Swap(0) > 0 {
		s += bell
	}
	return s
}

// Run starts the terminal and runs one emulator frame per tick until the
// context is cancelled, the user quits, or the emulator faults.
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.Start(); err != nil {
		return err
	}
	defer t.Stop()

	_, _ = fmt.Fprint(t.out, hideCursor+clearScreen)
	defer func() { _, _ = fmt.Fprint(t.out, showCursor+"\r\n") }()

	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-t.commands:
			if t.Apply(cmd) {
				return nil
			}
		case <-ticker.C:
			if err := t.emulator.RunFrame(); err != nil {
				return err
			}
			_, _ = fmt.Fprint(t.out, t.Screen())
		}
	}
}

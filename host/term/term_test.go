package term_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/host/keymap"
	"github.com/sarchlab/c8sim/host/term"
)

var _ = Describe("Render", func() {
	It("should draw two pixel rows per line", func() {
		var frame emu.Frame
		frame[0*emu.DisplayWidth+0] = 1 // top only
		frame[1*emu.DisplayWidth+1] = 1 // bottom only
		frame[0*emu.DisplayWidth+2] = 1 // both
		frame[1*emu.DisplayWidth+2] = 1

		lines := strings.Split(term.Render(&frame), "\r\n")
		Expect(lines).To(HaveLen(emu.DisplayHeight/2 + 1))
		Expect(lines[len(lines)-1]).To(BeEmpty())

		first := []rune(lines[0])
		Expect(first).To(HaveLen(emu.DisplayWidth))
		Expect(string(first[:4])).To(Equal("▀▄█ "))
		Expect(strings.TrimSpace(lines[1])).To(BeEmpty())
	})

	It("should render the bottom-right pixel", func() {
		var frame emu.Frame
		frame[len(frame)-1] = 1

		lines := strings.Split(term.Render(&frame), "\r\n")
		last := []rune(lines[emu.DisplayHeight/2-1])
		Expect(string(last[emu.DisplayWidth-1])).To(Equal("▄"))
	})
})

var _ = Describe("Translate", func() {
	DescribeTable("commands",
		func(b byte, cmd term.Command) {
			_, isKey, got := term.Translate(b, keymap.Modern)
			Expect(isKey).To(BeFalse())
			Expect(got).To(Equal(cmd))
		},
		Entry("Ctrl-C", byte(0x03), term.CommandQuit),
		Entry("Esc", byte(0x1B), term.CommandQuit),
		Entry("Ctrl-R", byte(0x12), term.CommandReset),
		Entry("+", byte('+'), term.CommandFaster),
		Entry("=", byte('='), term.CommandFaster),
		Entry("-", byte('-'), term.CommandSlower),
		Entry("unbound", byte('p'), term.CommandNone),
	)

	It("should translate keypad keys with the layout", func() {
		nibble, isKey, cmd := term.Translate('v', keymap.Modern)
		Expect(isKey).To(BeTrue())
		Expect(nibble).To(Equal(uint8(0xF)))
		Expect(cmd).To(Equal(term.CommandNone))

		nibble, isKey, _ = term.Translate('A', keymap.Hex)
		Expect(isKey).To(BeTrue())
		Expect(nibble).To(Equal(uint8(0xA)))
	})
})

var _ = Describe("Terminal", func() {
	var (
		out *bytes.Buffer
		t   *term.Terminal
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		t = term.New(term.WithOutput(out), term.WithEmulatorOptions(emu.WithSpeed(20)))
	})

	It("should configure the emulator", func() {
		Expect(t.Emulator().Speed()).To(Equal(20))
	})

	It("should press keypad keys from input", func() {
		t.Feed('w')
		Expect(t.Keys().IsKeyDown(0x5)).To(BeTrue())
	})

	It("should apply speed and reset commands", func() {
		Expect(t.Apply(term.CommandFaster)).To(BeFalse())
		Expect(t.Emulator().Speed()).To(Equal(30))

		Expect(t.Apply(term.CommandSlower)).To(BeFalse())
		Expect(t.Apply(term.CommandSlower)).To(BeFalse())
		Expect(t.Emulator().Speed()).To(Equal(10))

		Expect(t.Emulator().LoadROM([]byte{0x12, 0x02, 0x12, 0x02})).To(Succeed())
		Expect(t.Emulator().Cycle(1)).To(Succeed())
		Expect(t.Apply(term.CommandReset)).To(BeFalse())
		Expect(t.Emulator().PC()).To(Equal(uint16(0x200)))

		Expect(t.Apply(term.CommandQuit)).To(BeTrue())
	})

	It("should ring the bell once per beep burst", func() {
		// LD V0, 1; LD ST, V0; JP 0x204
		Expect(t.Emulator().LoadROM([]byte{0x60, 0x01, 0xF0, 0x18, 0x12, 0x04})).To(Succeed())
		Expect(t.Emulator().Cycle(3)).To(Succeed())

		Expect(t.Screen()).To(HaveSuffix("\a"))
		Expect(t.Screen()).NotTo(HaveSuffix("\a"))
	})

	It("should include the registers in the status line", func() {
		Expect(t.Emulator().LoadROM([]byte{0xA2, 0x34})).To(Succeed())
		Expect(t.Emulator().Cycle(1)).To(Succeed())

		screen := t.Screen()
		Expect(screen).To(HavePrefix("\x1b[H"))
		Expect(screen).To(ContainSubstring("PC: 202  I: 234  SP: 0  speed: 20"))
	})

	It("should restore nothing when never started", func() {
		Expect(t.Stop).NotTo(Panic())
	})
})

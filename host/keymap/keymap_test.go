package keymap_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/host/keymap"
)

var _ = Describe("Layout", func() {
	DescribeTable("Modern layout",
		func(r rune, nibble uint8) {
			got, ok := keymap.Modern.Nibble(r)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(nibble))
			Expect(keymap.Modern.Key(nibble)).To(Equal(r))
		},
		Entry("1", '1', uint8(0x1)),
		Entry("2", '2', uint8(0x2)),
		Entry("3", '3', uint8(0x3)),
		Entry("4", '4', uint8(0xC)),
		Entry("q", 'q', uint8(0x4)),
		Entry("w", 'w', uint8(0x5)),
		Entry("e", 'e', uint8(0x6)),
		Entry("r", 'r', uint8(0xD)),
		Entry("a", 'a', uint8(0x7)),
		Entry("s", 's', uint8(0x8)),
		Entry("d", 'd', uint8(0x9)),
		Entry("f", 'f', uint8(0xE)),
		Entry("z", 'z', uint8(0xA)),
		Entry("x", 'x', uint8(0x0)),
		Entry("c", 'c', uint8(0xB)),
		Entry("v", 'v', uint8(0xF)),
	)

	It("should match upper-case letters", func() {
		nibble, ok := keymap.Modern.Nibble('V')
		Expect(ok).To(BeTrue())
		Expect(nibble).To(Equal(uint8(0xF)))
	})

	It("should reject unbound keys", func() {
		_, ok := keymap.Modern.Nibble('p')
		Expect(ok).To(BeFalse())
	})

	It("should bind hex digits in the hex layout", func() {
		for i, r := range "0123456789abcdef" {
			nibble, ok := keymap.Hex.Nibble(r)
			Expect(ok).To(BeTrue())
			Expect(nibble).To(Equal(uint8(i)))
		}
	})

	It("should find layouts by name", func() {
		l, err := keymap.LayoutByName("HEX")
		Expect(err).NotTo(HaveOccurred())
		Expect(l.Name()).To(Equal("hex"))

		_, err = keymap.LayoutByName("dvorak")
		Expect(err).To(MatchError(ContainSubstring("dvorak")))
	})
})

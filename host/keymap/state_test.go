package keymap_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/host/keymap"
)

var _ = Describe("State", func() {
	var s *keymap.State

	BeforeEach(func() {
		s = keymap.NewState()
	})

	It("should start with every key released", func() {
		_, ok := s.AnyKeyDown()
		Expect(ok).To(BeFalse())
		for key := uint8(0); key < 16; key++ {
			Expect(s.IsKeyDown(key)).To(BeFalse())
		}
	})

	It("should track presses and releases", func() {
		s.Press(0xA)
		Expect(s.IsKeyDown(0xA)).To(BeTrue())

		s.Release(0xA)
		Expect(s.IsKeyDown(0xA)).To(BeFalse())
	})

	It("should follow level-triggered updates", func() {
		s.Set(3, true)
		Expect(s.IsKeyDown(3)).To(BeTrue())
		s.Set(3, false)
		Expect(s.IsKeyDown(3)).To(BeFalse())
	})

	It("should report the lowest held key", func() {
		s.Press(0xE)
		s.Press(0x5)
		s.Press(0x9)

		key, ok := s.AnyKeyDown()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(uint8(0x5)))
	})

	It("should mask keys to a nibble", func() {
		s.Press(0x12)
		Expect(s.IsKeyDown(0x2)).To(BeTrue())
		Expect(s.IsKeyDown(0xF2)).To(BeTrue())
	})

	It("should release every key at once", func() {
		s.Press(1)
		s.Press(2)
		s.ReleaseAll()

		_, ok := s.AnyKeyDown()
		Expect(ok).To(BeFalse())
	})

	Context("with a hold time", func() {
		var now time.Time

		BeforeEach(func() {
			now = time.Unix(1000, 0)
			s = keymap.NewState(
				keymap.WithHold(100*time.Millisecond),
				keymap.WithClock(func() time.Time { return now }),
			)
		})

		It("should keep a press down until the hold expires", func() {
			s.Press(7)

			now = now.Add(99 * time.Millisecond)
			Expect(s.IsKeyDown(7)).To(BeTrue())

			now = now.Add(time.Millisecond)
			Expect(s.IsKeyDown(7)).To(BeFalse())
			_, ok := s.AnyKeyDown()
			Expect(ok).To(BeFalse())
		})

		It("should restart the hold on repeated presses", func() {
			s.Press(7)
			now = now.Add(80 * time.Millisecond)
			s.Press(7)
			now = now.Add(80 * time.Millisecond)

			Expect(s.IsKeyDown(7)).To(BeTrue())
		})
	})
})

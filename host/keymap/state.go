package keymap

import (
	"sync"
	"time"

	"github.com/sarchlab/c8sim/emu"
)

var _ emu.Keypad = (*State)(nil)

// State is a thread-safe emu.Keypad fed by a host front-end.
//
// Front-ends that only see key presses (terminals) configure a hold time:
// each press then keeps the key down until the hold expires.
type State struct {
	mu      sync.Mutex
	down    [emu.KeyCount]bool
	expires [emu.KeyCount]time.Time
	hold    time.Duration
	now     func() time.Time
}

// StateOption is a functional option for configuring a State.
type StateOption func(*State)

// WithHold makes every press release itself after d.
func WithHold(d time.Duration) StateOption {
	return func(s *State) {
		s.hold = d
	}
}

// WithClock sets the time source used for hold expiry.
func WithClock(now func() time.Time) StateOption {
	return func(s *State) {
		s.now = now
	}
}

// NewState creates a State with every key released.
func NewState(opts ...StateOption) *State {
	s := &State{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set updates a key from a level-triggered source.
func (s *State) Set(key uint8, down bool) {
	if down {
		s.Press(key)
	} else {
		s.Release(key)
	}
}

// Press marks a key as held, restarting its hold time.
func (s *State) Press(key uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key &= 0xF
	s.down[key] = true
	if s.hold > 0 {
		s.expires[key] = s.now().Add(s.hold)
	}
}

// Release marks a key as released.
func (s *State) Release(key uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.down[key&0xF] = false
}

// ReleaseAll releases every key.
func (s *State) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.down = [emu.KeyCount]bool{}
}

// IsKeyDown reports whether the key is held.
func (s *State) IsKeyDown(key uint8) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isDown(key&0xF, s.now())
}

// AnyKeyDown returns the lowest held key.
func (s *State) AnyKeyDown() (uint8, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key := uint8(0); key < emu.KeyCount; key++ {
		if s.isDown(key, now) {
			return key, true
		}
	}
	return 0, false
}

func (s *State) isDown(key uint8, now time.Time) bool {
	if !s.down[key] {
		return false
	}
	if s.hold > 0 && !now.Before(s.expires[key]) {
		s.down[key] = false
		return false
	}
	return true
}

package term

import "github.com/sarchlab/c8sim/host/keymap"

// Command is a front-end control decoded from terminal input.
type Command int

// Commands recognised on stdin in addition to keypad keys.
const (
	CommandNone Command = iota
	CommandQuit
	CommandReset
	CommandFaster
	CommandSlower
)

const (
	ctrlC = 0x03
	ctrlR = 0x12
	esc   = 0x1B
)

// Translate decodes one input byte into a keypad nibble or a command.
func Translate(b byte, layout keymap.Layout) (nibble uint8, isKey bool, cmd Command) {
	switch b {
	case ctrlC, esc:
		return 0, false, CommandQuit
	case ctrlR:
		return 0, false, CommandReset
	case '+', '=':
		return 0, false, CommandFaster
	case '-', '_':
		return 0, false, CommandSlower
	}

	if nibble, ok := layout.Nibble(rune(b)); ok {
		return nibble, true, CommandNone
	}
	return 0, false, CommandNone
}

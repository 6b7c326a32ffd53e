package window

import "github.com/hajimehoshi/ebiten/v2"

var hostKeys = map[rune]ebiten.Key{
	'0': ebiten.Key0, '1': ebiten.Key1, '2': ebiten.Key2, '3': ebiten.Key3,
	'4': ebiten.Key4, '5': ebiten.Key5, '6': ebiten.Key6, '7': ebiten.Key7,
	'8': ebiten.Key8, '9': ebiten.Key9,
	'a': ebiten.KeyA, 'b': ebiten.KeyB, 'c': ebiten.KeyC, 'd': ebiten.KeyD,
	'e': ebiten.KeyE, 'f': ebiten.KeyF, 'g': ebiten.KeyG, 'h': ebiten.KeyH,
	'i': ebiten.KeyI, 'j': ebiten.KeyJ, 'k': ebiten.KeyK, 'l': ebiten.KeyL,
	'm': ebiten.KeyM, 'n': ebiten.KeyN, 'o': ebiten.KeyO, 'p': ebiten.KeyP,
	'q': ebiten.KeyQ, 'r': ebiten.KeyR, 's': ebiten.KeyS, 't': ebiten.KeyT,
	'u': ebiten.KeyU, 'v': ebiten.KeyV, 'w': ebiten.KeyW, 'x': ebiten.KeyX,
	'y': ebiten.KeyY, 'z': ebiten.KeyZ,
}

// hostKey translates a layout key into an ebiten key.
func hostKey(r rune) (ebiten.Key, bool) {
	k, ok := hostKeys[r]
	return k, ok
}

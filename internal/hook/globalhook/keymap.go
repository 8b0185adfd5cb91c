package globalhook

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"

	"github.com/dshills/hotstorm/internal/hook"
)

// keyMap maps canonical key names to hotkey.Key values. Only keys the
// library exposes on every platform appear here.
var keyMap = map[string]hotkey.Key{
	// Letters
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC,
	"d": hotkey.KeyD, "e": hotkey.KeyE, "f": hotkey.KeyF,
	"g": hotkey.KeyG, "h": hotkey.KeyH, "i": hotkey.KeyI,
	"j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO,
	"p": hotkey.KeyP, "q": hotkey.KeyQ, "r": hotkey.KeyR,
	"s": hotkey.KeyS, "t": hotkey.KeyT, "u": hotkey.KeyU,
	"v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	// Digits
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2,
	"3": hotkey.Key3, "4": hotkey.Key4, "5": hotkey.Key5,
	"6": hotkey.Key6, "7": hotkey.Key7, "8": hotkey.Key8,
	"9": hotkey.Key9,

	// Function keys
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	// Named keys
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
}

// platformKey maps a canonical identity name to a hotkey.Key.
func platformKey(name string) (hotkey.Key, error) {
	if k, ok := keyMap[strings.ToLower(name)]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: key %q has no OS hotkey mapping", hook.ErrUnsupported, name)
}

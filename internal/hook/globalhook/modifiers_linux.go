//go:build linux

package globalhook

import (
	"fmt"

	"golang.design/x/hotkey"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/key"
)

// platformModifiers maps identity modifiers to X11 modifier masks. Alt
// is Mod1 and Super is Mod4; X11 has no left/right distinction at the
// grab level, so side-specific modifiers are rejected.
func platformModifiers(m key.Modifier) ([]hotkey.Modifier, error) {
	if m.Has(key.ModLCtrl | key.ModRCtrl | key.ModLAlt | key.ModRAlt |
		key.ModLShift | key.ModRShift | key.ModLWin | key.ModRWin) {
		return nil, fmt.Errorf("%w: side-specific modifiers", hook.ErrUnsupported)
	}
	var mods []hotkey.Modifier
	if m.HasCtrl() {
		mods = append(mods, hotkey.ModCtrl)
	}
	if m.HasAlt() {
		mods = append(mods, hotkey.Mod1)
	}
	if m.HasShift() {
		mods = append(mods, hotkey.ModShift)
	}
	if m.HasWin() {
		mods = append(mods, hotkey.Mod4)
	}
	return mods, nil
}

//go:build windows

package globalhook

import (
	"fmt"

	"golang.design/x/hotkey"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/key"
)

// platformModifiers maps identity modifiers to RegisterHotKey masks.
// RegisterHotKey has no left/right distinction, so side-specific
// modifiers are rejected.
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
		mods = append(mods, hotkey.ModAlt)
	}
	if m.HasShift() {
		mods = append(mods, hotkey.ModShift)
	}
	if m.HasWin() {
		mods = append(mods, hotkey.ModWin)
	}
	return mods, nil
}

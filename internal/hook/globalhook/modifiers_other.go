//go:build !windows && !linux

package globalhook

import (
	"fmt"

	"golang.design/x/hotkey"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/key"
)

// platformModifiers is not implemented on this OS.
func platformModifiers(key.Modifier) ([]hotkey.Modifier, error) {
	return nil, fmt.Errorf("%w: no OS hotkey backend for this platform", hook.ErrUnsupported)
}

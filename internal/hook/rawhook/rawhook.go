// Package rawhook adapts a low-level keyboard hook (robotn/gohook) to
// the hook adapter contract. Unlike globalhook it sees every key
// event, so it can feed the character stream hotstrings match against.
//
// The hook cannot synthesize input, so SendBackspaces is unsupported;
// trigger erasure is skipped on this backend.
package rawhook

import (
	"sync"
	"unicode"

	gohook "github.com/robotn/gohook"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/key"
)

// Mask bits gohook sets on key events.
const (
	maskShift uint16 = 1 << iota
	maskCtrl
	maskAlt
	maskMeta
)

// namedKeys maps gohook rawcodes to canonical identity names for keys
// without a printable character.
var namedKeys = map[uint16]string{
	27: "Escape", 13: "Enter", 9: "Tab", 8: "Backspace",
	46: "Delete", 45: "Insert", 36: "Home", 35: "End",
	33: "PageUp", 34: "PageDown",
	37: "Left", 38: "Up", 39: "Right", 40: "Down",
	112: "F1", 113: "F2", 114: "F3", 115: "F4", 116: "F5", 117: "F6",
	118: "F7", 119: "F8", 120: "F9", 121: "F10", 122: "F11", 123: "F12",
}

// Adapter owns the low-level hook and fans events out to watched
// identities and the character stream.
type Adapter struct {
	handler hook.Handler

	mu        sync.Mutex
	installed bool
	done      chan struct{}
	watched   map[key.Identity]bool
	text      bool
}

// New creates an adapter delivering events to handler.
func New(handler hook.Handler) *Adapter {
	return &Adapter{
		handler: handler,
		watched: make(map[key.Identity]bool),
	}
}

// InstallIfAbsent starts the OS hook and the event pump. Idempotent.
func (a *Adapter) InstallIfAbsent() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.installed {
		return nil
	}
	a.installed = true
	a.done = make(chan struct{})

	events := gohook.Start()
	go a.pump(events, a.done)
	return nil
}

// RemoveIfUnused stops the OS hook when nothing remains watched.
func (a *Adapter) RemoveIfUnused() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.installed || len(a.watched) > 0 || a.text {
		return nil
	}
	a.installed = false
	close(a.done)
	gohook.End()
	return nil
}

// Watch starts delivering HandleKey events for the identity.
func (a *Adapter) Watch(id key.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.installed {
		return hook.ErrNotInstalled
	}
	a.watched[id] = true
	return nil
}

// Unwatch stops delivering events for the identity.
func (a *Adapter) Unwatch(id key.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.watched, id)
	return nil
}

// WatchText activates the character stream.
func (a *Adapter) WatchText() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.installed {
		return hook.ErrNotInstalled
	}
	a.text = true
	return nil
}

// UnwatchText deactivates the character stream.
func (a *Adapter) UnwatchText() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text = false
	return nil
}

// SendBackspaces is unsupported: the hook only observes input.
func (a *Adapter) SendBackspaces(int) error { return hook.ErrUnsupported }

// pump translates raw hook events until the hook is removed.
func (a *Adapter) pump(events chan gohook.Event, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind != gohook.KeyDown && ev.Kind != gohook.KeyUp {
				continue
			}
			a.deliver(ev)
		}
	}
}

// deliver fans one key event out to the watched-identity path and the
// character stream.
func (a *Adapter) deliver(ev gohook.Event) {
	id, printable := identityFor(ev)
	if id.Name == "" {
		return
	}

	a.mu.Lock()
	watched := a.watched[id]
	text := a.text
	a.mu.Unlock()

	if watched {
		a.handler.HandleKey(id)
	}

	if !text || ev.Kind != gohook.KeyDown {
		return
	}
	// Modified keystrokes do not type text.
	if id.Mods.HasCtrl() || id.Mods.HasAlt() || id.Mods.HasWin() {
		return
	}
	if printable {
		a.handler.HandleChar(rune(ev.Keychar))
		return
	}
	a.handler.HandleEndKey(id)
}

// identityFor builds the key identity for a raw event. printable
// reports whether the event types a character.
func identityFor(ev gohook.Event) (key.Identity, bool) {
	id := key.Identity{Trigger: key.TriggerDown}
	if ev.Kind == gohook.KeyUp {
		id.Trigger = key.TriggerUp
	}

	if ev.Mask&maskCtrl != 0 {
		id.Mods = id.Mods.With(key.ModCtrl)
	}
	if ev.Mask&maskAlt != 0 {
		id.Mods = id.Mods.With(key.ModAlt)
	}
	if ev.Mask&maskShift != 0 {
		id.Mods = id.Mods.With(key.ModShift)
	}
	if ev.Mask&maskMeta != 0 {
		id.Mods = id.Mods.With(key.ModWin)
	}

	if name, ok := namedKeys[ev.Rawcode]; ok {
		id.Name = name
		return id, false
	}
	r := rune(ev.Keychar)
	if r == 0 || r == 0xFFFF || !unicode.IsPrint(r) {
		return id, false
	}
	if r == ' ' {
		id.Name = "Space"
		return id, true
	}
	// Identities are case-insensitive: Shift lives in the modifier
	// set, not the character.
	id.Name = string(unicode.ToLower(r))
	return id, true
}

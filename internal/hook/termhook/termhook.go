// Package termhook adapts a tcell terminal screen to the hook adapter
// contract. It exists for dry runs and interactive testing: bindings
// fire from keys typed into the terminal instead of a global OS hook.
//
// Terminals report no key-up events, so only TriggerDown identities
// can fire on this backend.
package termhook

import (
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/key"
)

// namedKeys maps tcell named keys to canonical identity names.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyEscape:     "Escape",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// Adapter reads key events from a terminal screen.
type Adapter struct {
	handler hook.Handler

	mu        sync.Mutex
	screen    tcell.Screen
	installed bool
	watched   map[key.Identity]bool
	text      bool
}

// New creates an adapter delivering events to handler. screen may be
// nil, in which case InstallIfAbsent opens the real terminal; tests
// pass a tcell.SimulationScreen.
func New(handler hook.Handler, screen tcell.Screen) *Adapter {
	return &Adapter{
		handler: handler,
		screen:  screen,
		watched: make(map[key.Identity]bool),
	}
}

// InstallIfAbsent initializes the screen and starts the event loop.
// Idempotent.
func (a *Adapter) InstallIfAbsent() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.installed {
		return nil
	}
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		a.screen = screen
	}
	if err := a.screen.Init(); err != nil {
		return err
	}
	a.installed = true
	go a.poll(a.screen)
	return nil
}

// RemoveIfUnused finalizes the screen when nothing remains watched.
func (a *Adapter) RemoveIfUnused() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.installed || len(a.watched) > 0 || a.text {
		return nil
	}
	a.installed = false
	a.screen.Fini()
	return nil
}

// Watch starts delivering HandleKey events for the identity.
func (a *Adapter) Watch(id key.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.installed {
		return hook.ErrNotInstalled
	}
	if id.Trigger == key.TriggerUp {
		return hook.ErrUnsupported
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

// SendBackspaces replays backspace key events into the screen's event
// queue, mirroring trigger erasure in the terminal.
func (a *Adapter) SendBackspaces(n int) error {
	a.mu.Lock()
	screen := a.screen
	installed := a.installed
	a.mu.Unlock()
	if !installed {
		return hook.ErrNotInstalled
	}
	for range n {
		ev := tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone)
		_ = screen.PostEvent(ev) // best effort; queue may be full
	}
	return nil
}

// poll runs until the screen is finalized.
func (a *Adapter) poll(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			a.deliver(tev)
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

func (a *Adapter) deliver(ev *tcell.EventKey) {
	id, r, printable := identityFor(ev)
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
	if !text {
		return
	}
	if id.Mods.HasCtrl() || id.Mods.HasAlt() || id.Mods.HasWin() {
		return
	}
	if printable {
		a.handler.HandleChar(r)
		return
	}
	a.handler.HandleEndKey(id)
}

// identityFor translates a tcell key event. printable reports whether
// the event types a character.
func identityFor(ev *tcell.EventKey) (key.Identity, rune, bool) {
	id := key.Identity{Trigger: key.TriggerDown}

	m := ev.Modifiers()
	if m&tcell.ModCtrl != 0 {
		id.Mods = id.Mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		id.Mods = id.Mods.With(key.ModAlt)
	}
	if m&tcell.ModShift != 0 {
		id.Mods = id.Mods.With(key.ModShift)
	}
	if m&tcell.ModMeta != 0 {
		id.Mods = id.Mods.With(key.ModWin)
	}

	k := ev.Key()
	if name, ok := namedKeys[k]; ok {
		return key.Identity{Name: name, Mods: id.Mods, Trigger: id.Trigger}, 0, false
	}

	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if !unicode.IsPrint(r) {
			return id, 0, false
		}
		if r == ' ' {
			id.Name = "Space"
		} else {
			id.Name = string(unicode.ToLower(r))
		}
		return id, r, true

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		// Control characters arrive as dedicated keys; fold them back
		// to letter-plus-Ctrl so they match parsed specs like ^j.
		id.Name = string(rune('a' + k - tcell.KeyCtrlA))
		id.Mods = id.Mods.With(key.ModCtrl)
		return id, 0, false
	}
	return id, 0, false
}

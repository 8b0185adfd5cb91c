package registry

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/input/opts"
	"github.com/dshills/hotstorm/internal/proc"
	"github.com/dshills/hotstorm/internal/wincond"
)

// CompositeID is the true uniqueness key for a hotkey binding: key
// identity plus condition-context fingerprint. It is a comparable
// value used directly as a map key.
type CompositeID struct {
	Key  key.Identity
	Cond wincond.Fingerprint
}

// Outcome reports what a registration call did.
type Outcome int

const (
	// Created indicates a new definition was inserted.
	Created Outcome = iota

	// Updated indicates an existing definition was rebound.
	Updated
)

// String returns "Created" or "Updated".
func (o Outcome) String() string {
	if o == Updated {
		return "Updated"
	}
	return "Created"
}

// State is the desired enabled state for SetState.
type State int

const (
	// StateOn enables the binding. Idempotent.
	StateOn State = iota

	// StateOff disables the binding. Idempotent.
	StateOff

	// StateToggle flips the binding's enabled state.
	StateToggle
)

// String returns the state keyword.
func (s State) String() string {
	switch s {
	case StateOff:
		return "Off"
	case StateToggle:
		return "Toggle"
	default:
		return "On"
	}
}

// ParseState interprets a state keyword. Lookup is case-insensitive;
// ok is false for anything but On, Off and Toggle.
func ParseState(s string) (State, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return StateOn, true
	case "off":
		return StateOff, true
	case "toggle":
		return StateToggle, true
	}
	return StateOn, false
}

// HotkeyOptions are per-hotkey behavior options.
type HotkeyOptions struct {
	// Wildcard, PassThrough and ForceHook mirror the key-spec
	// prefixes (*, ~, $).
	Wildcard    bool
	PassThrough bool
	ForceHook   bool

	// Priority orders candidates for the same event. Higher fires
	// first; ties keep registration order. Option "P<n>".
	Priority int

	// SuppressDialog records failures only in the status register
	// instead of raising a user-visible diagnostic. Option "E".
	SuppressDialog bool
}

// parseHotkeyOptions interprets a hotkey option string.
func parseHotkeyOptions(raw string) HotkeyOptions {
	var o HotkeyOptions
	for tok := range opts.Tokenize(raw) {
		switch tok.Letter {
		case 'P':
			if n, ok := tok.Int(); ok {
				o.Priority = n
			}
		case 'E':
			o.SuppressDialog = true
		}
	}
	return o
}

// HotkeyDefinition is a registered hotkey binding. The registry is
// its exclusive owner; outside the registry it is read-only.
type HotkeyDefinition struct {
	id   CompositeID
	cond wincond.Context

	mu        sync.RWMutex
	label     string
	procedure proc.Procedure
	options   HotkeyOptions

	enabled atomic.Bool
}

// ID returns the composite identity.
func (d *HotkeyDefinition) ID() CompositeID {
	return d.id
}

// Identity returns the key identity half of the composite identity.
func (d *HotkeyDefinition) Identity() key.Identity {
	return d.id.Key
}

// Context returns the window condition context.
func (d *HotkeyDefinition) Context() wincond.Context {
	return d.cond
}

// Enabled reports whether the binding may fire.
func (d *HotkeyDefinition) Enabled() bool {
	return d.enabled.Load()
}

// Label returns the label the procedure was resolved from, if any.
func (d *HotkeyDefinition) Label() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.label
}

// Proc returns the bound procedure.
func (d *HotkeyDefinition) Proc() proc.Procedure {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.procedure
}

// Options returns the per-binding options.
func (d *HotkeyDefinition) Options() HotkeyOptions {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.options
}

// rebind replaces the procedure binding and options, preserving
// enabled state and condition. Called with the registry lock held.
func (d *HotkeyDefinition) rebind(label string, p proc.Procedure, o HotkeyOptions) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p != nil {
		d.label = label
		d.procedure = p
	}
	d.options = o
}

// apply sets the enabled state per the requested State.
func (d *HotkeyDefinition) apply(s State) {
	switch s {
	case StateOn:
		d.enabled.Store(true)
	case StateOff:
		d.enabled.Store(false)
	case StateToggle:
		for {
			old := d.enabled.Load()
			if d.enabled.CompareAndSwap(old, !old) {
				return
			}
		}
	}
}

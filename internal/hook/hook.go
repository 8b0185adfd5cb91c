// Package hook defines the contract between the binding registry and
// the platform input hook, plus the event callbacks a running hook
// delivers to the dispatch layer.
//
// Concrete adapters live in subpackages: globalhook (OS registered
// hotkeys), rawhook (low-level keyboard hook with a character
// stream), termhook (terminal backend for dry runs and tests).
package hook

import (
	"errors"

	"github.com/dshills/hotstorm/internal/input/key"
)

// Adapter errors.
var (
	// ErrNotInstalled indicates an operation that requires an
	// installed hook.
	ErrNotInstalled = errors.New("hook: not installed")

	// ErrUnsupported indicates the adapter cannot provide the
	// requested capability (e.g. a character stream from a
	// registered-hotkey backend).
	ErrUnsupported = errors.New("hook: unsupported capability")
)

// Handler receives input events from a running hook. Calls arrive on
// the hook's dispatch goroutine; implementations must be fast and
// must not panic.
type Handler interface {
	// HandleKey is called for every event on a watched identity.
	HandleKey(id key.Identity)

	// HandleChar is called for every typed printable character when
	// the character stream is active.
	HandleChar(r rune)

	// HandleEndKey is called for typed non-printable boundary keys
	// (Enter, Tab, arrows) when the character stream is active.
	HandleEndKey(id key.Identity)
}

// Adapter is the platform input hook as seen by the registry. The
// registry installs the hook lazily on first watch and removes it
// when nothing is watched.
type Adapter interface {
	// InstallIfAbsent installs the underlying OS hook if it is not
	// already installed. Idempotent.
	InstallIfAbsent() error

	// RemoveIfUnused removes the OS hook when no identities or text
	// triggers remain watched. Idempotent.
	RemoveIfUnused() error

	// Watch starts delivering HandleKey events for the identity.
	Watch(id key.Identity) error

	// Unwatch stops delivering events for the identity.
	Unwatch(id key.Identity) error

	// WatchText activates the character stream needed for typed
	// trigger matching. Adapters without a character stream return
	// ErrUnsupported.
	WatchText() error

	// UnwatchText deactivates the character stream.
	UnwatchText() error

	// SendBackspaces synthesizes n backspace keystrokes, used to
	// erase a typed hotstring trigger. Adapters that cannot
	// synthesize input return ErrUnsupported.
	SendBackspaces(n int) error
}

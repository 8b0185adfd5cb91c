// Package globalhook adapts OS-registered global hotkeys
// (golang.design/x/hotkey) to the hook adapter contract. It watches
// individual key identities only; it has no character stream, so
// hotstrings need the rawhook backend.
package globalhook

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/key"
)

// Adapter registers one OS hotkey per watched identity.
type Adapter struct {
	handler hook.Handler

	mu      sync.Mutex
	watched map[key.Identity]*watch
}

type watch struct {
	hk   *hotkey.Hotkey
	stop chan struct{}
}

// New creates an adapter delivering events to handler.
func New(handler hook.Handler) *Adapter {
	return &Adapter{
		handler: handler,
		watched: make(map[key.Identity]*watch),
	}
}

// InstallIfAbsent is a no-op: registration happens per identity.
func (a *Adapter) InstallIfAbsent() error { return nil }

// RemoveIfUnused is a no-op: Unwatch already released each hotkey.
func (a *Adapter) RemoveIfUnused() error { return nil }

// Watch registers the identity as an OS hotkey and starts delivering
// its events.
func (a *Adapter) Watch(id key.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.watched[id]; ok {
		return nil
	}

	mods, err := platformModifiers(id.Mods)
	if err != nil {
		return err
	}
	k, err := platformKey(id.Name)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, k)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("registering %s: %w", id, err)
	}

	w := &watch{hk: hk, stop: make(chan struct{})}
	a.watched[id] = w

	events := hk.Keydown()
	if id.Trigger == key.TriggerUp {
		events = hk.Keyup()
	}
	go func() {
		for {
			select {
			case <-w.stop:
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				a.handler.HandleKey(id)
			}
		}
	}()
	return nil
}

// Unwatch releases the identity's OS hotkey.
func (a *Adapter) Unwatch(id key.Identity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.watched[id]
	if !ok {
		return nil
	}
	delete(a.watched, id)
	close(w.stop)
	return w.hk.Unregister()
}

// WatchText is unsupported: registered hotkeys see no typed text.
func (a *Adapter) WatchText() error { return hook.ErrUnsupported }

// UnwatchText is unsupported.
func (a *Adapter) UnwatchText() error { return hook.ErrUnsupported }

// SendBackspaces is unsupported: this backend cannot synthesize input.
func (a *Adapter) SendBackspaces(int) error { return hook.ErrUnsupported }

// Package app wires the registries, dispatcher, hook backend and
// script engine into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/dshills/hotstorm/internal/config"
	"github.com/dshills/hotstorm/internal/dispatcher"
	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/hook/globalhook"
	"github.com/dshills/hotstorm/internal/hook/rawhook"
	"github.com/dshills/hotstorm/internal/hook/termhook"
	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/proc"
	"github.com/dshills/hotstorm/internal/registry"
	"github.com/dshills/hotstorm/internal/report"
	"github.com/dshills/hotstorm/internal/script"
	"github.com/dshills/hotstorm/internal/wincond"
)

// ErrNoBindings indicates neither a script nor a binding file was
// given.
var ErrNoBindings = errors.New("app: no script or binding file")

// Options configure the application.
type Options struct {
	// ConfigPath is the JSON binding file, optional.
	ConfigPath string

	// ScriptPath is the Lua script defining labels and bindings,
	// optional when ConfigPath is set.
	ScriptPath string

	// Backend selects the hook adapter: "global", "raw" or "term".
	Backend string

	// DryRun validates the script and binding file, prints the
	// resulting bindings, and exits without installing a hook.
	DryRun bool

	// PersistState writes enabled states back to the binding file on
	// shutdown.
	PersistState bool
}

// App owns the wired components.
type App struct {
	opts Options

	status     *report.Status
	labels     *proc.MapResolver
	hotkeys    *registry.Registry
	hotstrings *registry.Hotstrings
	dispatcher *dispatcher.Dispatcher
	engine     *script.Engine

	shutdownOnce sync.Once
}

// handlerProxy breaks the construction cycle between the adapter
// (needs a handler) and the dispatcher (needs registries built over
// the adapter). Events arriving before the target is set are dropped.
type handlerProxy struct {
	mu     sync.RWMutex
	target hook.Handler
}

func (p *handlerProxy) set(h hook.Handler) {
	p.mu.Lock()
	p.target = h
	p.mu.Unlock()
}

func (p *handlerProxy) handler() hook.Handler {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.target
}

func (p *handlerProxy) HandleKey(id key.Identity) {
	if h := p.handler(); h != nil {
		h.HandleKey(id)
	}
}

func (p *handlerProxy) HandleChar(r rune) {
	if h := p.handler(); h != nil {
		h.HandleChar(r)
	}
}

func (p *handlerProxy) HandleEndKey(id key.Identity) {
	if h := p.handler(); h != nil {
		h.HandleEndKey(id)
	}
}

// New builds the application.
func New(opts Options) (*App, error) {
	if opts.ConfigPath == "" && opts.ScriptPath == "" {
		return nil, ErrNoBindings
	}

	status := &report.Status{}
	var notifier report.Notifier = report.Nop{}
	if !opts.DryRun {
		notifier = &report.Desktop{AppName: "hotstorm"}
	}

	proxy := &handlerProxy{}
	adapter, err := newAdapter(opts, proxy)
	if err != nil {
		return nil, err
	}

	labels := proc.NewMapResolver()
	hotkeys := registry.New(adapter, labels, status, notifier)
	hotstrings := registry.NewHotstrings(adapter, labels, status, notifier)

	cfg := dispatcher.DefaultConfig()
	cfg.AsyncInvoke = !opts.DryRun
	d := dispatcher.New(hotkeys, hotstrings, windowQuery(opts), status, cfg)
	proxy.set(d)

	return &App{
		opts:       opts,
		status:     status,
		labels:     labels,
		hotkeys:    hotkeys,
		hotstrings: hotstrings,
		dispatcher: d,
		engine:     script.NewEngine(hotkeys, hotstrings, labels),
	}, nil
}

// newAdapter picks the hook backend. Dry runs never install a hook.
func newAdapter(opts Options, handler hook.Handler) (hook.Adapter, error) {
	if opts.DryRun {
		return nopAdapter{}, nil
	}
	switch opts.Backend {
	case "", "global":
		return globalhook.New(handler), nil
	case "raw":
		return rawhook.New(handler), nil
	case "term":
		return termhook.New(handler, nil), nil
	}
	return nil, fmt.Errorf("app: unknown backend %q", opts.Backend)
}

// windowQuery picks the window oracle. Only the terminal backend has
// no real windows; a platform oracle is not implemented yet, so every
// backend currently gets the no-op query.
//
// TODO: wire a platform window oracle for the raw backend (X11
// _NET_ACTIVE_WINDOW / win32 GetForegroundWindow).
func windowQuery(Options) wincond.WindowQuery {
	return wincond.NopQuery{}
}

// Start loads the script and binding file and begins dispatching.
func (a *App) Start(ctx context.Context) error {
	go a.engine.Run(ctx)

	if a.opts.ScriptPath != "" {
		if err := a.engine.LoadFile(ctx, a.opts.ScriptPath); err != nil {
			return fmt.Errorf("loading script: %w", err)
		}
	}
	if a.opts.ConfigPath != "" {
		f, err := config.Load(a.opts.ConfigPath)
		if err != nil {
			return err
		}
		if err := config.Apply(f, a.hotkeys, a.hotstrings); err != nil {
			return fmt.Errorf("%s: %w", a.opts.ConfigPath, err)
		}
	}

	log.Printf("hotstorm: %d hotkeys, %d hotstrings registered",
		a.hotkeys.Count(), a.hotstrings.Count())
	return nil
}

// Hotkeys returns the hotkey registry.
func (a *App) Hotkeys() *registry.Registry { return a.hotkeys }

// Hotstrings returns the hotstring registry.
func (a *App) Hotstrings() *registry.Hotstrings { return a.hotstrings }

// Dispatcher returns the dispatcher.
func (a *App) Dispatcher() *dispatcher.Dispatcher { return a.dispatcher }

// Shutdown releases the script engine and optionally persists enabled
// states. Safe to call more than once.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.opts.PersistState && a.opts.ConfigPath != "" {
			if err := config.SaveStatesFile(a.opts.ConfigPath, a.hotkeys, a.hotstrings); err != nil {
				log.Printf("hotstorm: persisting states: %v", err)
			}
		}
		a.engine.Close()
	})
}

// nopAdapter satisfies hook.Adapter for dry runs.
type nopAdapter struct{}

func (nopAdapter) InstallIfAbsent() error     { return nil }
func (nopAdapter) RemoveIfUnused() error      { return nil }
func (nopAdapter) Watch(key.Identity) error   { return nil }
func (nopAdapter) Unwatch(key.Identity) error { return nil }
func (nopAdapter) WatchText() error           { return nil }
func (nopAdapter) UnwatchText() error         { return nil }
func (nopAdapter) SendBackspaces(int) error   { return nil }

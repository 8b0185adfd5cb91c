package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/proc"
	"github.com/dshills/hotstorm/internal/report"
	"github.com/dshills/hotstorm/internal/wincond"
)

// Registry maps composite identities to hotkey definitions. It is
// safe for concurrent use: registration calls arrive from the script
// thread while lookups run on the hook thread.
type Registry struct {
	mu sync.RWMutex

	adapter  hook.Adapter
	resolver proc.Resolver
	status   *report.Status
	notifier report.Notifier

	defs  map[CompositeID]*HotkeyDefinition
	byKey map[key.Identity][]*HotkeyDefinition // registration order per base identity
}

// New creates a registry. resolver may be nil when only direct
// procedure binding is used; notifier may be nil to discard
// diagnostics; status may be nil to use a private register.
func New(adapter hook.Adapter, resolver proc.Resolver, status *report.Status, notifier report.Notifier) *Registry {
	if status == nil {
		status = &report.Status{}
	}
	if notifier == nil {
		notifier = report.Nop{}
	}
	return &Registry{
		adapter:  adapter,
		resolver: resolver,
		status:   status,
		notifier: notifier,
		defs:     make(map[CompositeID]*HotkeyDefinition),
		byKey:    make(map[key.Identity][]*HotkeyDefinition),
	}
}

// Status returns the status register registrations report into.
func (r *Registry) Status() *report.Status {
	return r.status
}

// Bind registers a hotkey with a directly supplied procedure. If the
// composite identity (key identity plus condition fingerprint) is
// already registered, the existing definition is rebound and keeps
// its enabled state; otherwise a new enabled definition is inserted
// and the hook adapter starts watching the key.
func (r *Registry) Bind(rawSpec string, p proc.Procedure, options string, cond wincond.Context) (Outcome, error) {
	return r.bind(rawSpec, "", p, options, cond)
}

// BindLabel registers a hotkey whose procedure is resolved from a
// label. Resolution is required only for the first definition of an
// identity: on an existing binding, an empty or stale label degrades
// to an options-only update that keeps the bound procedure.
func (r *Registry) BindLabel(rawSpec, label, options string, cond wincond.Context) (Outcome, error) {
	return r.bind(rawSpec, label, nil, options, cond)
}

// bind is the shared registration path. A nil procedure with no
// resolvable label means options-only update of an existing
// definition.
func (r *Registry) bind(rawSpec, label string, p proc.Procedure, options string, cond wincond.Context) (Outcome, error) {
	o := parseHotkeyOptions(options)

	spec, err := key.Parse(rawSpec)
	if err != nil {
		return 0, r.fail(report.CodeInvalidKeyName, o.SuppressDialog, err)
	}
	o.Wildcard = o.Wildcard || spec.Wildcard
	o.PassThrough = o.PassThrough || spec.PassThrough
	o.ForceHook = o.ForceHook || spec.ForceHook

	id := CompositeID{Key: spec.Identity, Cond: cond.Fingerprint()}

	if p == nil && label != "" && r.resolver != nil {
		p, _ = r.resolver.Resolve(label)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.defs[id]; ok {
		existing.rebind(label, p, o)
		r.status.Set(report.CodeOK)
		return Updated, nil
	}

	if p == nil {
		if label != "" {
			err := fmt.Errorf("%w: %q", ErrUnresolvedLabel, label)
			return 0, r.fail(report.CodeResolutionFailed, o.SuppressDialog, err)
		}
		err := fmt.Errorf("%w: %s", ErrNoProcedure, spec.Identity)
		return 0, r.fail(report.CodeResolutionFailed, o.SuppressDialog, err)
	}

	def := &HotkeyDefinition{
		id:        id,
		cond:      cond,
		label:     label,
		procedure: p,
		options:   o,
	}
	def.enabled.Store(true)

	if err := r.startWatching(spec.Identity); err != nil {
		return 0, r.fail(report.CodeHookFailed, o.SuppressDialog, err)
	}

	r.defs[id] = def
	r.byKey[spec.Identity] = append(r.byKey[spec.Identity], def)
	r.status.Set(report.CodeOK)
	return Created, nil
}

// SetState enables, disables or toggles the binding for the given
// specification and condition context. A state change on an identity
// that was never registered fails with ErrNotFound; it never creates
// a disabled shell.
func (r *Registry) SetState(rawSpec string, cond wincond.Context, s State) error {
	spec, err := key.Parse(rawSpec)
	if err != nil {
		return r.fail(report.CodeInvalidKeyName, false, err)
	}

	id := CompositeID{Key: spec.Identity, Cond: cond.Fingerprint()}

	r.mu.RLock()
	def, ok := r.defs[id]
	r.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotFound, spec.Identity)
		return r.fail(report.CodeNotFound, false, err)
	}

	def.apply(s)
	r.status.Set(report.CodeOK)
	return nil
}

// Unregister removes the binding for the given specification and
// condition context, releasing the hook watch when it was the last
// binding on its key.
func (r *Registry) Unregister(rawSpec string, cond wincond.Context) error {
	spec, err := key.Parse(rawSpec)
	if err != nil {
		return r.fail(report.CodeInvalidKeyName, false, err)
	}

	id := CompositeID{Key: spec.Identity, Cond: cond.Fingerprint()}

	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.defs[id]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotFound, spec.Identity)
		return r.fail(report.CodeNotFound, false, err)
	}

	delete(r.defs, id)
	list := r.byKey[spec.Identity]
	for i, d := range list {
		if d == def {
			r.byKey[spec.Identity] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.byKey[spec.Identity]) == 0 {
		delete(r.byKey, spec.Identity)
		if err := r.adapter.Unwatch(spec.Identity); err != nil {
			return r.fail(report.CodeHookFailed, false, err)
		}
		if len(r.defs) == 0 {
			if err := r.adapter.RemoveIfUnused(); err != nil {
				return r.fail(report.CodeHookFailed, false, err)
			}
		}
	}
	r.status.Set(report.CodeOK)
	return nil
}

// LookupByKey returns all definitions sharing the base key identity,
// in the order the dispatcher evaluates condition contexts: priority
// (higher first), then conditioned definitions before the
// unconditioned fallback, then registration order. A binding whose
// context always holds must not shadow a more specific one that was
// registered later.
func (r *Registry) LookupByKey(id key.Identity) []*HotkeyDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byKey[id]
	if len(list) == 0 {
		return nil
	}
	out := make([]*HotkeyDefinition, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Options().Priority, out[j].Options().Priority
		if pi != pj {
			return pi > pj
		}
		return !out[i].cond.IsEmpty() && out[j].cond.IsEmpty()
	})
	return out
}

// Lookup returns the definition for an exact composite identity.
func (r *Registry) Lookup(id CompositeID) (*HotkeyDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// All returns every definition, ordered by key identity string for
// stable listings.
func (r *Registry) All() []*HotkeyDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*HotkeyDefinition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity().String() < out[j].Identity().String()
	})
	return out
}

// Count returns the number of registered hotkey definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// startWatching installs the hook if needed and watches a newly
// registered identity. Called with the registry lock held.
func (r *Registry) startWatching(id key.Identity) error {
	if len(r.byKey[id]) > 0 {
		return nil // already watched for another condition context
	}
	if err := r.adapter.InstallIfAbsent(); err != nil {
		return fmt.Errorf("installing hook: %w", err)
	}
	if err := r.adapter.Watch(id); err != nil {
		return fmt.Errorf("watching %s: %w", id, err)
	}
	return nil
}

// fail records the code, optionally raises a diagnostic, and returns
// the error unchanged for the caller to surface.
func (r *Registry) fail(code report.Code, suppress bool, err error) error {
	r.status.Set(code)
	if !suppress {
		r.notifier.Notify("Hotkey registration failed", err.Error())
	}
	return err
}

package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dshills/hotstorm/internal/hook"
	"github.com/dshills/hotstorm/internal/input/hotstring"
	"github.com/dshills/hotstorm/internal/proc"
	"github.com/dshills/hotstorm/internal/report"
	"github.com/dshills/hotstorm/internal/wincond"
)

// HotstringID is the uniqueness key for a hotstring binding: the
// matching form of the trigger (exact when case-sensitive, folded
// otherwise), the case mode, and the condition fingerprint.
type HotstringID struct {
	Trigger       string
	CaseSensitive bool
	Cond          wincond.Fingerprint
}

// HotstringBinding is a registered hotstring. The registry is its
// exclusive owner; outside the registry it is read-only.
type HotstringBinding struct {
	id   HotstringID
	def  *hotstring.Definition
	cond wincond.Context

	mu        sync.RWMutex
	label     string
	procedure proc.Procedure

	enabled atomic.Bool
}

// ID returns the composite identity.
func (b *HotstringBinding) ID() HotstringID {
	return b.id
}

// Definition returns the matching half of the binding.
func (b *HotstringBinding) Definition() *hotstring.Definition {
	return b.def
}

// Context returns the window condition context.
func (b *HotstringBinding) Context() wincond.Context {
	return b.cond
}

// Enabled reports whether the binding may fire.
func (b *HotstringBinding) Enabled() bool {
	return b.enabled.Load()
}

// Label returns the label the procedure was resolved from, if any.
func (b *HotstringBinding) Label() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.label
}

// Proc returns the bound procedure.
func (b *HotstringBinding) Proc() proc.Procedure {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.procedure
}

func (b *HotstringBinding) rebind(label string, p proc.Procedure, def *hotstring.Definition) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p != nil {
		b.label = label
		b.procedure = p
	}
	b.def = def
}

func (b *HotstringBinding) apply(s State) {
	switch s {
	case StateOn:
		b.enabled.Store(true)
	case StateOff:
		b.enabled.Store(false)
	case StateToggle:
		for {
			old := b.enabled.Load()
			if b.enabled.CompareAndSwap(old, !old) {
				return
			}
		}
	}
}

// Hotstrings maps hotstring identities to bindings, with the same
// ownership and atomic-registration rules as the hotkey Registry.
type Hotstrings struct {
	mu sync.RWMutex

	adapter  hook.Adapter
	resolver proc.Resolver
	status   *report.Status
	notifier report.Notifier

	defs  map[HotstringID]*HotstringBinding
	order []*HotstringBinding
}

// NewHotstrings creates a hotstring registry.
func NewHotstrings(adapter hook.Adapter, resolver proc.Resolver, status *report.Status, notifier report.Notifier) *Hotstrings {
	if status == nil {
		status = &report.Status{}
	}
	if notifier == nil {
		notifier = report.Nop{}
	}
	return &Hotstrings{
		adapter:  adapter,
		resolver: resolver,
		status:   status,
		notifier: notifier,
		defs:     make(map[HotstringID]*HotstringBinding),
	}
}

// Add registers a hotstring with a directly supplied procedure.
func (h *Hotstrings) Add(trigger string, p proc.Procedure, options string, cond wincond.Context) (Outcome, error) {
	return h.add(trigger, "", p, options, cond)
}

// AddLabel registers a hotstring whose procedure is resolved from a
// label. Resolution is required only for the first definition of an
// identity: on an existing binding, an empty or stale label degrades
// to an options-only update that keeps the bound procedure.
func (h *Hotstrings) AddLabel(trigger, label, options string, cond wincond.Context) (Outcome, error) {
	return h.add(trigger, label, nil, options, cond)
}

func (h *Hotstrings) add(trigger, label string, p proc.Procedure, options string, cond wincond.Context) (Outcome, error) {
	o := hotstring.ParseOptions(options)
	def, err := hotstring.New(trigger, o)
	if err != nil {
		return 0, h.fail(report.CodeInvalidKeyName, err)
	}

	id := hotstringID(def, cond)

	if p == nil && label != "" && h.resolver != nil {
		p, _ = h.resolver.Resolve(label)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.defs[id]; ok {
		existing.rebind(label, p, def)
		h.status.Set(report.CodeOK)
		return Updated, nil
	}

	if p == nil {
		if label != "" {
			err := fmt.Errorf("%w: %q", ErrUnresolvedLabel, label)
			return 0, h.fail(report.CodeResolutionFailed, err)
		}
		err := fmt.Errorf("%w: %q", ErrNoProcedure, trigger)
		return 0, h.fail(report.CodeResolutionFailed, err)
	}

	b := &HotstringBinding{
		id:        id,
		def:       def,
		cond:      cond,
		label:     label,
		procedure: p,
	}
	b.enabled.Store(true)

	if len(h.defs) == 0 {
		if err := h.adapter.InstallIfAbsent(); err != nil {
			return 0, h.fail(report.CodeHookFailed, fmt.Errorf("installing hook: %w", err))
		}
		if err := h.adapter.WatchText(); err != nil {
			return 0, h.fail(report.CodeHookFailed, fmt.Errorf("watching text input: %w", err))
		}
	}

	h.defs[id] = b
	h.order = append(h.order, b)
	h.status.Set(report.CodeOK)
	return Created, nil
}

// SetState enables, disables or toggles a hotstring. The options
// string is consulted only for the case mode, which is part of the
// binding identity.
func (h *Hotstrings) SetState(trigger, options string, cond wincond.Context, s State) error {
	o := hotstring.ParseOptions(options)
	def, err := hotstring.New(trigger, o)
	if err != nil {
		return h.fail(report.CodeInvalidKeyName, err)
	}

	h.mu.RLock()
	b, ok := h.defs[hotstringID(def, cond)]
	h.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("%w: %q", ErrNotFound, trigger)
		return h.fail(report.CodeNotFound, err)
	}

	b.apply(s)
	h.status.Set(report.CodeOK)
	return nil
}

// Remove unregisters a hotstring, releasing the text watch when it
// was the last one.
func (h *Hotstrings) Remove(trigger, options string, cond wincond.Context) error {
	o := hotstring.ParseOptions(options)
	def, err := hotstring.New(trigger, o)
	if err != nil {
		return h.fail(report.CodeInvalidKeyName, err)
	}
	id := hotstringID(def, cond)

	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.defs[id]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrNotFound, trigger)
		return h.fail(report.CodeNotFound, err)
	}

	delete(h.defs, id)
	for i, x := range h.order {
		if x == b {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	if len(h.defs) == 0 {
		if err := h.adapter.UnwatchText(); err != nil {
			return h.fail(report.CodeHookFailed, err)
		}
		if err := h.adapter.RemoveIfUnused(); err != nil {
			return h.fail(report.CodeHookFailed, err)
		}
	}
	h.status.Set(report.CodeOK)
	return nil
}

// All returns every binding in candidate order: priority (higher
// first), then conditioned bindings before unconditioned ones, then
// registration order.
func (h *Hotstrings) All() []*HotstringBinding {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*HotstringBinding, len(h.order))
	copy(out, h.order)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].def.Opts.Priority, out[j].def.Opts.Priority
		if pi != pj {
			return pi > pj
		}
		return !out[i].cond.IsEmpty() && out[j].cond.IsEmpty()
	})
	return out
}

// Lookup finds the binding for a trigger, case mode and context. The
// options string is consulted only for the case mode.
func (h *Hotstrings) Lookup(trigger, options string, cond wincond.Context) (*HotstringBinding, bool) {
	o := hotstring.ParseOptions(options)
	def, err := hotstring.New(trigger, o)
	if err != nil {
		return nil, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.defs[hotstringID(def, cond)]
	return b, ok
}

// Adapter returns the hook adapter, used by the match engine to
// erase typed triggers.
func (h *Hotstrings) Adapter() hook.Adapter {
	return h.adapter
}

// Count returns the number of registered hotstrings.
func (h *Hotstrings) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.defs)
}

func hotstringID(def *hotstring.Definition, cond wincond.Context) HotstringID {
	trigger := def.Folded()
	if def.Opts.CaseSensitive {
		trigger = def.Trigger
	}
	return HotstringID{
		Trigger:       trigger,
		CaseSensitive: def.Opts.CaseSensitive,
		Cond:          cond.Fingerprint(),
	}
}

func (h *Hotstrings) fail(code report.Code, err error) error {
	h.status.Set(code)
	h.notifier.Notify("Hotstring registration failed", err.Error())
	return err
}

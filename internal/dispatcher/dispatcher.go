package dispatcher

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/proc"
	"github.com/dshills/hotstorm/internal/registry"
	"github.com/dshills/hotstorm/internal/report"
	"github.com/dshills/hotstorm/internal/wincond"
)

// Outcome is the terminal state of dispatching one input event.
type Outcome int

const (
	// Ignored: no binding fired; the native keystroke proceeds.
	Ignored Outcome = iota

	// Invoked: a pass-through binding fired; the native keystroke
	// still proceeds.
	Invoked

	// Suppressed: a binding fired and the native keystroke must be
	// swallowed by the hook.
	Suppressed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Invoked:
		return "Invoked"
	case Suppressed:
		return "Suppressed"
	default:
		return "Ignored"
	}
}

// Config controls dispatch behavior.
type Config struct {
	// RecoverFromPanic contains procedure panics at the dispatch
	// boundary instead of crashing the hook thread.
	RecoverFromPanic bool

	// AsyncInvoke runs procedures off the hook thread. Repeated
	// triggers of one binding never overlap: at most one invocation
	// is in flight per binding, one trigger is queued behind it, and
	// further triggers are dropped.
	AsyncInvoke bool

	// EnableMetrics collects per-binding dispatch statistics.
	EnableMetrics bool
}

// DefaultConfig returns the default dispatch configuration.
func DefaultConfig() Config {
	return Config{RecoverFromPanic: true, EnableMetrics: true}
}

// Dispatcher routes hook events to registered bindings.
type Dispatcher struct {
	hotkeys *registry.Registry
	windows wincond.WindowQuery
	status  *report.Status
	config  Config
	metrics *Metrics

	text *textMatcher

	mu    sync.Mutex
	gates map[any]*gate
}

// New creates a dispatcher over the given registries. hotstrings may
// be nil when only hotkeys are used; status may be nil for a private
// register.
func New(hotkeys *registry.Registry, hotstrings *registry.Hotstrings, windows wincond.WindowQuery, status *report.Status, config Config) *Dispatcher {
	if status == nil {
		status = &report.Status{}
	}
	d := &Dispatcher{
		hotkeys: hotkeys,
		windows: windows,
		status:  status,
		config:  config,
		gates:   make(map[any]*gate),
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	if hotstrings != nil {
		d.text = newTextMatcher(d, hotstrings)
	}
	return d
}

// Metrics returns the metrics collector, nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Status returns the status register dispatch failures report into.
func (d *Dispatcher) Status() *report.Status {
	return d.status
}

// DispatchKey resolves and fires the binding for a key event.
// Candidates are evaluated in candidate order; the first enabled
// binding whose condition context holds wins.
func (d *Dispatcher) DispatchKey(id key.Identity) Outcome {
	for _, def := range d.hotkeys.LookupByKey(id) {
		if !def.Enabled() {
			continue
		}
		if !def.Context().Evaluate(d.windows) {
			continue
		}
		d.run(def.Identity().String(), def.ID(), def.Proc())
		if def.Options().PassThrough {
			return Invoked
		}
		return Suppressed
	}
	return Ignored
}

// HandleKey implements hook.Handler.
func (d *Dispatcher) HandleKey(id key.Identity) {
	d.DispatchKey(id)
}

// HandleChar implements hook.Handler: feeds the hotstring matcher.
func (d *Dispatcher) HandleChar(r rune) {
	if d.text != nil {
		d.text.typeChar(r, time.Now())
	}
}

// HandleEndKey implements hook.Handler: non-printable boundary keys
// invalidate or edit the typed-text window.
func (d *Dispatcher) HandleEndKey(id key.Identity) {
	if d.text != nil {
		d.text.endKey(id)
	}
}

// run invokes a procedure under the configured policy. gateKey
// identifies the binding for the no-overlap guarantee.
func (d *Dispatcher) run(name string, gateKey any, p proc.Procedure) {
	if p == nil {
		return
	}
	if !d.config.AsyncInvoke {
		d.execute(name, p)
		return
	}
	d.trigger(gateKey, func() {
		d.execute(name, p)
	})
}

// execute runs a procedure to completion, containing errors and
// panics at the dispatch boundary.
func (d *Dispatcher) execute(name string, p proc.Procedure) {
	start := time.Now()
	err := d.call(name, p)
	if err != nil {
		d.status.Set(report.CodeInvokeFailed)
	}
	if d.metrics != nil {
		d.metrics.RecordDispatch(name, time.Since(start), err)
	}
}

func (d *Dispatcher) call(name string, p proc.Procedure) (err error) {
	if d.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)
				err = fmt.Errorf("procedure panic for %s: %v\n%s", name, r, stack[:n])
				if d.metrics != nil {
					d.metrics.RecordPanic(name)
				}
			}
		}()
	}
	return p()
}

// trigger hands work to the binding's gate: at most one invocation in
// flight per binding, one queued behind it, the rest dropped. A gate
// exists only while its binding has work; the worker removes it on the
// way out, so unregistered bindings leave nothing behind.
func (d *Dispatcher) trigger(gateKey any, run func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.gates[gateKey]
	if !ok {
		g = &gate{}
		d.gates[gateKey] = g
	}
	if g.inFlight {
		g.pending = true // queue one; additional triggers collapse here
		return
	}
	g.inFlight = true
	go d.drain(gateKey, g, run)
}

// drain runs the gated work and any trigger queued behind it, then
// retires the gate.
func (d *Dispatcher) drain(gateKey any, g *gate, run func()) {
	for {
		run()
		d.mu.Lock()
		if g.pending {
			g.pending = false
			d.mu.Unlock()
			continue
		}
		delete(d.gates, gateKey)
		d.mu.Unlock()
		return
	}
}

// gate serializes invocations of one binding. Guarded by the
// dispatcher's mutex.
type gate struct {
	inFlight bool
	pending  bool
}

package wincond

// Pending accumulates condition declarations for subsequent binding
// registrations. It replaces the hidden process-global "condition in
// effect" slot: each registration front-end owns a Pending and
// threads snapshots of it through registration calls.
//
// Declarations accumulate across slots and persist until overwritten
// or cleared; registering a binding does not consume them.
//
// Pending is not safe for concurrent use; each front-end (script
// interpreter, config loader) owns its own.
type Pending struct {
	ctx Context
}

// Declare writes criteria into the slot for kind, preserving the
// other slots. Declaring with empty title and text clears the slot.
func (p *Pending) Declare(k Kind, title, text string) {
	if k >= numKinds {
		return
	}
	p.ctx.slots[k] = Criteria{Title: title, Text: text}
}

// Clear resets all slots to unconstrained.
func (p *Pending) Clear() {
	p.ctx = Context{}
}

// Snapshot returns the accumulated context as an immutable value.
func (p *Pending) Snapshot() Context {
	return p.ctx
}

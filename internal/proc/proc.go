// Package proc defines the procedure abstraction bound to hotkeys and
// hotstrings, and the resolver that turns textual labels into
// invocable procedures.
package proc

import "sync"

// Procedure is an invocable binding target. Implementations run to
// completion; an error return is recorded by the dispatcher but never
// aborts the hook thread.
type Procedure func() error

// Resolver resolves a textual label to a procedure. ok is false when
// the label does not resolve.
type Resolver interface {
	Resolve(label string) (Procedure, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(label string) (Procedure, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(label string) (Procedure, bool) {
	return f(label)
}

// MapResolver resolves labels from an in-memory table. Safe for
// concurrent use.
type MapResolver struct {
	mu    sync.RWMutex
	procs map[string]Procedure
}

// NewMapResolver creates an empty map resolver.
func NewMapResolver() *MapResolver {
	return &MapResolver{procs: make(map[string]Procedure)}
}

// Define registers a procedure under a label, replacing any previous
// definition.
func (m *MapResolver) Define(label string, p Procedure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.procs[label] = p
}

// Undefine removes a label.
func (m *MapResolver) Undefine(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.procs, label)
}

// Resolve implements Resolver.
func (m *MapResolver) Resolve(label string) (Procedure, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.procs[label]
	return p, ok
}

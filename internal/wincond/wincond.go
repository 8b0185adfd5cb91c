// Package wincond models window-context preconditions for bindings.
//
// A Context holds up to four independent predicates over the desktop
// window state: active-match, exist-match, active-nonmatch and
// exist-nonmatch. A binding carrying a Context is eligible to fire
// only while the Context evaluates true against a WindowQuery.
package wincond

import (
	"encoding/binary"
	"hash/fnv"
	"strings"
)

// Kind identifies one of the four predicate slots.
type Kind uint8

const (
	// ActiveMatch requires a matching window to be active.
	ActiveMatch Kind = iota

	// ExistMatch requires a matching window to exist.
	ExistMatch

	// ActiveNonMatch requires that no matching window is active.
	ActiveNonMatch

	// ExistNonMatch requires that no matching window exists.
	ExistNonMatch

	numKinds
)

// String returns the directive-style name of the kind.
func (k Kind) String() string {
	switch k {
	case ActiveMatch:
		return "IfWinActive"
	case ExistMatch:
		return "IfWinExist"
	case ActiveNonMatch:
		return "IfWinNotActive"
	case ExistNonMatch:
		return "IfWinNotExist"
	default:
		return "IfUnknown"
	}
}

// Criteria is a (title, text) window match pattern. The zero value
// means the slot is unconstrained.
type Criteria struct {
	Title string
	Text  string
}

// IsZero reports whether the criteria places no constraint.
func (c Criteria) IsZero() bool {
	return c.Title == "" && c.Text == ""
}

// WindowQuery answers window-state questions. Implementations must be
// fast and side-effect free; they are called on the hook thread.
type WindowQuery interface {
	// ActiveMatches reports whether the active window matches.
	ActiveMatches(title, text string) bool

	// ExistsMatching reports whether any window matches.
	ExistsMatching(title, text string) bool
}

// Fingerprint is a stable hash of a Context's slot contents. Contexts
// with identical slots fingerprint identically regardless of the
// order their slots were declared. The all-empty context is always
// FingerprintNone.
type Fingerprint uint64

// FingerprintNone is the canonical fingerprint of the unconditioned
// context, so unconditioned bindings share one identity.
const FingerprintNone Fingerprint = 0

// Context is an immutable snapshot of the four predicate slots.
// It is a comparable value; use Fingerprint for compact identity.
type Context struct {
	slots [numKinds]Criteria
}

// Slot returns the criteria in the given slot.
func (c Context) Slot(k Kind) Criteria {
	if k >= numKinds {
		return Criteria{}
	}
	return c.slots[k]
}

// IsEmpty reports whether all four slots are unconstrained.
func (c Context) IsEmpty() bool {
	for _, s := range c.slots {
		if !s.IsZero() {
			return false
		}
	}
	return true
}

// Fingerprint returns the stable hash of the slot contents.
func (c Context) Fingerprint() Fingerprint {
	if c.IsEmpty() {
		return FingerprintNone
	}

	h := fnv.New64a()
	var kind [1]byte
	var length [4]byte
	for k, s := range c.slots {
		kind[0] = byte(k)
		h.Write(kind[:])
		binary.LittleEndian.PutUint32(length[:], uint32(len(s.Title)))
		h.Write(length[:])
		h.Write([]byte(s.Title))
		binary.LittleEndian.PutUint32(length[:], uint32(len(s.Text)))
		h.Write(length[:])
		h.Write([]byte(s.Text))
	}

	fp := Fingerprint(h.Sum64())
	if fp == FingerprintNone {
		fp = 1 // reserve 0 for the empty context
	}
	return fp
}

// Evaluate checks all constrained slots against q in fixed order:
// ActiveMatch, ExistMatch, ActiveNonMatch, ExistNonMatch. Evaluation
// short-circuits on the first failing slot. An empty context is
// unconditionally true.
func (c Context) Evaluate(q WindowQuery) bool {
	if s := c.slots[ActiveMatch]; !s.IsZero() {
		if !q.ActiveMatches(s.Title, s.Text) {
			return false
		}
	}
	if s := c.slots[ExistMatch]; !s.IsZero() {
		if !q.ExistsMatching(s.Title, s.Text) {
			return false
		}
	}
	if s := c.slots[ActiveNonMatch]; !s.IsZero() {
		if q.ActiveMatches(s.Title, s.Text) {
			return false
		}
	}
	if s := c.slots[ExistNonMatch]; !s.IsZero() {
		if q.ExistsMatching(s.Title, s.Text) {
			return false
		}
	}
	return true
}

// String returns a compact description for diagnostics.
func (c Context) String() string {
	if c.IsEmpty() {
		return "unconditioned"
	}
	var parts []string
	for k := Kind(0); k < numKinds; k++ {
		if s := c.slots[k]; !s.IsZero() {
			parts = append(parts, k.String()+"("+s.Title+","+s.Text+")")
		}
	}
	return strings.Join(parts, " ")
}

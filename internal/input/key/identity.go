package key

import "strings"

// Trigger selects whether a binding fires on key press or release.
type Trigger uint8

const (
	// TriggerDown fires when the key is pressed. The default.
	TriggerDown Trigger = iota

	// TriggerUp fires when the key is released.
	TriggerUp
)

// String returns "Down" or "Up".
func (t Trigger) String() string {
	if t == TriggerUp {
		return "Up"
	}
	return "Down"
}

// Identity is the canonical identity of a physical key plus its
// required modifiers and trigger style. It is an immutable value;
// equality is structural, so Identity is usable as a map key.
type Identity struct {
	// Name is the canonical base key: a single lowercase character
	// ("a", ";"), a named key ("F1", "Space"), or a virtual-key
	// token ("VK1B").
	Name string

	// Mods is the required modifier set.
	Mods Modifier

	// Trigger selects press or release activation.
	Trigger Trigger
}

// String returns the canonical specification form, e.g. "^!a" or
// "#Space Up".
func (id Identity) String() string {
	var sb strings.Builder
	sb.WriteString(id.Mods.Symbols())
	sb.WriteString(id.Name)
	if id.Trigger == TriggerUp {
		sb.WriteString(" Up")
	}
	return sb.String()
}

// IsVirtualKey reports whether the base key is an explicit VKnn token.
func (id Identity) IsVirtualKey() bool {
	return strings.HasPrefix(id.Name, "VK")
}

// Rune returns the base character and true when the base key is a
// single character, (0, false) otherwise.
func (id Identity) Rune() (rune, bool) {
	r := []rune(id.Name)
	if len(r) == 1 {
		return r[0], true
	}
	return 0, false
}

// Spec is a fully parsed hotkey specification: the key identity plus
// the behavior flags that are not part of the identity proper.
type Spec struct {
	Identity Identity

	// Wildcard fires even when extra modifiers are held (*).
	Wildcard bool

	// PassThrough lets the native key function proceed (~).
	PassThrough bool

	// ForceHook requires the low-level hook implementation ($).
	ForceHook bool
}

package key

import "strings"

// Modifier is a bitset of modifier keys. Neutral bits match either
// hand; sided bits match only the named hand. A specification sets
// exactly one of the neutral or sided bit per modifier.
type Modifier uint16

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModCtrl indicates either Control key.
	ModCtrl Modifier = 1 << iota

	// ModAlt indicates either Alt key.
	ModAlt

	// ModShift indicates either Shift key.
	ModShift

	// ModWin indicates either Win (Super/Cmd) key.
	ModWin

	// Sided variants.
	ModLCtrl
	ModRCtrl
	ModLAlt
	ModRAlt
	ModLShift
	ModRShift
	ModLWin
	ModRWin
)

// Has returns true if m contains the specified modifier bit.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasCtrl returns true if any Control bit is set.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl | ModLCtrl | ModRCtrl)
}

// HasAlt returns true if any Alt bit is set.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt | ModLAlt | ModRAlt)
}

// HasShift returns true if any Shift bit is set.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift | ModLShift | ModRShift)
}

// HasWin returns true if any Win bit is set.
func (m Modifier) HasWin() bool {
	return m.Has(ModWin | ModLWin | ModRWin)
}

// With returns a new Modifier with the specified bit added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified bit removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// modifierNames is ordered to produce a stable String form.
var modifierNames = []struct {
	bit  Modifier
	name string
}{
	{ModLCtrl, "LCtrl"},
	{ModRCtrl, "RCtrl"},
	{ModCtrl, "Ctrl"},
	{ModLAlt, "LAlt"},
	{ModRAlt, "RAlt"},
	{ModAlt, "Alt"},
	{ModLShift, "LShift"},
	{ModRShift, "RShift"},
	{ModShift, "Shift"},
	{ModLWin, "LWin"},
	{ModRWin, "RWin"},
	{ModWin, "Win"},
}

// String returns a human-readable representation like "Ctrl+Alt" or
// "LCtrl+Shift". Empty for ModNone.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	for _, mn := range modifierNames {
		if m.Has(mn.bit) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// Symbols returns the hotkey-prefix form, e.g. "<^!" for LCtrl+Alt.
func (m Modifier) Symbols() string {
	var sb strings.Builder
	write := func(neutral, left, right Modifier, sym byte) {
		switch {
		case m.Has(left):
			sb.WriteByte('<')
			sb.WriteByte(sym)
		case m.Has(right):
			sb.WriteByte('>')
			sb.WriteByte(sym)
		case m.Has(neutral):
			sb.WriteByte(sym)
		}
	}
	write(ModCtrl, ModLCtrl, ModRCtrl, '^')
	write(ModAlt, ModLAlt, ModRAlt, '!')
	write(ModShift, ModLShift, ModRShift, '+')
	write(ModWin, ModLWin, ModRWin, '#')
	return sb.String()
}

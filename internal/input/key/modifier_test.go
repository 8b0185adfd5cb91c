package key

import "testing"

func TestModifierHas(t *testing.T) {
	m := ModCtrl | ModLAlt

	if !m.HasCtrl() {
		t.Error("HasCtrl = false")
	}
	if !m.HasAlt() {
		t.Error("HasAlt = false (sided bit should count)")
	}
	if m.HasShift() {
		t.Error("HasShift = true")
	}
	if m.HasWin() {
		t.Error("HasWin = true")
	}
}

func TestModifierWithWithout(t *testing.T) {
	m := ModNone.With(ModShift).With(ModRWin)
	if !m.HasShift() || !m.HasWin() {
		t.Errorf("With failed: %v", m)
	}
	m = m.Without(ModShift)
	if m.HasShift() {
		t.Errorf("Without failed: %v", m)
	}
	if !m.HasWin() {
		t.Errorf("Without removed unrelated bit: %v", m)
	}
}

func TestModifierSymbols(t *testing.T) {
	tests := []struct {
		mods Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "^"},
		{ModCtrl | ModAlt, "^!"},
		{ModLCtrl, "<^"},
		{ModRAlt | ModShift, ">!+"},
		{ModWin, "#"},
	}

	for _, tt := range tests {
		if got := tt.mods.Symbols(); got != tt.want {
			t.Errorf("Symbols(%v) = %q, want %q", tt.mods, got, tt.want)
		}
	}
}

func TestModifierString(t *testing.T) {
	if got := (ModLCtrl | ModShift).String(); got != "LCtrl+Shift" {
		t.Errorf("String = %q, want LCtrl+Shift", got)
	}
	if got := ModNone.String(); got != "" {
		t.Errorf("String(ModNone) = %q, want empty", got)
	}
}

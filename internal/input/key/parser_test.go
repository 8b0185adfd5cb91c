package key

import (
	"errors"
	"testing"
)

func TestParseSingleCharacter(t *testing.T) {
	tests := []struct {
		spec     string
		wantName string
	}{
		{"a", "a"},
		{"A", "a"},
		{"1", "1"},
		{";", ";"},
		{"^", "^"}, // lone symbol is a literal key
	}

	for _, tt := range tests {
		spec, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if spec.Identity.Name != tt.wantName {
			t.Errorf("Parse(%q) name = %q, want %q", tt.spec, spec.Identity.Name, tt.wantName)
		}
		if spec.Identity.Mods != ModNone {
			t.Errorf("Parse(%q) mods = %v, want none", tt.spec, spec.Identity.Mods)
		}
	}
}

func TestParseNamedKeys(t *testing.T) {
	tests := []struct {
		spec     string
		wantName string
	}{
		{"Enter", "Enter"},
		{"enter", "Enter"},
		{"Escape", "Escape"},
		{"esc", "Escape"},
		{"Space", "Space"},
		{"F1", "F1"},
		{"f12", "F12"},
		{"F24", "F24"},
		{"PgUp", "PageUp"},
		{"NumpadEnter", "NumpadEnter"},
	}

	for _, tt := range tests {
		spec, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if spec.Identity.Name != tt.wantName {
			t.Errorf("Parse(%q) name = %q, want %q", tt.spec, spec.Identity.Name, tt.wantName)
		}
	}
}

func TestParseModifierPrefixes(t *testing.T) {
	tests := []struct {
		spec     string
		wantName string
		wantMods Modifier
	}{
		{"^a", "a", ModCtrl},
		{"!a", "a", ModAlt},
		{"+a", "a", ModShift},
		{"#Space", "Space", ModWin},
		{"^!a", "a", ModCtrl | ModAlt},
		{"^+!#x", "x", ModCtrl | ModShift | ModAlt | ModWin},
		{"<^j", "j", ModLCtrl},
		{">!F4", "F4", ModRAlt},
		{"<^>!a", "a", ModLCtrl | ModRAlt},
		{"<#Tab", "Tab", ModLWin},
	}

	for _, tt := range tests {
		spec, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if spec.Identity.Name != tt.wantName {
			t.Errorf("Parse(%q) name = %q, want %q", tt.spec, spec.Identity.Name, tt.wantName)
		}
		if spec.Identity.Mods != tt.wantMods {
			t.Errorf("Parse(%q) mods = %v, want %v", tt.spec, spec.Identity.Mods, tt.wantMods)
		}
	}
}

func TestParseBehaviorPrefixes(t *testing.T) {
	spec, err := Parse("*~$^F1")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if !spec.Wildcard {
		t.Error("Wildcard not set")
	}
	if !spec.PassThrough {
		t.Error("PassThrough not set")
	}
	if !spec.ForceHook {
		t.Error("ForceHook not set")
	}
	if spec.Identity.Mods != ModCtrl {
		t.Errorf("mods = %v, want Ctrl", spec.Identity.Mods)
	}
	if spec.Identity.Name != "F1" {
		t.Errorf("name = %q, want F1", spec.Identity.Name)
	}
}

func TestParseVirtualKeyTokens(t *testing.T) {
	tests := []struct {
		spec     string
		wantName string
	}{
		{"VK1B", "VK1B"},
		{"vk1b", "VK1B"},
		{"^VK0D", "VK0D"},
	}

	for _, tt := range tests {
		spec, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if spec.Identity.Name != tt.wantName {
			t.Errorf("Parse(%q) name = %q, want %q", tt.spec, spec.Identity.Name, tt.wantName)
		}
		if !spec.Identity.IsVirtualKey() {
			t.Errorf("Parse(%q) IsVirtualKey = false", tt.spec)
		}
	}
}

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		spec        string
		wantTrigger Trigger
	}{
		{"^j", TriggerDown},
		{"^j Up", TriggerUp},
		{"^j up", TriggerUp},
		{"F1 Down", TriggerDown},
		{"#Space Up", TriggerUp},
	}

	for _, tt := range tests {
		spec, err := Parse(tt.spec)
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.spec, err)
			continue
		}
		if spec.Identity.Trigger != tt.wantTrigger {
			t.Errorf("Parse(%q) trigger = %v, want %v", tt.spec, spec.Identity.Trigger, tt.wantTrigger)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"NotAKey",
		"^NotAKey",
		"VKZZ",
		"VK12345",
		"<<^j",
		"<j2x", // dangling side selector never resolved
		"F1 Sideways",
	}

	for _, spec := range tests {
		if _, err := Parse(spec); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", spec)
		} else if !errors.Is(err, ErrInvalidKeyName) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidKeyName", spec, err)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	specs := []string{"^!a", "#Space", "<^j", "F1 Up", "VK1B"}

	for _, s := range specs {
		spec, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", s, err)
		}
		again, err := Parse(spec.Identity.String())
		if err != nil {
			t.Fatalf("reparse of %q (%q) error = %v", s, spec.Identity.String(), err)
		}
		if again.Identity != spec.Identity {
			t.Errorf("round trip of %q: %+v != %+v", s, again.Identity, spec.Identity)
		}
	}
}

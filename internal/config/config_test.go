package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/proc"
	"github.com/dshills/hotstorm/internal/registry"
	"github.com/dshills/hotstorm/internal/wincond"
)

type stubAdapter struct{}

func (stubAdapter) InstallIfAbsent() error     { return nil }
func (stubAdapter) RemoveIfUnused() error      { return nil }
func (stubAdapter) Watch(key.Identity) error   { return nil }
func (stubAdapter) Unwatch(key.Identity) error { return nil }
func (stubAdapter) WatchText() error           { return nil }
func (stubAdapter) UnwatchText() error         { return nil }
func (stubAdapter) SendBackspaces(int) error   { return nil }

const sampleDoc = `{
  "hotkeys": [
    {"key": "^j", "label": "Greet", "options": "P2"},
    {"key": "F1", "label": "Help",
     "when": {"active": {"title": "Notepad", "text": "draft"}}},
    {"key": "#n", "label": "NewNote", "enabled": false}
  ],
  "hotstrings": [
    {"trigger": "btw", "label": "ExpandBtw", "options": "*"},
    {"trigger": "sig", "label": "Signature",
     "when": {"not_active": "Terminal"}}
  ]
}`

func TestParseSampleDocument(t *testing.T) {
	f, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if len(f.Hotkeys) != 3 || len(f.Hotstrings) != 2 {
		t.Fatalf("parsed %d hotkeys, %d hotstrings", len(f.Hotkeys), len(f.Hotstrings))
	}

	if f.Hotkeys[0].Options != "P2" {
		t.Errorf("options = %q, want P2", f.Hotkeys[0].Options)
	}
	if !f.Hotkeys[0].Enabled || f.Hotkeys[2].Enabled {
		t.Error("enabled defaults and overrides not applied")
	}

	when := f.Hotkeys[1].When
	if got := when.Slot(wincond.ActiveMatch); got.Title != "Notepad" || got.Text != "draft" {
		t.Errorf("active slot = %+v", got)
	}
	if f.Hotkeys[0].When != (wincond.Context{}) {
		t.Error("unconditioned entry should carry the empty context")
	}

	// String shorthand sets only the title.
	if got := f.Hotstrings[1].When.Slot(wincond.ActiveNonMatch); got.Title != "Terminal" || got.Text != "" {
		t.Errorf("not_active slot = %+v", got)
	}
}

func TestParseCollectsValidationErrors(t *testing.T) {
	doc := `{
	  "hotkeys": [
	    {"label": "NoKey"},
	    {"key": "NotAKey", "label": "Bad"},
	    {"key": "^j"}
	  ],
	  "hotstrings": [
	    {"trigger": "", "label": "Empty"}
	  ]
	}`

	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected validation errors")
	}
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T", err)
	}
	if len(verrs.Errors) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(verrs.Errors), err)
	}

	// Every failure names the offending path.
	for _, want := range []string{"hotkeys.0.key", "hotkeys.1.key", "hotkeys.2.label", "hotstrings.0.trigger"} {
		found := false
		for _, ve := range verrs.Errors {
			if ve.Path == want {
				found = true
			}
		}
		if !found {
			t.Errorf("no error for path %s in %v", want, err)
		}
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	if _, err := Parse([]byte("{not json")); !errors.Is(err, ErrNotJSON) {
		t.Errorf("error = %v, want ErrNotJSON", err)
	}
	if _, err := Parse([]byte(`[1, 2]`)); err == nil {
		t.Error("expected an error for a non-object root")
	}
	if _, err := Parse([]byte(`{"hotkeys": 7}`)); err == nil {
		t.Error("expected an error for a non-array hotkeys value")
	}
}

func newRegistries() (*registry.Registry, *registry.Hotstrings, *proc.MapResolver) {
	labels := proc.NewMapResolver()
	return registry.New(stubAdapter{}, labels, nil, nil),
		registry.NewHotstrings(stubAdapter{}, labels, nil, nil),
		labels
}

func TestApplyBindsEntries(t *testing.T) {
	hotkeys, hotstrings, labels := newRegistries()
	for _, name := range []string{"Greet", "Help", "NewNote", "ExpandBtw", "Signature"} {
		labels.Define(name, func() error { return nil })
	}

	f, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(f, hotkeys, hotstrings); err != nil {
		t.Fatalf("Apply error = %v", err)
	}

	if hotkeys.Count() != 3 || hotstrings.Count() != 2 {
		t.Fatalf("bound %d hotkeys, %d hotstrings", hotkeys.Count(), hotstrings.Count())
	}
	def, ok := hotkeys.Lookup(registry.CompositeID{Key: key.MustParse("#n").Identity})
	if !ok {
		t.Fatal("disabled entry not registered")
	}
	if def.Enabled() {
		t.Error("entry declared disabled is enabled")
	}
}

func TestApplyFailsOnUnresolvableLabel(t *testing.T) {
	hotkeys, hotstrings, _ := newRegistries()

	f, err := Parse([]byte(`{"hotkeys": [{"key": "^j", "label": "Nope"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(f, hotkeys, hotstrings); !errors.Is(err, registry.ErrUnresolvedLabel) {
		t.Errorf("error = %v, want ErrUnresolvedLabel", err)
	}
}

func TestSaveStatesRoundTrip(t *testing.T) {
	hotkeys, hotstrings, labels := newRegistries()
	for _, name := range []string{"Greet", "Help", "NewNote", "ExpandBtw", "Signature"} {
		labels.Define(name, func() error { return nil })
	}

	f, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(f, hotkeys, hotstrings); err != nil {
		t.Fatal(err)
	}

	// Flip some states at runtime, then persist.
	if err := hotkeys.SetState("^j", wincond.Context{}, registry.StateOff); err != nil {
		t.Fatal(err)
	}
	if err := hotstrings.SetState("btw", "*", wincond.Context{}, registry.StateOff); err != nil {
		t.Fatal(err)
	}

	out, err := SaveStates([]byte(sampleDoc), hotkeys, hotstrings)
	if err != nil {
		t.Fatalf("SaveStates error = %v", err)
	}

	doc := gjson.ParseBytes(out)
	if doc.Get("hotkeys.0.enabled").Bool() {
		t.Error("disabled hotkey not persisted")
	}
	if !doc.Get("hotkeys.1.enabled").Bool() {
		t.Error("enabled hotkey persisted as disabled")
	}
	if doc.Get("hotstrings.0.enabled").Bool() {
		t.Error("disabled hotstring not persisted")
	}
	// Unrelated fields survive the rewrite.
	if doc.Get("hotkeys.0.options").String() != "P2" {
		t.Error("rewrite dropped unrelated fields")
	}
	if !strings.Contains(string(out), "Notepad") {
		t.Error("rewrite dropped condition objects")
	}
}

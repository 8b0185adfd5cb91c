package config

import (
	"fmt"
	"os"

	"github.com/tidwall/sjson"

	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/registry"
)

// Apply registers every entry of a parsed binding file. Labels resolve
// through the registries' resolvers, so the defining script must be
// loaded first. Entries declared disabled are registered and then
// turned off, keeping their place in candidate order.
func Apply(f *File, hotkeys *registry.Registry, hotstrings *registry.Hotstrings) error {
	for _, e := range f.Hotkeys {
		if _, err := hotkeys.BindLabel(e.Key, e.Label, e.Options, e.When); err != nil {
			return fmt.Errorf("hotkey %s: %w", e.Key, err)
		}
		if !e.Enabled {
			if err := hotkeys.SetState(e.Key, e.When, registry.StateOff); err != nil {
				return fmt.Errorf("hotkey %s: %w", e.Key, err)
			}
		}
	}
	for _, e := range f.Hotstrings {
		if _, err := hotstrings.AddLabel(e.Trigger, e.Label, e.Options, e.When); err != nil {
			return fmt.Errorf("hotstring %s: %w", e.Trigger, err)
		}
		if !e.Enabled {
			if err := hotstrings.SetState(e.Trigger, e.Options, e.When, registry.StateOff); err != nil {
				return fmt.Errorf("hotstring %s: %w", e.Trigger, err)
			}
		}
	}
	return nil
}

// SaveStates writes the current enabled state of every entry back into
// the document, preserving formatting and unrelated fields. Entries no
// longer registered are left untouched.
func SaveStates(raw []byte, hotkeys *registry.Registry, hotstrings *registry.Hotstrings) ([]byte, error) {
	f, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	for i, e := range f.Hotkeys {
		spec, err := key.Parse(e.Key)
		if err != nil {
			continue
		}
		id := registry.CompositeID{Key: spec.Identity, Cond: e.When.Fingerprint()}
		def, ok := hotkeys.Lookup(id)
		if !ok {
			continue
		}
		raw, err = sjson.SetBytes(raw, fmt.Sprintf("hotkeys.%d.enabled", i), def.Enabled())
		if err != nil {
			return nil, fmt.Errorf("hotkey %s: %w", e.Key, err)
		}
	}

	for i, e := range f.Hotstrings {
		b, ok := hotstrings.Lookup(e.Trigger, e.Options, e.When)
		if !ok {
			continue
		}
		raw, err = sjson.SetBytes(raw, fmt.Sprintf("hotstrings.%d.enabled", i), b.Enabled())
		if err != nil {
			return nil, fmt.Errorf("hotstring %s: %w", e.Trigger, err)
		}
	}
	return raw, nil
}

// SaveStatesFile rewrites path with the registries' current enabled
// states.
func SaveStatesFile(path string, hotkeys *registry.Registry, hotstrings *registry.Hotstrings) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading binding file: %w", err)
	}
	updated, err := SaveStates(raw, hotkeys, hotstrings)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, updated, 0o644)
}

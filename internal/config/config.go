package config

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dshills/hotstorm/internal/input/hotstring"
	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/wincond"
)

// HotkeyEntry is one declared hotkey binding.
type HotkeyEntry struct {
	Key     string
	Label   string
	Options string
	Enabled bool
	When    wincond.Context
}

// HotstringEntry is one declared hotstring binding.
type HotstringEntry struct {
	Trigger string
	Label   string
	Options string
	Enabled bool
	When    wincond.Context
}

// File is a parsed binding document.
type File struct {
	Hotkeys    []HotkeyEntry
	Hotstrings []HotstringEntry
}

// whenKinds maps the "when" object keys to condition slots.
var whenKinds = map[string]wincond.Kind{
	"active":     wincond.ActiveMatch,
	"exist":      wincond.ExistMatch,
	"not_active": wincond.ActiveNonMatch,
	"not_exist":  wincond.ExistNonMatch,
}

// Load reads and parses a binding file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading binding file: %w", err)
	}
	f, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates and decodes a binding document. All validation
// failures in the document are collected and reported together.
func Parse(raw []byte) (*File, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrNotJSON
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, &ValidationError{Message: "expected a JSON object"}
	}

	var verrs ValidationErrors
	f := &File{}

	if hk := root.Get("hotkeys"); hk.Exists() {
		if !hk.IsArray() {
			verrs.Add("hotkeys", "expected an array")
		} else {
			i := 0
			hk.ForEach(func(_, v gjson.Result) bool {
				f.Hotkeys = append(f.Hotkeys, parseHotkey(fmt.Sprintf("hotkeys.%d", i), v, &verrs))
				i++
				return true
			})
		}
	}

	if hs := root.Get("hotstrings"); hs.Exists() {
		if !hs.IsArray() {
			verrs.Add("hotstrings", "expected an array")
		} else {
			i := 0
			hs.ForEach(func(_, v gjson.Result) bool {
				f.Hotstrings = append(f.Hotstrings, parseHotstring(fmt.Sprintf("hotstrings.%d", i), v, &verrs))
				i++
				return true
			})
		}
	}

	if err := verrs.orNil(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseHotkey(path string, v gjson.Result, verrs *ValidationErrors) HotkeyEntry {
	e := HotkeyEntry{Enabled: true}
	if !v.IsObject() {
		verrs.Add(path, "expected an object")
		return e
	}

	e.Key = v.Get("key").String()
	switch {
	case e.Key == "":
		verrs.Add(path+".key", "required")
	default:
		if _, err := key.Parse(e.Key); err != nil {
			verrs.Add(path+".key", err.Error())
		}
	}

	e.Label = v.Get("label").String()
	if e.Label == "" {
		verrs.Add(path+".label", "required")
	}

	e.Options = v.Get("options").String()
	if en := v.Get("enabled"); en.Exists() {
		e.Enabled = en.Bool()
	}
	e.When = parseWhen(path+".when", v.Get("when"), verrs)
	return e
}

func parseHotstring(path string, v gjson.Result, verrs *ValidationErrors) HotstringEntry {
	e := HotstringEntry{Enabled: true}
	if !v.IsObject() {
		verrs.Add(path, "expected an object")
		return e
	}

	e.Trigger = v.Get("trigger").String()
	e.Options = v.Get("options").String()
	switch {
	case e.Trigger == "":
		verrs.Add(path+".trigger", "required")
	default:
		if _, err := hotstring.New(e.Trigger, hotstring.ParseOptions(e.Options)); err != nil {
			verrs.Add(path+".trigger", err.Error())
		}
	}

	e.Label = v.Get("label").String()
	if e.Label == "" {
		verrs.Add(path+".label", "required")
	}

	if en := v.Get("enabled"); en.Exists() {
		e.Enabled = en.Bool()
	}
	e.When = parseWhen(path+".when", v.Get("when"), verrs)
	return e
}

// parseWhen decodes a condition object. Each slot value is either a
// title string or an object with title and text.
func parseWhen(path string, v gjson.Result, verrs *ValidationErrors) wincond.Context {
	var p wincond.Pending
	if !v.Exists() {
		return p.Snapshot()
	}
	if !v.IsObject() {
		verrs.Add(path, "expected an object")
		return p.Snapshot()
	}

	for name, kind := range whenKinds {
		s := v.Get(name)
		if !s.Exists() {
			continue
		}
		switch {
		case s.Type == gjson.String:
			p.Declare(kind, s.String(), "")
		case s.IsObject():
			p.Declare(kind, s.Get("title").String(), s.Get("text").String())
		default:
			verrs.Add(path+"."+name, "expected a string or object")
		}
	}
	return p.Snapshot()
}

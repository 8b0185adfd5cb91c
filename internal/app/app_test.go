package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScript = `
label("Greet", function() end)
hotkey("^j", "Greet")
if_win_active("Notepad")
hotstring("btw", function() end, "*")
end_if()
`

const testConfig = `{
  "hotkeys": [
    {"key": "F1", "label": "Greet", "enabled": false}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDryRunLoadsScriptAndConfig(t *testing.T) {
	opts := Options{
		ScriptPath: writeFile(t, "bindings.lua", testScript),
		ConfigPath: writeFile(t, "bindings.json", testConfig),
		DryRun:     true,
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer a.Shutdown()

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start error = %v", err)
	}
	if a.Hotkeys().Count() != 2 {
		t.Errorf("hotkeys = %d, want 2", a.Hotkeys().Count())
	}
	if a.Hotstrings().Count() != 1 {
		t.Errorf("hotstrings = %d, want 1", a.Hotstrings().Count())
	}

	var sb strings.Builder
	a.Describe(&sb)
	out := sb.String()
	for _, want := range []string{"^j", "Greet", "btw", "F1", "off"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestNewRequiresBindings(t *testing.T) {
	if _, err := New(Options{DryRun: true}); !errors.Is(err, ErrNoBindings) {
		t.Errorf("error = %v, want ErrNoBindings", err)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	opts := Options{ScriptPath: "x.lua", Backend: "cloud"}
	if _, err := New(opts); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}

func TestStartFailsOnBadScript(t *testing.T) {
	opts := Options{
		ScriptPath: writeFile(t, "bad.lua", `hotkey("NotAKey", function() end)`),
		DryRun:     true,
	}
	a, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Shutdown()

	if err := a.Start(context.Background()); err == nil {
		t.Error("expected an error for an invalid key spec")
	}
}

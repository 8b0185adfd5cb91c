package app

import (
	"fmt"
	"io"
)

// Describe writes a human-readable listing of every registered
// binding, used by dry runs, followed by dispatch counters for
// anything that fired.
func (a *App) Describe(w io.Writer) {
	for _, def := range a.hotkeys.All() {
		state := "on"
		if !def.Enabled() {
			state = "off"
		}
		line := fmt.Sprintf("hotkey    %-16s %s", def.Identity(), state)
		if label := def.Label(); label != "" {
			line += "  -> " + label
		}
		if ctx := def.Context(); !ctx.IsEmpty() {
			line += "  [" + ctx.String() + "]"
		}
		fmt.Fprintln(w, line)
	}
	for _, b := range a.hotstrings.All() {
		def := b.Definition()
		state := "on"
		if !b.Enabled() {
			state = "off"
		}
		line := fmt.Sprintf("hotstring %-16s %s", def.Trigger, state)
		if label := b.Label(); label != "" {
			line += "  -> " + label
		}
		if ctx := b.Context(); !ctx.IsEmpty() {
			line += "  [" + ctx.String() + "]"
		}
		fmt.Fprintln(w, line)
	}
	if m := a.dispatcher.Metrics(); m != nil {
		for _, s := range m.Snapshot() {
			line := fmt.Sprintf("fired     %-16s %dx", s.Name, s.Fires)
			if s.Errors > 0 {
				line += fmt.Sprintf("  errors=%d", s.Errors)
			}
			if s.Panics > 0 {
				line += fmt.Sprintf("  panics=%d", s.Panics)
			}
			fmt.Fprintln(w, line)
		}
	}
}

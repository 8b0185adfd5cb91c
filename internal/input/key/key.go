package key

import "strings"

// Canonical names referenced outside the parser.
const (
	NameEnter     = "Enter"
	NameBackspace = "Backspace"
	NameEscape    = "Escape"
	NameTab       = "Tab"
	NameSpace     = "Space"
)

// keyNameMap maps lowercase key names (and their aliases) to the
// canonical base name stored in an Identity.
var keyNameMap = map[string]string{
	"escape":      "Escape",
	"esc":         "Escape",
	"enter":       "Enter",
	"return":      "Enter",
	"tab":         "Tab",
	"backspace":   "Backspace",
	"bs":          "Backspace",
	"delete":      "Delete",
	"del":         "Delete",
	"insert":      "Insert",
	"ins":         "Insert",
	"home":        "Home",
	"end":         "End",
	"pageup":      "PageUp",
	"pgup":        "PageUp",
	"pagedown":    "PageDown",
	"pgdn":        "PageDown",
	"up":          "Up",
	"down":        "Down",
	"left":        "Left",
	"right":       "Right",
	"space":       "Space",
	"pause":       "Pause",
	"printscreen": "PrintScreen",
	"scrolllock":  "ScrollLock",
	"numlock":     "NumLock",
	"capslock":    "CapsLock",
	"appskey":     "AppsKey",
	"numpad0":     "Numpad0",
	"numpad1":     "Numpad1",
	"numpad2":     "Numpad2",
	"numpad3":     "Numpad3",
	"numpad4":     "Numpad4",
	"numpad5":     "Numpad5",
	"numpad6":     "Numpad6",
	"numpad7":     "Numpad7",
	"numpad8":     "Numpad8",
	"numpad9":     "Numpad9",
	"numpadadd":   "NumpadAdd",
	"numpadsub":   "NumpadSub",
	"numpadmult":  "NumpadMult",
	"numpaddiv":   "NumpadDiv",
	"numpaddot":   "NumpadDot",
	"numpadenter": "NumpadEnter",
}

func init() {
	// F1-F24
	for _, name := range fkeyNames {
		keyNameMap[strings.ToLower(name)] = name
	}
}

var fkeyNames = []string{
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10",
	"F11", "F12", "F13", "F14", "F15", "F16", "F17", "F18", "F19",
	"F20", "F21", "F22", "F23", "F24",
}

// NamedKey returns the canonical name for a named key, or "" if the
// name is not recognized. Lookup is case-insensitive.
func NamedKey(name string) string {
	return keyNameMap[strings.ToLower(strings.TrimSpace(name))]
}

// IsNamedKey reports whether name refers to a recognized named key.
func IsNamedKey(name string) bool {
	return NamedKey(name) != ""
}

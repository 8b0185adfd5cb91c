package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidKeyName indicates a malformed key specification.
var ErrInvalidKeyName = errors.New("invalid key name")

// Parse parses a hotkey specification string into a Spec.
//
// Supported forms:
//   - Single character: "a", ";", "1"
//   - Named keys: "F1", "Space", "Escape" (case-insensitive)
//   - Virtual-key tokens: "VK1B", "vk0d"
//   - Modifier prefixes: "^!a", "#Space", "<^>!x"
//   - Behavior prefixes: "*F1", "~a", "$^j"
//   - Release trigger: "^j Up"
func Parse(raw string) (Spec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Spec{}, fmt.Errorf("%w: empty specification", ErrInvalidKeyName)
	}

	var spec Spec
	var side byte // pending '<' or '>' applying to the next modifier symbol

	runes := []rune(s)
	i := 0
	for i < len(runes)-1 || (i < len(runes) && side != 0) {
		c := runes[i]
		var neutral, left, right Modifier
		switch c {
		case '^':
			neutral, left, right = ModCtrl, ModLCtrl, ModRCtrl
		case '!':
			neutral, left, right = ModAlt, ModLAlt, ModRAlt
		case '+':
			neutral, left, right = ModShift, ModLShift, ModRShift
		case '#':
			neutral, left, right = ModWin, ModLWin, ModRWin
		case '<', '>':
			if side != 0 {
				return Spec{}, fmt.Errorf("%w: doubled side selector in %q", ErrInvalidKeyName, raw)
			}
			side = byte(c)
			i++
			continue
		case '*':
			spec.Wildcard = true
			i++
			continue
		case '~':
			spec.PassThrough = true
			i++
			continue
		case '$':
			spec.ForceHook = true
			i++
			continue
		default:
			// Not a prefix symbol: the base key starts here.
			goto baseKey
		}

		switch side {
		case '<':
			spec.Identity.Mods = spec.Identity.Mods.With(left)
		case '>':
			spec.Identity.Mods = spec.Identity.Mods.With(right)
		default:
			spec.Identity.Mods = spec.Identity.Mods.With(neutral)
		}
		side = 0
		i++
	}

baseKey:
	if side != 0 {
		return Spec{}, fmt.Errorf("%w: dangling side selector in %q", ErrInvalidKeyName, raw)
	}
	if i >= len(runes) {
		return Spec{}, fmt.Errorf("%w: missing base key in %q", ErrInvalidKeyName, raw)
	}

	base, trigger, err := splitTrigger(string(runes[i:]))
	if err != nil {
		return Spec{}, err
	}
	spec.Identity.Trigger = trigger

	name, err := normalizeBase(base)
	if err != nil {
		return Spec{}, err
	}
	spec.Identity.Name = name
	return spec, nil
}

// MustParse parses a specification and panics on error. Use only for
// known-valid specs in initialization code.
func MustParse(raw string) Spec {
	spec, err := Parse(raw)
	if err != nil {
		panic("invalid key specification: " + raw + ": " + err.Error())
	}
	return spec
}

// splitTrigger strips an optional trailing " Up" or " Down" word.
func splitTrigger(base string) (string, Trigger, error) {
	base = strings.TrimSpace(base)
	if idx := strings.LastIndexByte(base, ' '); idx > 0 {
		word := strings.TrimSpace(base[idx+1:])
		switch strings.ToLower(word) {
		case "up":
			return strings.TrimSpace(base[:idx]), TriggerUp, nil
		case "down":
			return strings.TrimSpace(base[:idx]), TriggerDown, nil
		default:
			return "", TriggerDown, fmt.Errorf("%w: unexpected trailing %q", ErrInvalidKeyName, word)
		}
	}
	return base, TriggerDown, nil
}

// normalizeBase canonicalizes the base key token.
func normalizeBase(base string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("%w: missing base key", ErrInvalidKeyName)
	}

	// Single character keys are stored lowercase; case is carried by
	// the Shift modifier, not the identity.
	runes := []rune(base)
	if len(runes) == 1 {
		return string(unicode.ToLower(runes[0])), nil
	}

	// Explicit virtual-key token: VK followed by 1-4 hex digits.
	lower := strings.ToLower(base)
	if strings.HasPrefix(lower, "vk") {
		hex := base[2:]
		if len(hex) == 0 || len(hex) > 4 || !isHex(hex) {
			return "", fmt.Errorf("%w: malformed virtual-key token %q", ErrInvalidKeyName, base)
		}
		return "VK" + strings.ToUpper(hex), nil
	}

	if name := NamedKey(base); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("%w: unknown key %q", ErrInvalidKeyName, base)
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

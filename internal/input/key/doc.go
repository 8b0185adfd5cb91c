// Package key parses hotkey specifications into canonical key identities.
//
// A specification is a base key name preceded by modifier symbols:
//
//	^  Ctrl        !  Alt        +  Shift       #  Win
//	<  left-hand variant of the next modifier symbol
//	>  right-hand variant of the next modifier symbol
//	*  wildcard (fire regardless of extra held modifiers)
//	~  pass-through (do not suppress the native key function)
//	$  force the low-level hook for this key
//
// The base key is a single character ("a", ";"), a named key ("F1",
// "Space", "Escape"), or an explicit virtual-key token ("VK1B"). A
// trailing " Up" selects key-release triggering.
//
// Parsing is deterministic and side-effect free: every input yields
// either a canonical Spec or an error wrapping ErrInvalidKeyName.
package key

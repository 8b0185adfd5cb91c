// Package script is the Lua front-end for declaring bindings.
//
// A script declares hotkeys and hotstrings through a small global API:
//
//	label("Greet", function() ... end)
//	hotkey("^j", function() ... end)
//	hotkey("#n", "Greet")
//
//	if_win_active("Notepad")
//	hotkey("F1", function() ... end)
//	end_if()
//
//	hotstring("btw", function() ... end, "*")
//
// Window condition directives accumulate in a per-engine pending
// context; each registration between a directive and end_if() carries
// that context as part of its identity.
//
// gopher-lua's LState is not goroutine-safe, so every Lua operation,
// including procedure invocations arriving from the dispatcher, is
// serialized through a single executor goroutine.
package script

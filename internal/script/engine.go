package script

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hotstorm/internal/proc"
	"github.com/dshills/hotstorm/internal/registry"
	"github.com/dshills/hotstorm/internal/wincond"
)

// Engine owns a Lua state and exposes the binding API to scripts.
// Procedures declared in Lua are wrapped so that later invocations
// from the dispatcher are serialized back onto the executor goroutine.
type Engine struct {
	L    *lua.LState
	exec *Executor

	hotkeys    *registry.Registry
	hotstrings *registry.Hotstrings
	labels     *proc.MapResolver

	pending wincond.Pending
}

// NewEngine creates an engine over the given registries. labels is the
// resolver label() definitions go into; registrations by label resolve
// through the registries' own resolvers.
func NewEngine(hotkeys *registry.Registry, hotstrings *registry.Hotstrings, labels *proc.MapResolver) *Engine {
	L := lua.NewState()
	e := &Engine{
		L:          L,
		exec:       NewExecutor(L, 0),
		hotkeys:    hotkeys,
		hotstrings: hotstrings,
		labels:     labels,
	}
	e.install()
	return e
}

// Run processes Lua work until ctx is cancelled or Close is called.
// Run must be the only goroutine touching the state.
func (e *Engine) Run(ctx context.Context) {
	e.exec.Run(ctx)
}

// Close stops the executor and releases the Lua state.
func (e *Engine) Close() {
	e.exec.Close()
	e.L.Close()
}

// LoadFile runs a script file on the executor goroutine.
func (e *Engine) LoadFile(ctx context.Context, path string) error {
	return e.exec.Execute(ctx, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// DoString runs script source on the executor goroutine.
func (e *Engine) DoString(ctx context.Context, src string) error {
	return e.exec.Execute(ctx, func(L *lua.LState) error {
		return L.DoString(src)
	})
}

// install registers the script-facing globals.
func (e *Engine) install() {
	fns := map[string]lua.LGFunction{
		"label":            e.luaLabel,
		"hotkey":           e.luaHotkey,
		"hotkey_state":     e.luaHotkeyState,
		"hotkey_remove":    e.luaHotkeyRemove,
		"hotstring":        e.luaHotstring,
		"hotstring_state":  e.luaHotstringState,
		"hotstring_remove": e.luaHotstringRemove,
		"end_if":           e.luaEndIf,
	}
	for name, fn := range fns {
		e.L.SetGlobal(name, e.L.NewFunction(fn))
	}

	directives := map[string]wincond.Kind{
		"if_win_active":     wincond.ActiveMatch,
		"if_win_exist":      wincond.ExistMatch,
		"if_win_not_active": wincond.ActiveNonMatch,
		"if_win_not_exist":  wincond.ExistNonMatch,
	}
	for name, kind := range directives {
		e.L.SetGlobal(name, e.L.NewFunction(e.winDirective(kind)))
	}
}

// procFor wraps a Lua function as a procedure. The wrapper re-enters
// the executor, so it must never be called from the executor goroutine
// itself; the dispatcher invokes procedures from its own goroutines.
func (e *Engine) procFor(fn *lua.LFunction) proc.Procedure {
	return func() error {
		return e.exec.Execute(context.Background(), func(L *lua.LState) error {
			L.Push(fn)
			return L.PCall(0, 0, nil)
		})
	}
}

func (e *Engine) luaLabel(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	e.labels.Define(name, e.procFor(fn))
	return 0
}

func (e *Engine) luaHotkey(L *lua.LState) int {
	spec := L.CheckString(1)
	action := L.Get(2)
	options := L.OptString(3, "")
	cond := e.pending.Snapshot()

	var err error
	switch v := action.(type) {
	case *lua.LFunction:
		_, err = e.hotkeys.Bind(spec, e.procFor(v), options, cond)
	case lua.LString:
		_, err = e.hotkeys.BindLabel(spec, string(v), options, cond)
	case *lua.LNilType:
		// Options-only update of an existing binding.
		_, err = e.hotkeys.BindLabel(spec, "", options, cond)
	default:
		L.ArgError(2, "function or label expected")
		return 0
	}
	if err != nil {
		L.RaiseError("hotkey %s: %v", spec, err)
	}
	return 0
}

func (e *Engine) luaHotkeyState(L *lua.LState) int {
	spec := L.CheckString(1)
	state, ok := registry.ParseState(L.CheckString(2))
	if !ok {
		L.ArgError(2, "On, Off or Toggle expected")
		return 0
	}
	if err := e.hotkeys.SetState(spec, e.pending.Snapshot(), state); err != nil {
		L.RaiseError("hotkey_state %s: %v", spec, err)
	}
	return 0
}

func (e *Engine) luaHotkeyRemove(L *lua.LState) int {
	spec := L.CheckString(1)
	if err := e.hotkeys.Unregister(spec, e.pending.Snapshot()); err != nil {
		L.RaiseError("hotkey_remove %s: %v", spec, err)
	}
	return 0
}

func (e *Engine) luaHotstring(L *lua.LState) int {
	trigger := L.CheckString(1)
	action := L.Get(2)
	options := L.OptString(3, "")
	cond := e.pending.Snapshot()

	var err error
	switch v := action.(type) {
	case *lua.LFunction:
		_, err = e.hotstrings.Add(trigger, e.procFor(v), options, cond)
	case lua.LString:
		_, err = e.hotstrings.AddLabel(trigger, string(v), options, cond)
	case *lua.LNilType:
		_, err = e.hotstrings.AddLabel(trigger, "", options, cond)
	default:
		L.ArgError(2, "function or label expected")
		return 0
	}
	if err != nil {
		L.RaiseError("hotstring %s: %v", trigger, err)
	}
	return 0
}

func (e *Engine) luaHotstringState(L *lua.LState) int {
	trigger := L.CheckString(1)
	state, ok := registry.ParseState(L.CheckString(2))
	if !ok {
		L.ArgError(2, "On, Off or Toggle expected")
		return 0
	}
	options := L.OptString(3, "")
	if err := e.hotstrings.SetState(trigger, options, e.pending.Snapshot(), state); err != nil {
		L.RaiseError("hotstring_state %s: %v", trigger, err)
	}
	return 0
}

func (e *Engine) luaHotstringRemove(L *lua.LState) int {
	trigger := L.CheckString(1)
	options := L.OptString(2, "")
	if err := e.hotstrings.Remove(trigger, options, e.pending.Snapshot()); err != nil {
		L.RaiseError("hotstring_remove %s: %v", trigger, err)
	}
	return 0
}

func (e *Engine) winDirective(k wincond.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		title := L.OptString(1, "")
		text := L.OptString(2, "")
		e.pending.Declare(k, title, text)
		return 0
	}
}

func (e *Engine) luaEndIf(L *lua.LState) int {
	e.pending.Clear()
	return 0
}

// Package dispatcher matches input events against registered
// bindings and invokes the winning procedure.
//
// For every key event the dispatcher walks the candidates for that
// key identity in candidate order, skips disabled bindings, evaluates
// each condition context against the window oracle, and invokes the
// first binding whose context holds. Later candidates for the same
// event are never evaluated.
//
// Procedure failures and panics are contained at the dispatch
// boundary: they are recorded in the status register and metrics but
// never propagate into the hook thread.
package dispatcher

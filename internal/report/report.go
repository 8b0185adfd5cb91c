// Package report carries registration and dispatch outcomes to the
// script layer: a status-code register (the ErrorLevel analogue) and
// an optional user-facing notifier for diagnostics.
package report

import "sync/atomic"

// Code is a status code written to the register.
type Code int64

// Status codes. CodeOK is the reset value.
const (
	CodeOK Code = iota
	CodeInvalidKeyName
	CodeResolutionFailed
	CodeNotFound
	CodeInvokeFailed
	CodeHookFailed
)

// String returns the code name for diagnostics.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidKeyName:
		return "InvalidKeyName"
	case CodeResolutionFailed:
		return "ResolutionFailed"
	case CodeNotFound:
		return "NotFound"
	case CodeInvokeFailed:
		return "InvokeFailed"
	case CodeHookFailed:
		return "HookFailed"
	default:
		return "Unknown"
	}
}

// Status is a process-visible status register. The zero value is
// ready to use and reads CodeOK. Safe for concurrent use.
type Status struct {
	code atomic.Int64
}

// Set writes a code to the register.
func (s *Status) Set(c Code) {
	s.code.Store(int64(c))
}

// Get reads the current code.
func (s *Status) Get() Code {
	return Code(s.code.Load())
}

// Clear resets the register to CodeOK.
func (s *Status) Clear() {
	s.code.Store(int64(CodeOK))
}

// Notifier surfaces a diagnostic to the user. Implementations must
// not block the caller for long; they may run on the hook thread.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, message string) {
	f(title, message)
}

// Nop is a Notifier that discards diagnostics.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(title, message string) {}

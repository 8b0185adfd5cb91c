// Package hotstring models typed-abbreviation bindings: a trigger
// character sequence, its matching options, and the rolling buffer of
// recently typed text the dispatcher matches against.
package hotstring

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dshills/hotstorm/internal/input/opts"
)

// ErrInvalidTrigger indicates an empty or malformed trigger sequence.
var ErrInvalidTrigger = errors.New("hotstring: invalid trigger")

// Options control how a trigger matches and what happens on a match.
type Options struct {
	// CaseSensitive requires the typed text to match the trigger's
	// exact case (option "C").
	CaseSensitive bool

	// NoEndChar fires as soon as the trigger is typed, without
	// waiting for an ending key (option "*").
	NoEndChar bool

	// InsideWord allows the trigger to match mid-word, without a
	// preceding boundary (option "?").
	InsideWord bool

	// Backspace erases the typed trigger before invoking the
	// procedure. Default true; "B0" disables, "B" restores.
	Backspace bool

	// OmitEndChar suppresses replay of the ending character
	// (option "O").
	OmitEndChar bool

	// Priority orders candidates that match on the same event
	// (option "P<n>"). Higher fires first; ties keep registration
	// order.
	Priority int

	// Timeout ages the typing buffer: a pause longer than this
	// between characters prevents matching across the pause
	// (option "T<ms>"). Zero disables aging.
	Timeout time.Duration

	// Limit caps the rolling buffer length in grapheme clusters for
	// this trigger (option "K<n>"). Zero uses the engine default.
	Limit int
}

// DefaultOptions returns the option defaults applied before parsing.
func DefaultOptions() Options {
	return Options{Backspace: true}
}

// ParseOptions interprets an option string. Unknown tokens are
// ignored; the tokenizer itself never fails.
func ParseOptions(raw string) Options {
	o := DefaultOptions()
	for tok := range opts.Tokenize(raw) {
		switch tok.Letter {
		case '*':
			o.NoEndChar = true
		case '?':
			o.InsideWord = true
		case 'C':
			o.CaseSensitive = tok.Arg != "0"
		case 'B':
			o.Backspace = tok.Arg != "0"
		case 'O':
			o.OmitEndChar = true
		case 'P':
			if n, ok := tok.Int(); ok {
				o.Priority = n
			}
		case 'T':
			if n, ok := tok.Int(); ok && n >= 0 {
				o.Timeout = time.Duration(n) * time.Millisecond
			}
		case 'K':
			if n, ok := tok.Int(); ok && n > 0 {
				o.Limit = n
			}
		}
	}
	return o
}

// Definition is a single hotstring binding's matching half. Procedure
// binding, enabled state and ownership live in the registry.
type Definition struct {
	// Trigger is the sequence as registered.
	Trigger string

	// Opts are the parsed matching options.
	Opts Options

	folded string
}

// New validates the trigger and builds a Definition.
func New(trigger string, o Options) (*Definition, error) {
	if trigger == "" {
		return nil, fmt.Errorf("%w: empty sequence", ErrInvalidTrigger)
	}
	return &Definition{
		Trigger: trigger,
		Opts:    o,
		folded:  strings.ToLower(trigger),
	}, nil
}

// Folded returns the case-folded trigger used for case-insensitive
// identity and matching.
func (d *Definition) Folded() string {
	return d.folded
}

// MatchesTail reports whether typed ends with the trigger under this
// definition's case and word-boundary rules.
func (d *Definition) MatchesTail(typed string) bool {
	var tail string
	if d.Opts.CaseSensitive {
		if !strings.HasSuffix(typed, d.Trigger) {
			return false
		}
		tail = typed[:len(typed)-len(d.Trigger)]
	} else {
		// Folding can change byte lengths, so the cut point is found
		// in runes of the typed text itself.
		runes := []rune(typed)
		trig := []rune(d.Trigger)
		if len(runes) < len(trig) {
			return false
		}
		cut := len(runes) - len(trig)
		if !strings.EqualFold(string(runes[cut:]), d.Trigger) {
			return false
		}
		tail = string(runes[:cut])
	}

	if d.Opts.InsideWord {
		return true
	}
	// Default: the trigger must start at a word boundary.
	runes := []rune(tail)
	if len(runes) == 0 {
		return true
	}
	return !isWordRune(runes[len(runes)-1])
}

// IsEndChar reports whether r terminates a trigger for definitions
// that wait for an ending key.
func IsEndChar(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

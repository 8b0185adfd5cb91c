// Package opts tokenizes free-form option strings.
//
// Option strings are whitespace-separated tokens. A token is a
// leading letter (or symbol) with an optional argument glued on:
// "P1", "T500", "C0", "B0", "K-1", "*", "?". The tokenizer assigns
// no meaning to tokens; callers classify them.
package opts

import (
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a single option token.
type Token struct {
	// Raw is the token exactly as written.
	Raw string

	// Letter is the leading rune, upper-cased for letters.
	Letter rune

	// Arg is everything after the leading rune.
	Arg string
}

// Int returns the argument parsed as an integer. ok is false when the
// argument is empty or not numeric.
func (t Token) Int() (v int, ok bool) {
	if t.Arg == "" {
		return 0, false
	}
	n, err := strconv.Atoi(t.Arg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Is reports whether the token is the given letter with no argument.
func (t Token) Is(letter rune) bool {
	return t.Letter == unicode.ToUpper(letter) && t.Arg == ""
}

// Tokenize returns a lazy sequence of option tokens. The sequence is
// finite and restartable: ranging over it twice yields the same
// tokens.
func Tokenize(raw string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for field := range strings.FieldsSeq(raw) {
			r, size := utf8.DecodeRuneInString(field)
			tok := Token{
				Raw:    field,
				Letter: unicode.ToUpper(r),
				Arg:    field[size:],
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// Collect gathers all tokens into a slice. Convenience for callers
// that need random access.
func Collect(raw string) []Token {
	var toks []Token
	for tok := range Tokenize(raw) {
		toks = append(toks, tok)
	}
	return toks
}

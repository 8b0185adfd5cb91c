package hotstring

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// DefaultLimit is the rolling buffer cap in grapheme clusters when no
// definition requests a larger window.
const DefaultLimit = 64

// Buffer is the rolling window of recently typed text. It is bounded
// in grapheme clusters, not bytes, so combining sequences and emoji
// count as single typed units, matching what a user sees and what a
// backspace erases.
//
// Buffer is confined to the hook dispatch goroutine; it needs no
// locking.
type Buffer struct {
	limit  int
	maxAge time.Duration

	text strings.Builder
	last time.Time
}

// NewBuffer creates a buffer. limit <= 0 uses DefaultLimit. maxAge is
// the aging window; zero disables aging.
func NewBuffer(limit int, maxAge time.Duration) *Buffer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Buffer{limit: limit, maxAge: maxAge}
}

// Type appends a typed character, first resetting the buffer when the
// pause since the previous character exceeded the aging window.
func (b *Buffer) Type(r rune, now time.Time) {
	if b.maxAge > 0 && !b.last.IsZero() && now.Sub(b.last) > b.maxAge {
		b.Reset()
	}
	b.last = now
	b.text.WriteRune(r)
	b.trim()
}

// Backspace removes the final grapheme cluster, mirroring the user
// erasing a typed character.
func (b *Buffer) Backspace() {
	s := b.text.String()
	if s == "" {
		return
	}
	cut := lastClusterStart(s)
	b.text.Reset()
	b.text.WriteString(s[:cut])
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.text.Reset()
}

// String returns the buffered text.
func (b *Buffer) String() string {
	return b.text.String()
}

// Len returns the buffered length in grapheme clusters.
func (b *Buffer) Len() int {
	return uniseg.GraphemeClusterCount(b.text.String())
}

// trim drops leading clusters beyond the limit.
func (b *Buffer) trim() {
	s := b.text.String()
	n := uniseg.GraphemeClusterCount(s)
	if n <= b.limit {
		return
	}
	g := uniseg.NewGraphemes(s)
	for drop := n - b.limit; drop > 0 && g.Next(); drop-- {
	}
	_, to := g.Positions()
	b.text.Reset()
	b.text.WriteString(s[to:])
}

// ClusterCount returns the grapheme-cluster length of s. Used to
// compute how many backspaces erase a typed trigger.
func ClusterCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// lastClusterStart returns the byte offset where the final grapheme
// cluster of s begins.
func lastClusterStart(s string) int {
	g := uniseg.NewGraphemes(s)
	start := 0
	for g.Next() {
		start, _ = g.Positions()
	}
	return start
}

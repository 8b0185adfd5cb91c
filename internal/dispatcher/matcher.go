package dispatcher

import (
	"time"

	"github.com/rivo/uniseg"

	"github.com/dshills/hotstorm/internal/input/hotstring"
	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/registry"
)

// textMatcher folds the character stream into a rolling buffer and
// fires hotstrings whose trigger ends the buffer. It is confined to
// the hook dispatch goroutine, like the buffer it owns.
type textMatcher struct {
	d  *Dispatcher
	hs *registry.Hotstrings

	buf *hotstring.Buffer

	// stamps parallels the buffer: the arrival time of each buffered
	// cluster, consulted for per-binding aging timeouts.
	stamps []time.Time
}

func newTextMatcher(d *Dispatcher, hs *registry.Hotstrings) *textMatcher {
	return &textMatcher{
		d:   d,
		hs:  hs,
		buf: hotstring.NewBuffer(hotstring.DefaultLimit, 0),
	}
}

// typeChar folds one printable character into the buffer. Ending
// characters are matched against the buffer as it stood before them;
// immediate (no-end-char) triggers are matched after the character
// lands.
func (m *textMatcher) typeChar(r rune, now time.Time) {
	if hotstring.IsEndChar(r) {
		if m.match(now, false) {
			return
		}
		// An unmatched ending character is still a word boundary the
		// next trigger may start after.
		m.push(r, now)
		return
	}
	m.push(r, now)
	m.match(now, true)
}

// endKey handles non-printable boundary keys from the hook.
func (m *textMatcher) endKey(id key.Identity) {
	switch id.Name {
	case key.NameBackspace:
		m.buf.Backspace()
		if n := len(m.stamps); n > 0 {
			m.stamps = m.stamps[:n-1]
		}
	case key.NameEnter:
		m.typeChar('\n', time.Now())
	default:
		// Navigation and editing keys move the caret away from the
		// typed text; anything buffered no longer precedes it.
		m.reset()
	}
}

func (m *textMatcher) push(r rune, now time.Time) {
	m.buf.Type(r, now)
	m.stamps = append(m.stamps, now)
	// The buffer may have dropped leading clusters; keep the stamps
	// aligned with what remains.
	if over := len(m.stamps) - m.buf.Len(); over > 0 {
		m.stamps = m.stamps[over:]
	}
}

// match walks the candidates in priority order and fires the first
// enabled binding whose trigger, aging window and condition context
// all hold. immediate selects the no-end-char candidates; the ending
// pass selects the rest.
func (m *textMatcher) match(now time.Time, immediate bool) bool {
	typed := m.buf.String()
	if typed == "" {
		return false
	}

	for _, b := range m.hs.All() {
		if !b.Enabled() {
			continue
		}
		def := b.Definition()
		if def.Opts.NoEndChar != immediate {
			continue
		}
		window := typed
		if def.Opts.Limit > 0 {
			window = tailClusters(typed, def.Opts.Limit)
		}
		if !def.MatchesTail(window) {
			continue
		}
		if !m.freshEnough(def, now) {
			continue
		}
		if !b.Context().Evaluate(m.d.windows) {
			continue
		}
		m.fire(b, def, immediate)
		return true
	}
	return false
}

// fire erases the typed trigger when requested, resets the buffer, and
// hands the procedure to the dispatcher's invocation policy.
func (m *textMatcher) fire(b *registry.HotstringBinding, def *hotstring.Definition, immediate bool) {
	if def.Opts.Backspace {
		n := hotstring.ClusterCount(def.Trigger)
		if !immediate && def.Opts.OmitEndChar {
			// The ending character was already delivered to the
			// focused window; swallow it along with the trigger.
			n++
		}
		if a := m.hs.Adapter(); a != nil {
			_ = a.SendBackspaces(n)
		}
	}
	m.reset()
	m.d.run("::"+def.Trigger, b.ID(), b.Proc())
}

// freshEnough applies the binding's aging timeout: every inter-key
// pause inside the trigger tail must be within the window.
func (m *textMatcher) freshEnough(def *hotstring.Definition, now time.Time) bool {
	if def.Opts.Timeout <= 0 {
		return true
	}
	n := hotstring.ClusterCount(def.Trigger)
	if n > len(m.stamps) {
		n = len(m.stamps)
	}
	tail := m.stamps[len(m.stamps)-n:]
	prev := now
	for i := len(tail) - 1; i >= 0; i-- {
		if prev.Sub(tail[i]) > def.Opts.Timeout {
			return false
		}
		prev = tail[i]
	}
	return true
}

func (m *textMatcher) reset() {
	m.buf.Reset()
	m.stamps = m.stamps[:0]
}

// tailClusters returns the final n grapheme clusters of s.
func tailClusters(s string, n int) string {
	total := uniseg.GraphemeClusterCount(s)
	if total <= n {
		return s
	}
	g := uniseg.NewGraphemes(s)
	for drop := total - n; drop > 0 && g.Next(); drop-- {
	}
	_, to := g.Positions()
	return s[to:]
}

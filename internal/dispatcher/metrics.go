package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics tallies dispatch activity. Bindings are keyed by display
// name: the key spec for hotkeys, ::trigger for hotstrings.
type Metrics struct {
	mu    sync.Mutex
	stats map[string]*BindingStats
}

// BindingStats are the counters for one binding. Errors counts failed
// invocations including recovered panics; Busy is the total procedure
// run time.
type BindingStats struct {
	Name      string
	Fires     uint64
	Errors    uint64
	Panics    uint64
	Busy      time.Duration
	LastError error
	LastFired time.Time
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{stats: make(map[string]*BindingStats)}
}

// statsFor returns the live entry for name. Called with mu held.
func (m *Metrics) statsFor(name string) *BindingStats {
	s := m.stats[name]
	if s == nil {
		s = &BindingStats{Name: name}
		m.stats[name] = s
	}
	return s
}

// RecordDispatch tallies one completed invocation.
func (m *Metrics) RecordDispatch(name string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.statsFor(name)
	s.Fires++
	s.Busy += duration
	s.LastFired = time.Now()
	s.LastError = err
	if err != nil {
		s.Errors++
	}
}

// RecordPanic tallies a recovered procedure panic. The invocation's
// error is counted by the RecordDispatch that follows the recovery.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsFor(name).Panics++
}

// Stats returns a copy of the counters for one binding; ok is false
// when it never fired.
func (m *Metrics) Stats(name string) (BindingStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats[name]
	if s == nil {
		return BindingStats{}, false
	}
	return *s, true
}

// Totals sums the per-binding counters.
func (m *Metrics) Totals() (fires, errors, panics uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stats {
		fires += s.Fires
		errors += s.Errors
		panics += s.Panics
	}
	return fires, errors, panics
}

// Snapshot copies the per-binding counters for diagnostic listings,
// most-fired first, ties by name.
func (m *Metrics) Snapshot() []BindingStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]BindingStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fires != out[j].Fires {
			return out[i].Fires > out[j].Fires
		}
		return out[i].Name < out[j].Name
	})
	return out
}

package dispatcher

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/hotstorm/internal/input/key"
	"github.com/dshills/hotstorm/internal/registry"
	"github.com/dshills/hotstorm/internal/report"
	"github.com/dshills/hotstorm/internal/wincond"
)

// stubAdapter satisfies hook.Adapter without a real hook.
type stubAdapter struct {
	backspaces int
}

func (s *stubAdapter) InstallIfAbsent() error          { return nil }
func (s *stubAdapter) RemoveIfUnused() error           { return nil }
func (s *stubAdapter) Watch(key.Identity) error        { return nil }
func (s *stubAdapter) Unwatch(key.Identity) error      { return nil }
func (s *stubAdapter) WatchText() error                { return nil }
func (s *stubAdapter) UnwatchText() error              { return nil }
func (s *stubAdapter) SendBackspaces(n int) error      { s.backspaces += n; return nil }

// stubQuery answers window predicates from a fixed active title.
type stubQuery struct {
	activeTitle string
}

func (q *stubQuery) ActiveMatches(title, text string) bool {
	return strings.Contains(q.activeTitle, title)
}

func (q *stubQuery) ExistsMatching(title, text string) bool {
	return q.ActiveMatches(title, text)
}

func newTestDispatcher(t *testing.T, q wincond.WindowQuery) (*Dispatcher, *registry.Registry, *report.Status) {
	t.Helper()
	status := &report.Status{}
	r := registry.New(&stubAdapter{}, nil, status, nil)
	d := New(r, nil, q, status, DefaultConfig())
	return d, r, status
}

func TestDispatchInvokesOnce(t *testing.T) {
	d, r, status := newTestDispatcher(t, &stubQuery{})

	calls := 0
	if _, err := r.Bind("^j", func() error { calls++; return nil }, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}

	got := d.DispatchKey(key.MustParse("^j").Identity)
	if got != Suppressed {
		t.Errorf("outcome = %v, want Suppressed", got)
	}
	if calls != 1 {
		t.Errorf("procedure ran %d times, want 1", calls)
	}
	if status.Get() != report.CodeOK {
		t.Errorf("status = %v, want OK", status.Get())
	}
}

func TestDispatchUnboundKeyIgnored(t *testing.T) {
	d, _, _ := newTestDispatcher(t, &stubQuery{})

	if got := d.DispatchKey(key.MustParse("F5").Identity); got != Ignored {
		t.Errorf("outcome = %v, want Ignored", got)
	}
}

func TestDispatchSkipsDisabled(t *testing.T) {
	d, r, _ := newTestDispatcher(t, &stubQuery{})

	calls := 0
	if _, err := r.Bind("F1", func() error { calls++; return nil }, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}
	if err := r.SetState("F1", wincond.Context{}, registry.StateOff); err != nil {
		t.Fatal(err)
	}

	if got := d.DispatchKey(key.MustParse("F1").Identity); got != Ignored {
		t.Errorf("outcome = %v, want Ignored", got)
	}
	if calls != 0 {
		t.Errorf("disabled procedure ran %d times", calls)
	}
}

func TestDispatchConditionGates(t *testing.T) {
	q := &stubQuery{activeTitle: "main.go - Editor"}
	d, r, _ := newTestDispatcher(t, q)

	var p wincond.Pending
	p.Declare(wincond.ActiveMatch, "Notepad", "")

	calls := 0
	if _, err := r.Bind("F1", func() error { calls++; return nil }, "", p.Snapshot()); err != nil {
		t.Fatal(err)
	}

	if got := d.DispatchKey(key.MustParse("F1").Identity); got != Ignored {
		t.Errorf("outcome = %v, want Ignored while Notepad inactive", got)
	}
	if calls != 0 {
		t.Error("procedure ran despite failing condition")
	}

	q.activeTitle = "untitled - Notepad"
	if got := d.DispatchKey(key.MustParse("F1").Identity); got != Suppressed {
		t.Errorf("outcome = %v, want Suppressed once Notepad active", got)
	}
	if calls != 1 {
		t.Errorf("procedure ran %d times, want 1", calls)
	}
}

func TestFirstMatchWins(t *testing.T) {
	q := &stubQuery{activeTitle: "anything"}
	d, r, _ := newTestDispatcher(t, q)

	var first, second int
	var pa, pb wincond.Pending
	pa.Declare(wincond.ActiveMatch, "any", "")
	pb.Declare(wincond.ActiveMatch, "thing", "")

	if _, err := r.Bind("a", func() error { first++; return nil }, "", pa.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Bind("a", func() error { second++; return nil }, "", pb.Snapshot()); err != nil {
		t.Fatal(err)
	}

	d.DispatchKey(key.MustParse("a").Identity)
	if first != 1 || second != 0 {
		t.Errorf("first=%d second=%d, want only the earlier registration to fire", first, second)
	}
}

func TestConditionedBindingBeatsFallback(t *testing.T) {
	q := &stubQuery{activeTitle: "report.txt - X"}
	d, r, _ := newTestDispatcher(t, q)

	var fallback, conditioned int
	if _, err := r.Bind("a", func() error { fallback++; return nil }, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}
	var p wincond.Pending
	p.Declare(wincond.ActiveMatch, "X", "")
	if _, err := r.Bind("a", func() error { conditioned++; return nil }, "", p.Snapshot()); err != nil {
		t.Fatal(err)
	}

	// While X is active the later-registered conditioned binding wins
	// over the always-true unconditioned one.
	d.DispatchKey(key.MustParse("a").Identity)
	if conditioned != 1 || fallback != 0 {
		t.Errorf("conditioned=%d fallback=%d, want the conditioned binding to fire", conditioned, fallback)
	}

	q.activeTitle = "something else"
	d.DispatchKey(key.MustParse("a").Identity)
	if conditioned != 1 || fallback != 1 {
		t.Errorf("conditioned=%d fallback=%d, want the fallback once X is inactive", conditioned, fallback)
	}
}

func TestPassThroughBindingInvokes(t *testing.T) {
	d, r, _ := newTestDispatcher(t, &stubQuery{})

	if _, err := r.Bind("~F2", func() error { return nil }, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}
	if got := d.DispatchKey(key.MustParse("F2").Identity); got != Invoked {
		t.Errorf("outcome = %v, want Invoked for pass-through binding", got)
	}
}

func TestProcedureErrorSetsStatus(t *testing.T) {
	d, r, status := newTestDispatcher(t, &stubQuery{})

	boom := errors.New("boom")
	if _, err := r.Bind("^e", func() error { return boom }, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}

	d.DispatchKey(key.MustParse("^e").Identity)
	if status.Get() != report.CodeInvokeFailed {
		t.Errorf("status = %v, want InvokeFailed", status.Get())
	}
	if _, errs, _ := d.Metrics().Totals(); errs != 1 {
		t.Errorf("error total = %d, want 1", errs)
	}
}

func TestPanicIsContained(t *testing.T) {
	d, r, status := newTestDispatcher(t, &stubQuery{})

	if _, err := r.Bind("^p", func() error { panic("misbehaving procedure") }, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}

	// Must not propagate out of dispatch.
	if got := d.DispatchKey(key.MustParse("^p").Identity); got != Suppressed {
		t.Errorf("outcome = %v, want Suppressed", got)
	}
	if status.Get() != report.CodeInvokeFailed {
		t.Errorf("status = %v, want InvokeFailed", status.Get())
	}
	if _, _, panics := d.Metrics().Totals(); panics != 1 {
		t.Errorf("panic total = %d, want 1", panics)
	}
}

func TestMetricsPerBinding(t *testing.T) {
	d, r, _ := newTestDispatcher(t, &stubQuery{})

	if _, err := r.Bind("^j", func() error { return nil }, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}
	id := key.MustParse("^j").Identity
	d.DispatchKey(id)
	d.DispatchKey(id)

	stats, ok := d.Metrics().Stats(id.String())
	if !ok {
		t.Fatal("no stats recorded for binding")
	}
	if stats.Fires != 2 {
		t.Errorf("Fires = %d, want 2", stats.Fires)
	}

	snap := d.Metrics().Snapshot()
	if len(snap) != 1 || snap[0].Name != id.String() {
		t.Errorf("snapshot = %+v, want one entry for %s", snap, id)
	}
}

func TestAsyncGateCollapsesTriggers(t *testing.T) {
	status := &report.Status{}
	r := registry.New(&stubAdapter{}, nil, status, nil)
	cfg := DefaultConfig()
	cfg.AsyncInvoke = true
	d := New(r, nil, &stubQuery{}, status, cfg)

	release := make(chan struct{})
	var mu sync.Mutex
	runs := 0
	if _, err := r.Bind("^j", func() error {
		mu.Lock()
		runs++
		mu.Unlock()
		<-release
		return nil
	}, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}

	id := key.MustParse("^j").Identity
	// One in flight, one queued, the rest dropped.
	for range 5 {
		d.DispatchKey(id)
	}
	close(release)

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := runs
		mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("runs = %d, want 2", n)
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Settle, then confirm nothing beyond the queued trigger ran.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if runs != 2 {
		t.Errorf("runs = %d, want exactly 2 (one in flight plus one queued)", runs)
	}
}

func TestGateRetiresWhenIdle(t *testing.T) {
	status := &report.Status{}
	r := registry.New(&stubAdapter{}, nil, status, nil)
	cfg := DefaultConfig()
	cfg.AsyncInvoke = true
	d := New(r, nil, &stubQuery{}, status, cfg)

	done := make(chan struct{}, 1)
	if _, err := r.Bind("^j", func() error {
		done <- struct{}{}
		return nil
	}, "", wincond.Context{}); err != nil {
		t.Fatal(err)
	}

	d.DispatchKey(key.MustParse("^j").Identity)
	<-done

	deadline := time.After(2 * time.Second)
	for {
		d.mu.Lock()
		n := len(d.gates)
		d.mu.Unlock()
		if n == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("%d gates still held after the work drained", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

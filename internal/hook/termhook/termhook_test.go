package termhook

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hotstorm/internal/input/key"
)

// recordingHandler collects delivered events on channels so tests can
// wait for the poll goroutine.
type recordingHandler struct {
	keys  chan key.Identity
	chars chan rune
	ends  chan key.Identity
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		keys:  make(chan key.Identity, 16),
		chars: make(chan rune, 16),
		ends:  make(chan key.Identity, 16),
	}
}

func (h *recordingHandler) HandleKey(id key.Identity)    { h.keys <- id }
func (h *recordingHandler) HandleChar(r rune)            { h.chars <- r }
func (h *recordingHandler) HandleEndKey(id key.Identity) { h.ends <- id }

func waitKey(t *testing.T, ch chan key.Identity) key.Identity {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
		return key.Identity{}
	}
}

func newSimAdapter(t *testing.T) (*Adapter, tcell.SimulationScreen, *recordingHandler) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	h := newRecordingHandler()
	a := New(h, sim)
	if err := a.InstallIfAbsent(); err != nil {
		t.Fatalf("install error = %v", err)
	}
	t.Cleanup(func() { sim.Fini() })
	return a, sim, h
}

func TestWatchedIdentityDelivered(t *testing.T) {
	a, sim, h := newSimAdapter(t)

	id := key.MustParse("^j").Identity
	if err := a.Watch(id); err != nil {
		t.Fatal(err)
	}

	sim.InjectKey(tcell.KeyCtrlJ, 0, tcell.ModCtrl)
	got := waitKey(t, h.keys)
	if got != id {
		t.Errorf("delivered %v, want %v", got, id)
	}
}

func TestUnwatchedKeyNotDelivered(t *testing.T) {
	a, sim, h := newSimAdapter(t)

	if err := a.Watch(key.MustParse("^j").Identity); err != nil {
		t.Fatal(err)
	}

	sim.InjectKey(tcell.KeyCtrlK, 0, tcell.ModCtrl)
	select {
	case id := <-h.keys:
		t.Errorf("unexpected delivery: %v", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCharacterStream(t *testing.T) {
	a, sim, h := newSimAdapter(t)
	if err := a.WatchText(); err != nil {
		t.Fatal(err)
	}

	sim.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'T', tcell.ModNone)

	for _, want := range []rune{'b', 'T'} {
		select {
		case r := <-h.chars:
			if r != want {
				t.Errorf("char = %q, want %q", r, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("character not delivered")
		}
	}

	// Boundary keys arrive on the end-key path.
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	end := waitKey(t, h.ends)
	if end.Name != key.NameEnter {
		t.Errorf("end key = %v, want Enter", end)
	}
}

func TestModifiedKeysSkipCharacterStream(t *testing.T) {
	a, sim, h := newSimAdapter(t)
	if err := a.WatchText(); err != nil {
		t.Fatal(err)
	}

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModAlt)
	select {
	case r := <-h.chars:
		t.Errorf("modified keystroke typed %q", r)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestKeyUpTriggerUnsupported(t *testing.T) {
	a, _, _ := newSimAdapter(t)

	err := a.Watch(key.MustParse("F1 Up").Identity)
	if err == nil {
		t.Error("expected an error for a key-up trigger")
	}
}

package proc

import "testing"

func TestMapResolver(t *testing.T) {
	m := NewMapResolver()

	if _, ok := m.Resolve("Greet"); ok {
		t.Error("resolved an undefined label")
	}

	called := 0
	m.Define("Greet", func() error { called++; return nil })

	p, ok := m.Resolve("Greet")
	if !ok {
		t.Fatal("defined label did not resolve")
	}
	if err := p(); err != nil || called != 1 {
		t.Errorf("procedure not invoked (called=%d, err=%v)", called, err)
	}

	// Redefinition replaces the previous procedure.
	m.Define("Greet", func() error { return nil })
	p, _ = m.Resolve("Greet")
	if err := p(); err != nil || called != 1 {
		t.Errorf("redefinition did not replace (called=%d, err=%v)", called, err)
	}

	m.Undefine("Greet")
	if _, ok := m.Resolve("Greet"); ok {
		t.Error("resolved an undefined label after Undefine")
	}
}

func TestResolverFunc(t *testing.T) {
	r := ResolverFunc(func(label string) (Procedure, bool) {
		if label == "known" {
			return func() error { return nil }, true
		}
		return nil, false
	})

	if _, ok := r.Resolve("known"); !ok {
		t.Error("known label did not resolve")
	}
	if _, ok := r.Resolve("other"); ok {
		t.Error("unknown label resolved")
	}
}

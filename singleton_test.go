package singleton_test

import (
	"Inskape/singleton"
	"Inskape/singleton/core/exception"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recovered runs f and returns the exception it panicked with, if any.
func recovered(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if err, ok = r.(error); !ok {
				panic(r)
			}
		}
	}()
	f()
	return nil
}

// recoveredIn is recovered on a fresh goroutine.
func recoveredIn(f func()) error {
	done := make(chan error)
	go func() { done <- recovered(f) }()
	return <-done
}

func expectException(t *testing.T, want exception.Exception, f func()) {
	t.Helper()
	if err := recovered(f); !errors.Is(err, want) {
		t.Errorf("got %v; want panic with %q", err, want.Message())
	}
}

type resource struct {
	name  string
	drops *int
}

func (r resource) Drop() { *r.drops++ }

type counter struct {
	n     int
	drops *int
}

func (c *counter) Drop() { *c.drops++ }

func TestSingleton(t *testing.T) {
	greeting := singleton.New("Hello")
	if got := greeting.Load(); got != "Hello" {
		t.Fatalf("got %q; want Hello", got)
	}

	greeting.Replace("Test")
	if got := greeting.Load(); got != "Test" {
		t.Fatalf("got %q after Replace; want Test", got)
	}

	m := greeting.GetMut()
	m.Set("Test 2")
	m.Release()

	r := greeting.Get()
	defer r.Release()
	if got := r.Value(); got != "Test 2" {
		t.Fatalf("got %q after mutation; want Test 2", got)
	}
}

func TestSingletonSharedViews(t *testing.T) {
	s := singleton.New(42)
	a, b := s.Get(), s.Get()
	if a.Value() != 42 || *b.Ptr() != 42 {
		t.Errorf("got %d, %d; want 42", a.Value(), *b.Ptr())
	}
	a.Release()
	b.Release()
}

func TestSingletonUpdate(t *testing.T) {
	s := singleton.New([]string{"a"})
	s.Update(func(v *[]string) { *v = append(*v, "b") })

	var got []string
	s.Read(func(v []string) { got = v })
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("got %v; want [a b]", got)
	}
	if p := s.Ptr(); len(*p) != 2 {
		t.Errorf("Ptr sees %v; want [a b]", *p)
	}
}

func TestSingletonReplaceDropsOnce(t *testing.T) {
	var drops int
	s := singleton.New(resource{name: "first", drops: &drops})

	s.Replace(resource{name: "second", drops: &drops})
	if drops != 1 {
		t.Fatalf("drops = %d after Replace; want 1", drops)
	}
	if got := s.Load().name; got != "second" {
		t.Errorf("got %q; want second", got)
	}

	s.Destroy()
	if drops != 2 {
		t.Errorf("drops = %d after Destroy; want 2", drops)
	}
	expectException(t, exception.ErrDestroyed(), func() { s.Get() })
	expectException(t, exception.ErrDestroyed(), func() { s.Destroy() })
	if drops != 2 {
		t.Errorf("drops = %d after failed Destroy; want 2", drops)
	}
}

func TestRefMutSetDrops(t *testing.T) {
	var drops int
	s := singleton.New(resource{name: "first", drops: &drops})
	m := s.GetMut()
	m.Set(resource{name: "second", drops: &drops})
	m.Release()
	if drops != 1 {
		t.Errorf("drops = %d after Set; want 1", drops)
	}
	if got := s.Load().name; got != "second" {
		t.Errorf("got %q; want second", got)
	}
}

func TestSingletonPointerDropper(t *testing.T) {
	// Drop has a pointer receiver, so it runs on the discarded copy
	var drops int
	s := singleton.New(counter{n: 1, drops: &drops})
	s.Destroy()
	if drops != 1 {
		t.Errorf("drops = %d after Destroy; want 1", drops)
	}

	// a nil *counter is never dropped
	drops = 0
	p := singleton.New[*counter](nil)
	p.Replace(&counter{drops: &drops})
	if drops != 0 {
		t.Errorf("drops = %d after replacing nil; want 0", drops)
	}
	p.Replace(nil)
	if drops != 1 {
		t.Errorf("drops = %d after replacing the counter; want 1", drops)
	}
}

func TestReplaceSamePointer(t *testing.T) {
	var drops int
	p := singleton.New(&counter{n: 1, drops: &drops})

	p.Replace(p.Load())
	m := p.GetMut()
	m.Set(m.Value())
	m.Release()
	if drops != 0 {
		t.Fatalf("drops = %d after storing the held pointer; want 0", drops)
	}
	if got := p.Load().n; got != 1 {
		t.Errorf("n = %d; want 1", got)
	}

	p.Replace(&counter{n: 2, drops: &drops})
	if drops != 1 {
		t.Errorf("drops = %d after replacing with another pointer; want 1", drops)
	}
}

func TestRefMutSetLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	singleton.SetLogger(zap.New(core))
	t.Cleanup(func() { singleton.SetLogger(nil) })

	var drops int
	s := singleton.New(resource{name: "first", drops: &drops}, singleton.WithName("pool"))
	m := s.GetMut()
	m.Set(resource{name: "second", drops: &drops})
	m.Release()

	for _, msg := range []string{"replaced", "dropped"} {
		entries := logs.FilterMessage(msg).All()
		if len(entries) != 1 || entries[0].ContextMap()["cell"] != "pool" {
			t.Errorf("%s entries: %v", msg, entries)
		}
	}
}

func TestSingletonBorrowConflicts(t *testing.T) {
	if !singleton.DebugChecks {
		t.Skip("borrow checks are compiled out")
	}

	s := singleton.New("Hello", singleton.WithName("greeting"))

	r := s.Get()
	expectException(t, exception.ErrAlreadyBorrowed(), func() { s.GetMut() })
	expectException(t, exception.ErrAlreadyBorrowed(), func() { s.Replace("Test") })
	r.Release()

	m := s.GetMut()
	expectException(t, exception.ErrAlreadyMutablyBorrowed(), func() { s.Get() })
	expectException(t, exception.ErrAlreadyMutablyBorrowed(), func() { s.GetMut() })
	expectException(t, exception.ErrAlreadyMutablyBorrowed(), func() { s.Ptr() })
	m.Release()

	if got := s.Load(); got != "Hello" {
		t.Errorf("got %q; want Hello", got)
	}
}

func TestSingletonCrossGoroutine(t *testing.T) {
	if !singleton.DebugChecks {
		t.Skip("goroutine checks are compiled out")
	}

	s := singleton.New("Hello")
	s.Load()

	for name, f := range map[string]func(){
		"Get":     func() { s.Get() },
		"GetMut":  func() { s.GetMut() },
		"Replace": func() { s.Replace("Test") },
	} {
		if err := recoveredIn(f); !errors.Is(err, exception.ErrCrossGoroutineAccess()) {
			t.Errorf("%s from another goroutine: got %v; want ErrCrossGoroutineAccess", name, err)
		}
	}
	if got := s.Load(); got != "Hello" {
		t.Errorf("got %q; want Hello", got)
	}
}

func TestViewCrossGoroutine(t *testing.T) {
	if !singleton.DebugChecks {
		t.Skip("goroutine checks are compiled out")
	}

	s := singleton.New(1)
	r := s.Get()
	defer r.Release()
	if err := recoveredIn(func() { r.Value() }); !errors.Is(err, exception.ErrCrossGoroutineAccess()) {
		t.Errorf("got %v; want ErrCrossGoroutineAccess", err)
	}
}

func TestViewDoubleRelease(t *testing.T) {
	s := singleton.New(1)

	r := s.Get()
	r.Release()
	expectException(t, exception.ErrReleasedView(), func() { r.Release() })
	expectException(t, exception.ErrReleasedView(), func() { r.Value() })

	m := s.GetMut()
	m.Release()
	expectException(t, exception.ErrReleasedView(), func() { m.Set(2) })

	if got := s.Load(); got != 1 {
		t.Errorf("got %d; want 1", got)
	}
}

func TestMapRef(t *testing.T) {
	type config struct {
		Host string
		Port int
	}
	s := singleton.New(config{Host: "localhost", Port: 80})

	port := singleton.MapRefMut(s.GetMut(), func(c *config) *int { return &c.Port })
	port.Set(8080)
	if singleton.DebugChecks {
		expectException(t, exception.ErrAlreadyMutablyBorrowed(), func() { s.Get() })
	}
	port.Release()

	r := s.Get()
	host := singleton.MapRef(r, func(c *config) *string { return &c.Host })
	expectException(t, exception.ErrReleasedView(), func() { r.Release() })
	if got := host.Value(); got != "localhost" {
		t.Errorf("host = %q; want localhost", got)
	}
	host.Release()

	if got := s.Load().Port; got != 8080 {
		t.Errorf("port = %d; want 8080", got)
	}
}

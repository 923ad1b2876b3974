package affinity_test

import (
	"Inskape/singleton/core/affinity"
	"Inskape/singleton/core/exception"
	"Inskape/singleton/internal/global"
	"errors"
	"testing"
)

// inGoroutine runs f on a new goroutine and returns what it panicked with.
func inGoroutine(f func()) (r any) {
	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		f()
	}()
	return <-done
}

func TestGuardSameGoroutine(t *testing.T) {
	var g affinity.Guard
	if _, ok := g.Owner(); ok {
		t.Fatal("zero Guard is already claimed")
	}
	g.Check("test")
	g.Check("test")
	if !global.Debug {
		return
	}
	if owner, ok := g.Owner(); !ok || owner <= 0 {
		t.Errorf("Owner() = %d, %v; want a claimed guard", owner, ok)
	}
}

func TestGuardCrossGoroutine(t *testing.T) {
	if !global.Debug {
		t.Skip("goroutine checks are compiled out")
	}

	var g affinity.Guard
	g.Check("test")
	r := inGoroutine(func() { g.Check("test") })
	err, ok := r.(error)
	if !ok || !errors.Is(err, exception.ErrCrossGoroutineAccess()) {
		t.Fatalf("recovered %v; want ErrCrossGoroutineAccess", r)
	}

	// the owner keeps access after the violation
	g.Check("test")
}

func TestGuardClaimedElsewhere(t *testing.T) {
	if !global.Debug {
		t.Skip("goroutine checks are compiled out")
	}

	var g affinity.Guard
	if r := inGoroutine(func() { g.Check("test") }); r != nil {
		t.Fatalf("first Check panicked: %v", r)
	}
	if r := inGoroutine(func() { g.Check("test") }); r == nil {
		t.Fatal("Check from a second goroutine did not panic")
	}
}

func TestGuardID(t *testing.T) {
	var a, b affinity.Guard
	if a.ID() != a.ID() {
		t.Error("ID changed between calls")
	}
	if a.ID() == b.ID() {
		t.Error("two guards share an ID")
	}
}

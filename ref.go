package singleton

import (
	"Inskape/singleton/core/affinity"
	"Inskape/singleton/core/exception"

	"go.uber.org/zap"
)

// A Ref is a shared view of a cell's value. While any Ref is outstanding,
// the cell refuses exclusive access. Release must be called exactly once,
// typically with defer.
type Ref[T any] struct {
	v       *T
	release func()
	guard   *affinity.Guard
	name    string
	done    bool
}

// Value returns a copy of the viewed value.
func (r *Ref[T]) Value() T {
	r.check()
	return *r.v
}

// Ptr returns the address of the viewed value. Writing through it bypasses
// the borrow rules.
func (r *Ref[T]) Ptr() *T {
	r.check()
	return r.v
}

// Release ends the view.
func (r *Ref[T]) Release() {
	r.check()
	r.done = true
	r.release()
}

func (r *Ref[T]) check() {
	checkView(r.guard, r.name, r.done)
}

// A RefMut is the exclusive view of a cell's value. While it is outstanding
// the cell refuses every other view. Release must be called exactly once.
type RefMut[T any] struct {
	v       *T
	release func()
	guard   *affinity.Guard
	name    string
	done    bool
}

// Value returns a copy of the viewed value.
func (r *RefMut[T]) Value() T {
	r.check()
	return *r.v
}

// Ptr returns the address of the viewed value, valid for mutation until
// Release.
func (r *RefMut[T]) Ptr() *T {
	r.check()
	return r.v
}

// Set overwrites the viewed value and tears down the old one, like Replace
// on the cell.
func (r *RefMut[T]) Set(val T) {
	r.check()
	old := *r.v
	*r.v = val
	discard(r.guard, r.name, &old, &val)
}

// Release ends the view.
func (r *RefMut[T]) Release() {
	r.check()
	r.done = true
	r.release()
}

func (r *RefMut[T]) check() {
	checkView(r.guard, r.name, r.done)
}

func checkView(g *affinity.Guard, name string, done bool) {
	g.Check(name)
	if done {
		exception.Raise(exception.ErrReleasedView().WithDetail(name), zap.String("cell", name))
	}
}

// MapRef narrows r to a part of its value, such as a field. r is released
// into the returned view: release that one instead.
func MapRef[T, U any](r *Ref[T], f func(*T) *U) *Ref[U] {
	r.check()
	m := &Ref[U]{v: f(r.v), release: r.release, guard: r.guard, name: r.name}
	r.done = true
	return m
}

// MapRefMut is MapRef for exclusive views.
func MapRefMut[T, U any](r *RefMut[T], f func(*T) *U) *RefMut[U] {
	r.check()
	m := &RefMut[U]{v: f(r.v), release: r.release, guard: r.guard, name: r.name}
	r.done = true
	return m
}

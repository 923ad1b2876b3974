// Package singleton provides cells for global mutable state that belongs to
// a single goroutine.
//
// A cell hands out scoped views of its value: any number of shared Refs, or
// one exclusive RefMut. Misuse is a programming error and panics with a
// core/exception value:
//
//   - touching a cell from a goroutine other than the first one to use it
//   - asking for an exclusive view while any other view is outstanding, or
//     for a shared view while an exclusive one is
//   - reading an Uninit before Init, or calling Init twice
//
// The goroutine and borrow checks are compiled out by the singleton_release
// build tag; initialization checks always stay.
//
// Cells are meant to be declared at package level:
//
//	var greeting = singleton.New("Hello")
//	var config singleton.Uninit[Config]
//	var table = singleton.NewLazy(buildTable)
package singleton

import "Inskape/singleton/core/atomic"

const kindSingleton = "Singleton"

// A Singleton is a cell that holds a value from construction on.
//
// A Singleton must not be copied after first use.
type Singleton[T any] struct {
	cell[T]
}

// New returns a Singleton holding val.
func New[T any](val T, opts ...Option) *Singleton[T] {
	o := newOptions(kindSingleton, opts)
	s := &Singleton[T]{}
	s.name = o.name
	s.state = full
	s.value = atomic.NewRefCell(val)
	return s
}

// Get returns a shared view of the value.
func (s *Singleton[T]) Get() *Ref[T] {
	s.access()
	return s.get(kindSingleton)
}

// GetMut returns the exclusive view of the value.
func (s *Singleton[T]) GetMut() *RefMut[T] {
	s.access()
	return s.getMut(kindSingleton)
}

// Replace stores val and tears down the previous value.
func (s *Singleton[T]) Replace(val T) {
	s.access()
	s.replace(kindSingleton, val)
}

// Load returns a copy of the value.
func (s *Singleton[T]) Load() T {
	r := s.Get()
	defer r.Release()
	return r.Value()
}

// Read calls f with the value under a shared view.
func (s *Singleton[T]) Read(f func(T)) {
	r := s.Get()
	defer r.Release()
	f(r.Value())
}

// Update calls f with the value under the exclusive view.
func (s *Singleton[T]) Update(f func(*T)) {
	m := s.GetMut()
	defer m.Release()
	f(m.Ptr())
}

// Ptr returns the address of the value after checking that no exclusive
// view is outstanding. Nothing is checked for uses of the pointer.
func (s *Singleton[T]) Ptr() *T {
	s.access()
	return s.ptr(kindSingleton)
}

// Destroy tears the value down. Any later use of s panics.
func (s *Singleton[T]) Destroy() {
	s.access()
	old := s.take(kindSingleton)
	s.state = destroyed
	s.drop(kindSingleton, &old)
}

func (s *Singleton[T]) access() {
	s.enter(kindSingleton)
	s.requireInit(kindSingleton)
}

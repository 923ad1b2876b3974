package singleton

import (
	"Inskape/singleton/core/exception"
	"context"
)

const kindLazy = "Lazy"

// A Lazy is a cell whose value is computed by a fill function on first use.
//
// Using the cell from inside its own fill function panics. If fill panics,
// the cell stays empty and the next use calls fill again.
//
// A Lazy must not be copied after first use.
type Lazy[T any] struct {
	cell[T]
	fill func() T
}

// NewLazy returns a cell that calls fill on first use.
func NewLazy[T any](fill func() T, opts ...Option) *Lazy[T] {
	l := &Lazy[T]{fill: fill}
	l.name = newOptions(kindLazy, opts).name
	return l
}

// Get returns a shared view of the value, computing it if needed.
func (l *Lazy[T]) Get() *Ref[T] {
	l.access()
	return l.get(kindLazy)
}

// GetMut returns the exclusive view of the value, computing it if needed.
func (l *Lazy[T]) GetMut() *RefMut[T] {
	l.access()
	return l.getMut(kindLazy)
}

// Replace stores val and tears down the previous value. If the value had not
// been computed yet, fill runs first so that its result is torn down too.
func (l *Lazy[T]) Replace(val T) {
	l.access()
	l.replace(kindLazy, val)
}

// Load returns a copy of the value.
func (l *Lazy[T]) Load() T {
	r := l.Get()
	defer r.Release()
	return r.Value()
}

// Read calls f with the value under a shared view.
func (l *Lazy[T]) Read(f func(T)) {
	r := l.Get()
	defer r.Release()
	f(r.Value())
}

// Update calls f with the value under the exclusive view.
func (l *Lazy[T]) Update(f func(*T)) {
	m := l.GetMut()
	defer m.Release()
	f(m.Ptr())
}

// Ptr returns the address of the value after checking that no exclusive
// view is outstanding. Nothing is checked for uses of the pointer.
func (l *Lazy[T]) Ptr() *T {
	l.access()
	return l.ptr(kindLazy)
}

func (l *Lazy[T]) access() {
	l.enter(kindLazy)
	if l.state == empty {
		l.force()
	}
	l.requireInit(kindLazy)
}

func (l *Lazy[T]) force() {
	if l.fill == nil {
		l.raise(kindLazy, exception.ErrNilFill())
	}

	l.state = filling
	defer func() {
		if l.state == filling {
			l.state = empty
		}
	}()

	val := l.fill()
	fillCounter.Add(context.Background(), 1)
	l.store(kindLazy, val)
	l.fill = nil
}

package singleton

import (
	"Inskape/singleton/core/affinity"
	"Inskape/singleton/core/atomic"
	"Inskape/singleton/core/exception"
	"Inskape/singleton/internal/global"
	"context"
	"reflect"

	"go.uber.org/zap"
)

type state uint8

const (
	empty state = iota
	full
	filling
	destroyed
)

// Dropper is implemented by values that need teardown. When a cell discards
// a value, on Replace, Destroy or RefMut.Set, it calls Drop exactly once, on
// the value itself or on a pointer to it. Storing the pointer a cell already
// holds is not a discard and does not call Drop.
type Dropper interface {
	Drop()
}

// An Option configures a cell.
type Option func(*options)

type options struct {
	name string
}

// WithName labels a cell in panics and logs.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func newOptions(kind string, opts []Option) options {
	o := options{name: kind}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// cell is the machinery shared by Singleton, Uninit and Lazy: an owner guard
// in front of a borrow-tracking slot, plus the slot's initialization state.
//
// state is a plain field: every path reads it only after the guard has
// confirmed the owning goroutine.
type cell[T any] struct {
	guard affinity.Guard
	value atomic.RefCell[T]
	state state
	name  string
}

func (c *cell[T]) label(kind string) string {
	if c.name == "" {
		return kind
	}
	return c.name
}

func (c *cell[T]) enter(kind string) {
	c.guard.Check(c.label(kind))
}

func (c *cell[T]) raise(kind string, e exception.Exception) {
	exception.Raise(e.WithDetail(c.label(kind)),
		zap.String("cell", c.label(kind)),
		zap.Stringer("id", c.guard.ID()),
	)
}

func (c *cell[T]) debug(kind, msg string) {
	logDebug(&c.guard, c.label(kind), msg)
}

func logDebug(g *affinity.Guard, name, msg string) {
	if ce := global.Logger().Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(zap.String("cell", name), zap.Stringer("id", g.ID()))
	}
}

func (c *cell[T]) requireInit(kind string) {
	switch c.state {
	case full:
	case empty:
		c.raise(kind, exception.ErrUninitialized())
	case filling:
		c.raise(kind, exception.ErrRecursiveInit())
	case destroyed:
		c.raise(kind, exception.ErrDestroyed())
	}
}

// store fills an empty slot. No view can be outstanding while the slot is
// empty, so no borrow is taken.
func (c *cell[T]) store(kind string, val T) {
	*c.value.Unchecked() = val
	c.state = full
	initCounter.Add(context.Background(), 1)
	c.debug(kind, "initialized")
}

func (c *cell[T]) get(kind string) *Ref[T] {
	v, ok := c.value.TryBorrow()
	if !ok {
		c.raise(kind, exception.ErrAlreadyMutablyBorrowed())
	}
	return &Ref[T]{v: v, release: c.value.Release, guard: &c.guard, name: c.label(kind)}
}

func (c *cell[T]) getMut(kind string) *RefMut[T] {
	v, flag := c.value.TryBorrowMut()
	if v == nil {
		c.raise(kind, atomic.BorrowMutConflict(flag))
	}
	return &RefMut[T]{v: v, release: c.value.ReleaseMut, guard: &c.guard, name: c.label(kind)}
}

// take empties the slot under an exclusive borrow and returns what it held.
func (c *cell[T]) take(kind string) T {
	v, flag := c.value.TryBorrowMut()
	if v == nil {
		c.raise(kind, atomic.BorrowMutConflict(flag))
	}
	defer c.value.ReleaseMut()

	var zero T
	old := *v
	*v = zero
	return old
}

func (c *cell[T]) replace(kind string, val T) {
	v, flag := c.value.TryBorrowMut()
	if v == nil {
		c.raise(kind, atomic.BorrowMutConflict(flag))
	}
	old := *v
	*v = val
	c.value.ReleaseMut()
	discard(&c.guard, c.label(kind), &old, &val)
}

// discard accounts for old having been overwritten by val and tears old
// down, unless both are the same pointer and old is therefore still live.
func discard[T any](g *affinity.Guard, name string, old, val *T) {
	replaceCounter.Add(context.Background(), 1)
	logDebug(g, name, "replaced")
	if !aliases(*old, *val) && teardown(old) {
		logDebug(g, name, "dropped")
	}
}

// ptr checks that no exclusive view is outstanding and returns the slot's
// address without holding a borrow.
func (c *cell[T]) ptr(kind string) *T {
	v, ok := c.value.TryBorrow()
	if !ok {
		c.raise(kind, exception.ErrAlreadyMutablyBorrowed())
	}
	c.value.Release()
	return v
}

func (c *cell[T]) drop(kind string, v *T) {
	if teardown(v) {
		c.debug(kind, "dropped")
	}
}

// teardown calls Drop on *v or v, and reports whether there was one to call.
func teardown[T any](v *T) bool {
	if isNil(*v) {
		return false
	}
	if d, ok := any(*v).(Dropper); ok {
		d.Drop()
	} else if d, ok := any(v).(Dropper); ok {
		d.Drop()
	} else {
		return false
	}
	dropCounter.Add(context.Background(), 1)
	return true
}

// aliases reports whether a and b are the same non-nil pointer.
func aliases(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() != reflect.Pointer || rb.Kind() != reflect.Pointer || ra.Type() != rb.Type() {
		return false
	}
	return !ra.IsNil() && ra.Pointer() == rb.Pointer()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

package atomic

import (
	"Inskape/singleton/core/exception"
	"Inskape/singleton/internal/global"
	"context"
	stdatomic "sync/atomic"
)

// mutBorrowed is the flag value while an exclusive borrow is outstanding.
const mutBorrowed int64 = -1

// A RefCell holds a value and tracks at run time whether it is borrowed
// shared (any number of readers) or exclusive (a single writer).
//
// The borrow flag is atomic so that misuse from another goroutine is reported
// rather than racing, but a RefCell is not a lock: a conflicting borrow is
// rejected, never waited for.
//
// Built with the singleton_release tag, the flag is not maintained and every
// borrow succeeds.
//
// A RefCell must not be copied after first use.
type RefCell[T any] struct {
	// flag is mutBorrowed, or the number of outstanding shared borrows.
	flag  stdatomic.Int64
	value T
}

// NewRefCell returns an unborrowed RefCell holding val.
func NewRefCell[T any](val T) RefCell[T] {
	return RefCell[T]{value: val}
}

// TryBorrow takes a shared borrow. It fails only while an exclusive borrow is
// outstanding.
func (c *RefCell[T]) TryBorrow() (*T, bool) {
	if !global.Debug {
		return &c.value, true
	}
	for {
		n := c.flag.Load()
		if n == mutBorrowed {
			conflictCounter.Add(context.Background(), 1)
			return nil, false
		}
		if c.flag.CompareAndSwap(n, n+1) {
			borrowCounter.Add(context.Background(), 1)
			return &c.value, true
		}
	}
}

// TryBorrowMut takes an exclusive borrow. On failure it returns the flag it
// observed, to be turned into a panic by BorrowMutConflict.
func (c *RefCell[T]) TryBorrowMut() (*T, int64) {
	if !global.Debug {
		return &c.value, 0
	}
	if !c.flag.CompareAndSwap(0, mutBorrowed) {
		conflictCounter.Add(context.Background(), 1)
		return nil, c.flag.Load()
	}
	borrowMutCounter.Add(context.Background(), 1)
	return &c.value, 0
}

// Release gives back a shared borrow.
func (c *RefCell[T]) Release() {
	if !global.Debug {
		return
	}
	for {
		n := c.flag.Load()
		if n <= 0 {
			exception.Raise(exception.ErrReleasedView().WithDetail("no shared borrow outstanding"))
		}
		if c.flag.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// ReleaseMut gives back the exclusive borrow.
func (c *RefCell[T]) ReleaseMut() {
	if !global.Debug {
		return
	}
	if !c.flag.CompareAndSwap(mutBorrowed, 0) {
		exception.Raise(exception.ErrReleasedView().WithDetail("no exclusive borrow outstanding"))
	}
}

// Unchecked returns a pointer to the value without taking a borrow.
func (c *RefCell[T]) Unchecked() *T {
	return &c.value
}

// BorrowMutConflict builds the exception for an exclusive borrow rejected
// with the given flag.
func BorrowMutConflict(flag int64) exception.Exception {
	if flag == mutBorrowed {
		return exception.ErrAlreadyMutablyBorrowed()
	}
	return exception.ErrAlreadyBorrowed().WithDetailf("%d shared borrows outstanding", flag)
}

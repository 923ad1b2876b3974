package singleton

import "Inskape/singleton/core/exception"

const kindUninit = "Uninit"

// An Uninit is a cell that starts empty and is filled once by Init. Every
// other method panics until then.
//
// The zero value is an empty cell. An Uninit must not be copied after first
// use.
type Uninit[T any] struct {
	cell[T]
}

// NewUninit returns an empty cell. It is only needed to pass options; the
// zero value works otherwise.
func NewUninit[T any](opts ...Option) *Uninit[T] {
	u := &Uninit[T]{}
	u.name = newOptions(kindUninit, opts).name
	return u
}

// Init stores val in the empty cell. It panics if u already holds a value.
func (u *Uninit[T]) Init(val T) {
	u.enter(kindUninit)
	if u.state == full {
		u.raise(kindUninit, exception.ErrAlreadyInitialized())
	}
	u.store(kindUninit, val)
}

// InitOrReplace is Init if u is empty, and Replace otherwise.
func (u *Uninit[T]) InitOrReplace(val T) {
	u.enter(kindUninit)
	if u.state == full {
		u.replace(kindUninit, val)
		return
	}
	u.store(kindUninit, val)
}

// IsInit reports whether u holds a value.
func (u *Uninit[T]) IsInit() bool {
	u.enter(kindUninit)
	return u.state == full
}

// Get returns a shared view of the value.
func (u *Uninit[T]) Get() *Ref[T] {
	u.access()
	return u.get(kindUninit)
}

// GetMut returns the exclusive view of the value.
func (u *Uninit[T]) GetMut() *RefMut[T] {
	u.access()
	return u.getMut(kindUninit)
}

// Replace stores val and tears down the previous value.
func (u *Uninit[T]) Replace(val T) {
	u.access()
	u.replace(kindUninit, val)
}

// Load returns a copy of the value.
func (u *Uninit[T]) Load() T {
	r := u.Get()
	defer r.Release()
	return r.Value()
}

// Read calls f with the value under a shared view.
func (u *Uninit[T]) Read(f func(T)) {
	r := u.Get()
	defer r.Release()
	f(r.Value())
}

// Update calls f with the value under the exclusive view.
func (u *Uninit[T]) Update(f func(*T)) {
	m := u.GetMut()
	defer m.Release()
	f(m.Ptr())
}

// Ptr returns the address of the value after checking that no exclusive
// view is outstanding. Nothing is checked for uses of the pointer.
func (u *Uninit[T]) Ptr() *T {
	u.access()
	return u.ptr(kindUninit)
}

// Destroy tears down the value, if there is one, and empties the cell so it
// can be initialized again.
func (u *Uninit[T]) Destroy() {
	u.enter(kindUninit)
	if u.state != full {
		return
	}
	old := u.take(kindUninit)
	u.state = empty
	u.drop(kindUninit, &old)
}

func (u *Uninit[T]) access() {
	u.enter(kindUninit)
	u.requireInit(kindUninit)
}

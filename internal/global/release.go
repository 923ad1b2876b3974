//go:build singleton_release

package global

// Debug reports whether goroutine-affinity and borrow checks are compiled in.
//
// With the singleton_release tag the checks are gone and callers are
// responsible for keeping every cell on a single goroutine.
const Debug = false

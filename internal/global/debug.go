//go:build !singleton_release

package global

// Debug reports whether goroutine-affinity and borrow checks are compiled in.
// Build with the singleton_release tag to turn them off.
const Debug = true

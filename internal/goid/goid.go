// Package goid reports the ID of the calling goroutine.
//
// Go deliberately hides goroutine identity. The only portable way to get
// it is the header line of the caller's stack trace, so this is only meant
// for diagnostics such as the ownership checks in core/affinity.
package goid

import "runtime"

// Get returns the ID of the calling goroutine, or 0 if it cannot be parsed.
func Get() int64 {
	// only the header line is needed: "goroutine 123 [running]:\n..."
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

func parse(buf []byte) int64 {
	const prefix = "goroutine "

	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var id int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}

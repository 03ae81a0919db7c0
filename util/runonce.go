package util

import (
	"sync/atomic"
)

// NewRunOnce wraps f to be invoked at most once, e.g. for Stop() and Close() called from multiple places
//
// The returned function reports whether the current call is the one that invoked f. Concurrent callers don't wait
// for f to finish.
func NewRunOnce(f func()) func() bool {
	invoked := &atomic.Bool{}
	return func() bool {
		if !invoked.CompareAndSwap(false, true) {
			return false
		}
		f()
		return true
	}
}

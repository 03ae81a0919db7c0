package util

import (
	"sync"
	"time"

	"github.com/relex/gotils/channels"
)

// Future holds a value which is resolved once in background
//
// Callbacks registered by OnResolved are invoked in the goroutine calling Resolve, or immediately if already resolved.
// They must not block.
type Future[T any] struct {
	lock      sync.Mutex
	resolved  bool
	value     T
	callbacks []func(T)
	done      *channels.SignalAwaitable
}

// NewFuture creates an unresolved Future
func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		done: channels.NewSignalAwaitable(),
	}
}

// ResolvedFuture creates a Future already resolved with the given value
func ResolvedFuture[T any](value T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(value)
	return f
}

// Resolve sets the value and triggers callbacks
//
// Returns false if the future has been resolved before, in which case the value is ignored
func (f *Future[T]) Resolve(value T) bool {
	f.lock.Lock()
	if f.resolved {
		f.lock.Unlock()
		return false
	}
	f.resolved = true
	f.value = value
	callbacks := f.callbacks
	f.callbacks = nil
	f.lock.Unlock()

	for _, cb := range callbacks {
		cb(value)
	}
	f.done.Signal()
	return true
}

// OnResolved registers a callback to be invoked with the resolved value
func (f *Future[T]) OnResolved(callback func(T)) {
	f.lock.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, callback)
		f.lock.Unlock()
		return
	}
	value := f.value
	f.lock.Unlock()
	callback(value)
}

// Done returns an Awaitable signaled after the future is resolved and all callbacks have returned
func (f *Future[T]) Done() channels.Awaitable {
	return f.done
}

// Peek returns the value and true if resolved
func (f *Future[T]) Peek() (T, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.value, f.resolved
}

// Wait waits for the future to be resolved with timeout
func (f *Future[T]) Wait(timeout time.Duration) (T, bool) {
	if !f.done.Wait(timeout) {
		var empty T
		return empty, false
	}
	return f.Peek()
}

// ThenFuture chains another asynchronous step after the source future is resolved
func ThenFuture[T any, U any](source *Future[T], next func(T) *Future[U]) *Future[U] {
	result := NewFuture[U]()
	source.OnResolved(func(value T) {
		next(value).OnResolved(func(nextValue U) {
			result.Resolve(nextValue)
		})
	})
	return result
}

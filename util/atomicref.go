package util

import (
	"sync/atomic"
	"unsafe"
)

// AtomicRef is a generic version of atomic.Value, to hold object references atomically
type AtomicRef[T any] struct {
	pointer unsafe.Pointer
}

// NewAtomicRef creates an AtomicRef holding the given reference
func NewAtomicRef[T any](reference *T) *AtomicRef[T] {
	return &AtomicRef[T]{pointer: unsafe.Pointer(reference)}
}

// Get retrieves the reference atomically. It may return nil.
func (ref *AtomicRef[T]) Get() *T {
	return (*T)(atomic.LoadPointer(&ref.pointer))
}

// Set stores the given reference atomically. The reference may be nil.
func (ref *AtomicRef[T]) Set(reference *T) {
	atomic.StorePointer(&ref.pointer, unsafe.Pointer(reference))
}

// CompareAndSwap replaces the reference with "next" only if it's still "current"
//
// Returns true if the swap happened
func (ref *AtomicRef[T]) CompareAndSwap(current *T, next *T) bool {
	return atomic.CompareAndSwapPointer(&ref.pointer, unsafe.Pointer(current), unsafe.Pointer(next))
}

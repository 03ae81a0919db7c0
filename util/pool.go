package util

import (
	"math/bits"
	"sync"

	"github.com/relex/gotils/logger"
)

// Pool is a typed sync.Pool
type Pool[T any] struct {
	inner sync.Pool
}

// NewPool creates a Pool which calls newFunc when it's empty
func NewPool[T any](newFunc func() T) *Pool[T] {
	pool := &Pool[T]{}
	pool.inner.New = func() any { return newFunc() }
	return pool
}

func (pool *Pool[T]) Get() T {
	raw := pool.inner.Get()
	if val, ok := raw.(T); ok {
		return val
	}
	logger.Panicf("wrong type of object in Pool: %T", raw)
	return *new(T)
}

func (pool *Pool[T]) Put(value T) {
	pool.inner.Put(value)
}

// SizedBytesPool keeps byte buffers in classes of power-of-two lengths
//
// Buffers are returned as pointers to avoid an allocation per Put
type SizedBytesPool struct {
	classes [32]*Pool[*[]byte]
}

// NewSizedBytesPool creates a SizedBytesPool for buffers up to 2GB
func NewSizedBytesPool() *SizedBytesPool {
	sp := &SizedBytesPool{}
	for n := range sp.classes {
		length := 1 << n
		sp.classes[n] = NewPool(func() *[]byte {
			buf := make([]byte, length)
			return &buf
		})
	}
	return sp
}

// Get fetches a buffer of at least minLength bytes, the smallest class that fits
//
// The length is exactly minLength if it's a power of two
func (sp *SizedBytesPool) Get(minLength int) *[]byte {
	if minLength <= 1 {
		return sp.classes[0].Get()
	}
	return sp.classes[bits.Len32(uint32(minLength-1))].Get()
}

// Put recycles a buffer obtained from Get
func (sp *SizedBytesPool) Put(buf *[]byte) {
	sp.classes[bits.Len32(uint32(len(*buf)))-1].Put(buf)
}

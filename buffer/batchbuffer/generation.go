package batchbuffer

import (
	"runtime"
	"sync/atomic"
	"time"
)

const (
	slotEmpty   uint32 = 0
	slotWritten uint32 = 1
	slotInvalid uint32 = 2
)

// generation is the fixed-size storage filled by producers until retired
//
// Producers reserve slots by incrementing "reserved" and count themselves in "completed" after the slot is written.
// After retirement "reserved" is pushed beyond capacity so that late producers can't reserve anything.
type generation[R any] struct {
	records   []R
	states    []atomic.Uint32
	reserved  atomic.Int64
	completed atomic.Int64
}

func newGeneration[R any](capacity int) *generation[R] {
	return &generation[R]{
		records: make([]R, capacity),
		states:  make([]atomic.Uint32, capacity),
	}
}

// seal blocks further reservation and returns the numbers of slots reserved before
func (gen *generation[R]) seal() int {
	capacity := int64(len(gen.records))
	prev := gen.reserved.Add(capacity) - capacity
	if prev > capacity {
		return int(capacity)
	}
	return int(prev)
}

// awaitWriters waits until the first "count" reserved slots are written, or timeout (zero for no limit)
func (gen *generation[R]) awaitWriters(count int, timeout time.Duration) bool {
	if gen.completed.Load() >= int64(count) {
		return true
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for gen.completed.Load() < int64(count) {
		if timeout > 0 && time.Now().After(deadline) {
			return false
		}
		runtime.Gosched()
	}
	return true
}

// collect returns the written records among the first "count" slots, in slot order
//
// Unwritten slots (invalid or late) are skipped and their numbers returned
func (gen *generation[R]) collect(count int) ([]R, int) {
	written := 0
	for i := 0; i < count; i++ {
		if gen.states[i].Load() == slotWritten {
			written++
		}
	}
	if written == count {
		return gen.records[:count:count], 0
	}
	if written == 0 {
		return nil, count
	}
	batch := make([]R, 0, written)
	for i := 0; i < count; i++ {
		if gen.states[i].Load() == slotWritten {
			batch = append(batch, gen.records[i])
		}
	}
	return batch, count - written
}

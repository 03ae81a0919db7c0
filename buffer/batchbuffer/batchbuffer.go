// Package batchbuffer provides a lock-free buffer to collect records from concurrent producers into batches
package batchbuffer

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/util"
)

// BatchBuffer collects records mapped from items appended by concurrent producers
//
// A batch is produced either by the producer filling the last slot, or by Drain() regardless of fill level.
// The only shared states are the fill counter of the current generation and the reference to it, both updated atomically.
type BatchBuffer[I any, R any] struct {
	logger    logger.Logger
	capacity  int
	mapRecord func(item I, record *R) error
	current   *util.AtomicRef[generation[R]]
}

// New creates a BatchBuffer of given capacity in numbers of records
//
// mapRecord fills a zero-valued record from an item. If it returns error or panics, the item is skipped.
func New[I any, R any](parentLogger logger.Logger, capacity int, mapRecord func(item I, record *R) error) (*BatchBuffer[I, R], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("invalid capacity %d: must be positive", capacity)
	}
	if mapRecord == nil {
		return nil, fmt.Errorf("missing record mapper")
	}
	return &BatchBuffer[I, R]{
		logger:    parentLogger.WithField(defs.LabelComponent, "BatchBuffer"),
		capacity:  capacity,
		mapRecord: mapRecord,
		current:   util.NewAtomicRef(newGeneration[R](capacity)),
	}, nil
}

// Capacity returns the max numbers of records in one batch
func (buf *BatchBuffer[I, R]) Capacity() int {
	return buf.capacity
}

// Append maps and stores the given item
//
// Returns a full batch if this call has filled the last slot, and whether the item has been stored.
//
// An item is not stored when the current generation has been filled up by other producers but not yet swapped.
// Retrying would put it into the next generation.
func (buf *BatchBuffer[I, R]) Append(item I) ([]R, bool) {
	gen := buf.current.Get()
	index := gen.reserved.Add(1) - 1
	if index >= int64(buf.capacity) {
		return nil, false
	}

	buf.fill(gen, int(index), item)

	if index != int64(buf.capacity-1) {
		return nil, true
	}

	if !buf.current.CompareAndSwap(gen, newGeneration[R](buf.capacity)) {
		// drained at the same time; the draining side owns the batch and would wait for this slot
		return nil, true
	}
	gen.awaitWriters(buf.capacity, 0)
	batch, numSkipped := gen.collect(buf.capacity)
	if numSkipped > 0 {
		buf.logger.Debugf("skipped %d invalid records in full batch", numSkipped)
	}
	return batch, true
}

// Drain swaps out the current generation and returns whatever has been written into it
//
// It waits up to timeout for producers which have reserved a slot but not yet finished writing.
// Zero timeout waits as long as needed. Records still being written after timeout are lost.
func (buf *BatchBuffer[I, R]) Drain(timeout time.Duration) []R {
	var gen *generation[R]
	for {
		gen = buf.current.Get()
		if gen.reserved.Load() == 0 {
			return nil
		}
		if buf.current.CompareAndSwap(gen, newGeneration[R](buf.capacity)) {
			break
		}
	}

	count := gen.seal()
	if !gen.awaitWriters(count, timeout) {
		buf.logger.Warnf("timeout waiting for in-flight writers after %s", timeout)
	}
	batch, numSkipped := gen.collect(count)
	if numSkipped > 0 {
		buf.logger.Debugf("skipped %d invalid or unfinished records in drained batch", numSkipped)
	}
	return batch
}

func (buf *BatchBuffer[I, R]) fill(gen *generation[R], index int, item I) {
	state := slotInvalid
	defer func() {
		if r := recover(); r != nil {
			buf.logger.Warnf("panic mapping item: %v\n%s", r, debug.Stack())
		}
		gen.states[index].Store(state)
		gen.completed.Add(1)
	}()

	if err := buf.mapRecord(item, &gen.records[index]); err != nil {
		buf.logger.Warn("failed to map item: ", err)
		return
	}
	state = slotWritten
}

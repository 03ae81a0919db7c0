package shared

import (
	"sync"
	"time"
)

// BatchIDGenerator generates batch IDs from nanosecond timestamps, unique and increasing within the generator
type BatchIDGenerator struct {
	lock   sync.Mutex
	lastID int64
}

// Generate returns the next batch ID, which is the current time in nanoseconds or the last ID + 1 if time hasn't changed
func (generator *BatchIDGenerator) Generate() int64 {
	generator.lock.Lock()
	defer generator.lock.Unlock()
	nextID := time.Now().UnixNano()
	if nextID <= generator.lastID {
		nextID = generator.lastID + 1
	}
	generator.lastID = nextID
	return nextID
}

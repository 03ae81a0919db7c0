package util

import (
	"sync"

	"github.com/relex/gotils/channels"
)

// InflightCounter counts running tasks and signals when the count drops to zero
//
// Unlike sync.WaitGroup, Add may be called at any time including while others are waiting for idle. Waiters see the
// state at the time Idle is called; tasks added later are not waited.
type InflightCounter struct {
	lock  sync.Mutex
	count int
	idle  *channels.SignalAwaitable
}

// NewInflightCounter creates an idle InflightCounter
func NewInflightCounter() *InflightCounter {
	idle := channels.NewSignalAwaitable()
	idle.Signal()
	return &InflightCounter{idle: idle}
}

// Add counts a new task in
func (ic *InflightCounter) Add() {
	ic.lock.Lock()
	defer ic.lock.Unlock()
	if ic.count == 0 {
		ic.idle = channels.NewSignalAwaitable()
	}
	ic.count++
}

// Done counts a task out
func (ic *InflightCounter) Done() {
	ic.lock.Lock()
	defer ic.lock.Unlock()
	if ic.count == 0 {
		panic("InflightCounter.Done without Add")
	}
	ic.count--
	if ic.count == 0 {
		ic.idle.Signal()
	}
}

// Count returns the numbers of running tasks
func (ic *InflightCounter) Count() int {
	ic.lock.Lock()
	defer ic.lock.Unlock()
	return ic.count
}

// Idle returns an awaitable signaled when all the tasks running at the moment are done
func (ic *InflightCounter) Idle() channels.Awaitable {
	ic.lock.Lock()
	defer ic.lock.Unlock()
	return ic.idle
}

package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInflightCounter(t *testing.T) {
	ic := NewInflightCounter()
	assert.True(t, ic.Idle().Peek())

	ic.Add()
	ic.Add()
	idle := ic.Idle()
	assert.False(t, idle.Wait(10*time.Millisecond))
	assert.Equal(t, 2, ic.Count())

	ic.Done()
	assert.False(t, idle.Peek())
	ic.Done()
	assert.True(t, idle.Wait(time.Second))
	assert.Equal(t, 0, ic.Count())

	// a new round of tasks doesn't affect the idle signal already fired
	ic.Add()
	assert.True(t, idle.Peek())
	assert.False(t, ic.Idle().Peek())
	ic.Done()
	assert.True(t, ic.Idle().Peek())

	assert.Panics(t, ic.Done)
}

func TestInflightCounterAddWhileWaiting(t *testing.T) {
	ic := NewInflightCounter()
	wg := &sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ic.Add()
			time.Sleep(time.Millisecond)
			ic.Done()
		}()
		go func() {
			defer wg.Done()
			ic.Idle().Wait(5 * time.Millisecond)
		}()
	}
	wg.Wait()
	assert.True(t, ic.Idle().Wait(time.Second))
	assert.Equal(t, 0, ic.Count())
}

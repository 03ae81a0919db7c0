package util

import (
	"testing"
	"time"

	"github.com/relex/slog-loki/defs"
	"github.com/stretchr/testify/assert"
)

func TestFuture(t *testing.T) {
	f := NewFuture[int]()
	_, ok := f.Peek()
	assert.False(t, ok)

	_, ok = f.Wait(10 * time.Millisecond)
	assert.False(t, ok)

	var seen []int
	f.OnResolved(func(v int) { seen = append(seen, v) })

	go f.Resolve(3)
	v, ok := f.Wait(defs.TestReadTimeout)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, []int{3}, seen)

	assert.False(t, f.Resolve(4))
	f.OnResolved(func(v int) { seen = append(seen, v) })
	assert.Equal(t, []int{3, 3}, seen)
}

func TestThenFuture(t *testing.T) {
	first := NewFuture[int]()
	chained := ThenFuture(first, func(v int) *Future[string] {
		next := NewFuture[string]()
		go next.Resolve(time.Duration(v).String())
		return next
	})
	assert.False(t, chained.Done().Peek())

	first.Resolve(15)
	v, ok := chained.Wait(defs.TestReadTimeout)
	assert.True(t, ok)
	assert.Equal(t, "15ns", v)

	resolved := ThenFuture(ResolvedFuture(1), func(v int) *Future[int] { return ResolvedFuture(v + 1) })
	v2, ok2 := resolved.Peek()
	assert.True(t, ok2)
	assert.Equal(t, 2, v2)
}

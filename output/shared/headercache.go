package shared

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/util"
)

// HeaderCache keeps pre-encoded stream headers by label key
//
// The cache is reset when it grows over maxSize.
type HeaderCache struct {
	maxSize int64
	encode  func(stream *base.LogStream) string
	current util.AtomicRef[headerMap]
}

type headerMap struct {
	entries *xsync.MapOf[string]
	size    atomic.Int64
}

// NewHeaderCache creates a HeaderCache with the format-specific header encoder
func NewHeaderCache(maxSize int, encode func(stream *base.LogStream) string) *HeaderCache {
	cache := &HeaderCache{
		maxSize: int64(maxSize),
		encode:  encode,
	}
	cache.current.Set(&headerMap{entries: xsync.NewMapOf[string]()})
	return cache
}

// Get fetches or encodes the header of given stream
func (cache *HeaderCache) Get(stream *base.LogStream) string {
	current := cache.current.Get()
	if header, ok := current.entries.Load(stream.Key); ok {
		return header
	}
	header, loaded := current.entries.LoadOrStore(stream.Key, cache.encode(stream))
	if !loaded && current.size.Add(1) > cache.maxSize {
		cache.current.CompareAndSwap(current, &headerMap{entries: xsync.NewMapOf[string]()})
	}
	return header
}

package base

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync"
	"github.com/relex/slog-loki/util"
)

// LabelPair is a name-value pair of stream label
type LabelPair struct {
	Name  string
	Value string
}

// LogStream identifies a stream by its label key. Streams are compared by pointer within a batch.
type LogStream struct {
	Key    string      // Rendered label key, e.g. "app=foo,level=INFO"
	Labels []LabelPair // Parsed labels in the original order
}

// ParseLabels parses a rendered label key into pairs
//
// Empty pairs are ignored. Names and values are trimmed.
func ParseLabels(key string, pairSeparator string, keyValueSeparator string) ([]LabelPair, error) {
	parts := strings.Split(key, pairSeparator)
	labels := make([]LabelPair, 0, len(parts))
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, value, found := strings.Cut(part, keyValueSeparator)
		if !found {
			return nil, fmt.Errorf("label[%d] '%s': missing '%s'", i, part, keyValueSeparator)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("label[%d] '%s': empty name", i, part)
		}
		labels = append(labels, LabelPair{Name: name, Value: strings.TrimSpace(value)})
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no label in '%s'", key)
	}
	return labels, nil
}

// StreamRegistry interns LogStream by label key, so that equal keys map to the same pointer
//
// The registry is reset when it grows over maxSize. Streams in existing batches stay valid.
type StreamRegistry struct {
	pairSeparator     string
	keyValueSeparator string
	maxSize           int64
	streams           util.AtomicRef[streamMap]
}

type streamMap struct {
	entries *xsync.MapOf[*LogStream]
	size    atomic.Int64
}

// NewStreamRegistry creates a StreamRegistry with separators used to parse label keys
func NewStreamRegistry(pairSeparator string, keyValueSeparator string, maxSize int) *StreamRegistry {
	reg := &StreamRegistry{
		pairSeparator:     pairSeparator,
		keyValueSeparator: keyValueSeparator,
		maxSize:           int64(maxSize),
	}
	reg.streams.Set(&streamMap{entries: xsync.NewMapOf[*LogStream]()})
	return reg
}

// Get fetches or creates the stream for given label key
func (reg *StreamRegistry) Get(key string) (*LogStream, error) {
	current := reg.streams.Get()
	if stream, ok := current.entries.Load(key); ok {
		return stream, nil
	}

	labels, err := ParseLabels(key, reg.pairSeparator, reg.keyValueSeparator)
	if err != nil {
		return nil, err
	}
	newStream := &LogStream{
		Key:    strings.Clone(key),
		Labels: labels,
	}
	stream, loaded := current.entries.LoadOrStore(newStream.Key, newStream)
	if !loaded && current.size.Add(1) > reg.maxSize {
		reg.streams.CompareAndSwap(current, &streamMap{entries: xsync.NewMapOf[*LogStream]()})
	}
	return stream, nil
}

package shared

import (
	"time"

	"github.com/relex/slog-loki/base"
)

// Streams and records shared by encoder tests
var (
	TestStreamRegistry = base.NewStreamRegistry(",", "=", 100)
	TestStreamA        = mustGetTestStream("app=foo,level=INFO")
	TestStreamB        = mustGetTestStream("app=bar,level=WARN")
	TestBaseTime       = time.Date(2022, 8, 1, 10, 30, 40, 123456789, time.UTC)
)

// NewTestBatch creates a batch of records with lines and streams in the given order
func NewTestBatch(lines []string, streams []*base.LogStream) base.LogBatch {
	batch := make(base.LogBatch, len(lines))
	for i, ln := range lines {
		batch[i] = base.LogRecord{
			Timestamp: TestBaseTime.Add(time.Duration(i) * time.Millisecond).UnixNano(),
			Line:      ln,
			Stream:    streams[i],
		}
	}
	return batch
}

func mustGetTestStream(key string) *base.LogStream {
	stream, err := TestStreamRegistry.Get(key)
	if err != nil {
		panic(err)
	}
	return stream
}

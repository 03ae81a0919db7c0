package shared

import (
	"sync/atomic"

	"github.com/relex/slog-loki/base"
	"golang.org/x/exp/slices"
)

// StreamWriter writes records grouped by streams in a specific format
//
// The calling sequence is BeginStream, AppendRecord (repeated) and BeginNextStream (optional, repeated), then Finish.
// Finish alone is called for empty batches.
type StreamWriter interface {
	BeginStream(stream *base.LogStream)
	AppendRecord(record *base.LogRecord)
	BeginNextStream(stream *base.LogStream)
	Finish()
}

// StreamWriterFactory creates a new StreamWriter for each batch
type StreamWriterFactory func(out *OutputBuffer) StreamWriter

// StreamEncoder groups batch records into streams and writes them by format-specific StreamWriter
//
// In static label mode all records are written under the stream of the first record.
// In dynamic mode a new stream starts whenever the stream differs from the previous record; streams recurring
// non-contiguously are written as separate streams.
type StreamEncoder struct {
	contentType  string
	labelMode    base.LabelMode
	sortByStream bool
	newWriter    StreamWriterFactory
	lastSize     atomic.Int64
}

// NewStreamEncoder creates a StreamEncoder
//
// sortByStream makes streams contiguous by stable sorting of records by label keys before encoding
func NewStreamEncoder(contentType string, labelMode base.LabelMode, sortByStream bool, newWriter StreamWriterFactory) *StreamEncoder {
	return &StreamEncoder{
		contentType:  contentType,
		labelMode:    labelMode,
		sortByStream: sortByStream,
		newWriter:    newWriter,
	}
}

// ContentType returns the content type of encoded payload
func (enc *StreamEncoder) ContentType() string {
	return enc.contentType
}

// Encode encodes the batch into a new buffer
func (enc *StreamEncoder) Encode(batch base.LogBatch) []byte {
	out := NewGrowingBuffer(int(enc.lastSize.Load()))
	enc.write(batch, out)
	enc.lastSize.Store(int64(out.Pos()))
	return out.Bytes()
}

// EncodeInto encodes the batch into the given buffer from start and returns the length of output
func (enc *StreamEncoder) EncodeInto(batch base.LogBatch, buffer []byte, start int) (int, error) {
	out := NewFixedBuffer(buffer, start)
	enc.write(batch, out)
	if out.Overflowed() {
		return 0, base.ErrBufferOverflow
	}
	return out.Pos() - start, nil
}

func (enc *StreamEncoder) write(batch base.LogBatch, out *OutputBuffer) {
	writer := enc.newWriter(out)
	if len(batch) == 0 {
		writer.Finish()
		return
	}

	if enc.sortByStream && enc.labelMode == base.LabelModeDynamic {
		batch = slices.Clone(batch)
		slices.SortStableFunc(batch, func(a, b base.LogRecord) bool {
			return a.Stream.Key < b.Stream.Key
		})
	}

	prevStream := batch[0].Stream
	writer.BeginStream(prevStream)
	if enc.labelMode == base.LabelModeStatic {
		for i := range batch {
			writer.AppendRecord(&batch[i])
		}
		writer.Finish()
		return
	}

	for i := range batch {
		record := &batch[i]
		// the same key may come in different instances when the registry has been reset in between
		if record.Stream != prevStream && record.Stream.Key != prevStream.Key {
			writer.BeginNextStream(record.Stream)
			prevStream = record.Stream
		}
		writer.AppendRecord(record)
	}
	writer.Finish()
}

package shared

import (
	"strings"
	"testing"

	"github.com/relex/slog-loki/base"
	"github.com/stretchr/testify/assert"
)

// textWriter writes "<stream key>{line|line}" for each stream
type textWriter struct {
	out *OutputBuffer
}

func (w *textWriter) BeginStream(stream *base.LogStream) {
	w.write(stream.Key + "{")
}

func (w *textWriter) AppendRecord(record *base.LogRecord) {
	w.write(record.Line + "|")
}

func (w *textWriter) BeginNextStream(stream *base.LogStream) {
	w.write("}" + stream.Key + "{")
}

func (w *textWriter) Finish() {
	w.write("}")
}

func (w *textWriter) write(s string) {
	if buf, pos, ok := w.out.Reserve(len(s)); ok {
		w.out.Commit(pos + copy(buf[pos:], s))
	}
}

func newTextWriter(out *OutputBuffer) StreamWriter {
	return &textWriter{out}
}

func TestStreamEncoderDynamic(t *testing.T) {
	enc := NewStreamEncoder("text/plain", base.LabelModeDynamic, false, newTextWriter)
	batch := NewTestBatch([]string{"l1", "l2", "l3", "l4"}, []*base.LogStream{TestStreamA, TestStreamA, TestStreamB, TestStreamA})
	assert.Equal(t, "app=foo,level=INFO{l1|l2|}app=bar,level=WARN{l3|}app=foo,level=INFO{l4|}", string(enc.Encode(batch)))
	assert.Equal(t, "text/plain", enc.ContentType())
}

func TestStreamEncoderDynamicSorted(t *testing.T) {
	enc := NewStreamEncoder("text/plain", base.LabelModeDynamic, true, newTextWriter)
	batch := NewTestBatch([]string{"l1", "l2", "l3", "l4"}, []*base.LogStream{TestStreamA, TestStreamA, TestStreamB, TestStreamA})
	assert.Equal(t, "app=bar,level=WARN{l3|}app=foo,level=INFO{l1|l2|l4|}", string(enc.Encode(batch)))
	assert.Equal(t, "l1", batch[0].Line, "original batch must not be reordered")
}

func TestStreamEncoderDynamicRegistryReset(t *testing.T) {
	registry := base.NewStreamRegistry(",", "=", 1)
	before, err := registry.Get("app=foo,level=INFO")
	assert.NoError(t, err)
	_, err = registry.Get("app=bar,level=WARN") // over max size
	assert.NoError(t, err)
	after, err := registry.Get("app=foo,level=INFO")
	assert.NoError(t, err)
	assert.NotSame(t, before, after)

	enc := NewStreamEncoder("text/plain", base.LabelModeDynamic, false, newTextWriter)
	batch := NewTestBatch([]string{"l1", "l2", "l3"}, []*base.LogStream{before, after, TestStreamB})
	assert.Equal(t, "app=foo,level=INFO{l1|l2|}app=bar,level=WARN{l3|}", string(enc.Encode(batch)))
}

func TestStreamEncoderStatic(t *testing.T) {
	enc := NewStreamEncoder("text/plain", base.LabelModeStatic, true, newTextWriter)
	batch := NewTestBatch([]string{"l1", "l2", "l3"}, []*base.LogStream{TestStreamB, TestStreamA, TestStreamB})
	assert.Equal(t, "app=bar,level=WARN{l1|l2|l3|}", string(enc.Encode(batch)))
}

func TestStreamEncoderEmpty(t *testing.T) {
	enc := NewStreamEncoder("text/plain", base.LabelModeDynamic, false, newTextWriter)
	assert.Equal(t, "}", string(enc.Encode(nil)))
}

func TestStreamEncoderInto(t *testing.T) {
	enc := NewStreamEncoder("text/plain", base.LabelModeDynamic, false, newTextWriter)
	lines := make([]string, 100)
	streams := make([]*base.LogStream, 100)
	for i := range lines {
		lines[i] = strings.Repeat("x", i)
		streams[i] = TestStreamA
		if i%7 == 0 {
			streams[i] = TestStreamB
		}
	}
	batch := NewTestBatch(lines, streams)
	allocated := enc.Encode(batch)

	buffer := make([]byte, len(allocated)+10)
	copy(buffer, "HEAD")
	n, err := enc.EncodeInto(batch, buffer, 4)
	assert.Nil(t, err)
	assert.Equal(t, len(allocated), n)
	assert.Equal(t, string(allocated), string(buffer[4:4+n]))
	assert.Equal(t, "HEAD", string(buffer[:4]))

	_, err = enc.EncodeInto(batch, buffer[:len(allocated)+3], 4)
	assert.ErrorIs(t, err, base.ErrBufferOverflow)

	_, err = enc.EncodeInto(batch, buffer, len(buffer)+1)
	assert.ErrorIs(t, err, base.ErrBufferOverflow)
}

func TestOutputBufferGrowing(t *testing.T) {
	out := NewGrowingBuffer(0)
	for i := 0; i < 100; i++ {
		buf, pos, ok := out.Reserve(3)
		assert.True(t, ok)
		out.Commit(pos + copy(buf[pos:], "abc"))
	}
	assert.Equal(t, strings.Repeat("abc", 100), string(out.Bytes()))
	assert.False(t, out.Overflowed())
}

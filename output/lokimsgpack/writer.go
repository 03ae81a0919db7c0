package lokimsgpack

import (
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/output/fastmsgpack"
	"github.com/relex/slog-loki/output/shared"
)

// streamWriter writes batches in msgpack:
//
//	[ [ {label: value, ...}, [ [ns, line], ... ] ], ... ]
//
// Array lengths of streams and records are unknown in advance and filled into reserved space at the end
type streamWriter struct {
	out           *shared.OutputBuffer
	headers       *shared.HeaderCache
	started       bool
	streamsLenPos int
	numStreams    int
	recordsLenPos int
	numRecords    int
}

func (w *streamWriter) BeginStream(stream *base.LogStream) {
	w.started = true
	if _, pos, ok := w.out.Reserve(5); ok {
		w.streamsLenPos = pos
		w.out.Commit(fastmsgpack.ReserveLen32(pos))
	}
	w.writeStreamHeader(stream)
}

func (w *streamWriter) AppendRecord(record *base.LogRecord) {
	w.numRecords++
	buf, pos, ok := w.out.Reserve(1 + fastmsgpack.SizeOfInt64 + fastmsgpack.SizeOfString(record.Line))
	if !ok {
		return
	}
	pos = fastmsgpack.EncodeArrayLen(buf, pos, 2)
	pos = fastmsgpack.EncodeInt64(buf, pos, record.Timestamp)
	pos = fastmsgpack.EncodeString(buf, pos, record.Line)
	w.out.Commit(pos)
}

func (w *streamWriter) BeginNextStream(stream *base.LogStream) {
	w.patchRecordsLen()
	w.writeStreamHeader(stream)
}

func (w *streamWriter) Finish() {
	if !w.started {
		if buf, pos, ok := w.out.Reserve(1); ok {
			w.out.Commit(fastmsgpack.EncodeArrayLen(buf, pos, 0))
		}
		return
	}
	w.patchRecordsLen()
	if buf := w.out.Patch(); buf != nil {
		fastmsgpack.EncodeArrayLen32(buf, w.streamsLenPos, w.numStreams)
	}
}

func (w *streamWriter) writeStreamHeader(stream *base.LogStream) {
	w.numStreams++
	w.numRecords = 0
	header := w.headers.Get(stream)
	buf, pos, ok := w.out.Reserve(len(header) + 5)
	if !ok {
		return
	}
	pos += copy(buf[pos:], header)
	w.recordsLenPos = pos
	w.out.Commit(fastmsgpack.ReserveLen32(pos))
}

func (w *streamWriter) patchRecordsLen() {
	if buf := w.out.Patch(); buf != nil {
		fastmsgpack.EncodeArrayLen32(buf, w.recordsLenPos, w.numRecords)
	}
}

// encodeStreamHeader encodes the beginning of a stream and its labels: [ {label: value, ...},
func encodeStreamHeader(stream *base.LogStream) string {
	size := 1 + fastmsgpack.SizeOfMapLen(len(stream.Labels))
	for _, label := range stream.Labels {
		size += fastmsgpack.SizeOfString(label.Name) + fastmsgpack.SizeOfString(label.Value)
	}
	buf := make([]byte, size)
	pos := fastmsgpack.EncodeArrayLen(buf, 0, 2)
	pos = fastmsgpack.EncodeMapLen(buf, pos, len(stream.Labels))
	for _, label := range stream.Labels {
		pos = fastmsgpack.EncodeString(buf, pos, label.Name)
		pos = fastmsgpack.EncodeString(buf, pos, label.Value)
	}
	return string(buf[:pos])
}

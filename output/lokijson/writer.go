package lokijson

import (
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/output/fastjson"
	"github.com/relex/slog-loki/output/shared"
)

// streamWriter writes the JSON body of Loki push API:
//
//	{"streams":[{"stream":{"app":"foo"},"values":[["1660000000000000000","line"],...]},...]}
type streamWriter struct {
	out         *shared.OutputBuffer
	headers     *shared.HeaderCache
	started     bool
	firstRecord bool
}

func (w *streamWriter) BeginStream(stream *base.LogStream) {
	w.started = true
	w.writeRaw(`{"streams":[`)
	w.writeRaw(w.headers.Get(stream))
	w.firstRecord = true
}

func (w *streamWriter) AppendRecord(record *base.LogRecord) {
	size := 4 + fastjson.SizeOfInt64String + fastjson.SizeOfString(record.Line)
	buf, pos, ok := w.out.Reserve(size)
	if !ok {
		return
	}
	if w.firstRecord {
		w.firstRecord = false
	} else {
		buf[pos] = ','
		pos++
	}
	buf[pos] = '['
	pos = fastjson.EncodeInt64String(buf, pos+1, record.Timestamp)
	buf[pos] = ','
	pos = fastjson.EncodeString(buf, pos+1, record.Line)
	buf[pos] = ']'
	w.out.Commit(pos + 1)
}

func (w *streamWriter) BeginNextStream(stream *base.LogStream) {
	w.writeRaw(`]},`)
	w.writeRaw(w.headers.Get(stream))
	w.firstRecord = true
}

func (w *streamWriter) Finish() {
	if w.started {
		w.writeRaw(`]}]}`)
	} else {
		w.writeRaw(`{"streams":[]}`)
	}
}

func (w *streamWriter) writeRaw(raw string) {
	if buf, pos, ok := w.out.Reserve(len(raw)); ok {
		w.out.Commit(fastjson.EncodeRaw(buf, pos, raw))
	}
}

// encodeStreamHeader encodes the labels and the beginning of values: {"stream":{"app":"foo"},"values":[
func encodeStreamHeader(stream *base.LogStream) string {
	size := len(`{"stream":{},"values":[`)
	for _, label := range stream.Labels {
		size += fastjson.SizeOfString(label.Name) + fastjson.SizeOfString(label.Value) + 2
	}
	buf := make([]byte, size)
	pos := fastjson.EncodeRaw(buf, 0, `{"stream":{`)
	for i, label := range stream.Labels {
		if i > 0 {
			buf[pos] = ','
			pos++
		}
		pos = fastjson.EncodeString(buf, pos, label.Name)
		buf[pos] = ':'
		pos = fastjson.EncodeString(buf, pos+1, label.Value)
	}
	pos = fastjson.EncodeRaw(buf, pos, `},"values":[`)
	return string(buf[:pos])
}

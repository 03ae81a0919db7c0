package appender

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/util"
)

type fakeSender struct {
	lock        sync.Mutex
	contentType string
	payloads    [][]byte
	respond     func(data []byte) base.SendResult
	closed      atomic.Bool
}

func newFakeSender(respond func(data []byte) base.SendResult) *fakeSender {
	if respond == nil {
		respond = func(data []byte) base.SendResult {
			return base.SendResult{Response: base.Response{Status: 204}}
		}
	}
	return &fakeSender{
		contentType: defs.ContentTypeJSON,
		respond:     respond,
	}
}

func (s *fakeSender) URL() string {
	return "http://fake:3100/loki/api/v1/push"
}

func (s *fakeSender) ContentType() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.contentType
}

func (s *fakeSender) SetContentType(contentType string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.contentType = contentType
}

func (s *fakeSender) SendAsync(data []byte) *util.Future[base.SendResult] {
	s.lock.Lock()
	s.payloads = append(s.payloads, append([]byte(nil), data...))
	s.lock.Unlock()

	future := util.NewFuture[base.SendResult]()
	go func() {
		future.Resolve(s.respond(data))
	}()
	return future
}

func (s *fakeSender) Close() {
	s.closed.Store(true)
}

func (s *fakeSender) Payloads() [][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([][]byte(nil), s.payloads...)
}

type reportRecorder struct {
	lock  sync.Mutex
	lines []string
}

func (r *reportRecorder) Info(msg string) {
	r.add("INFO " + msg)
}

func (r *reportRecorder) Warn(msg string, cause error) {
	r.add("WARN " + msg + causeSuffix(cause))
}

func (r *reportRecorder) Error(msg string, cause error) {
	r.add("ERROR " + msg + causeSuffix(cause))
}

func (r *reportRecorder) add(line string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.lines = append(r.lines, line)
}

// Find returns the first report line having the prefix
func (r *reportRecorder) Find(prefix string) string {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, ln := range r.lines {
		if strings.HasPrefix(ln, prefix) {
			return ln
		}
	}
	return ""
}

func causeSuffix(cause error) string {
	if cause == nil {
		return ""
	}
	return " | " + cause.Error()
}

type metricsRecorder struct {
	appended       atomic.Int64
	dropped        atomic.Int64
	encodedBatches atomic.Int64
	encodedRecords atomic.Int64
	sentBatches    atomic.Int64
	failedBatches  atomic.Int64
}

func (m *metricsRecorder) OnRecordAppended(start time.Time, dropped bool) {
	if dropped {
		m.dropped.Add(1)
	} else {
		m.appended.Add(1)
	}
}

func (m *metricsRecorder) OnBatchEncoded(start time.Time, recordCount int, byteSize int) {
	m.encodedBatches.Add(1)
	m.encodedRecords.Add(int64(recordCount))
}

func (m *metricsRecorder) OnBatchSent(start time.Time, byteSize int, failed bool) {
	if failed {
		m.failedBatches.Add(1)
	} else {
		m.sentBatches.Add(1)
	}
}

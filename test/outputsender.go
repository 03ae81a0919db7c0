package test

import (
	"os"
	"sync"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/util"
)

// outputSender replaces the HTTP sender to discard payloads or save them into a file, one payload per line
type outputSender struct {
	contentType string
	lock        sync.Mutex
	file        *os.File // nil to discard
}

// newOutputSender creates a sender writing to the given path, or discarding everything if the path is "null"
func newOutputSender(outputPath string) (*outputSender, error) {
	sender := &outputSender{contentType: defs.ContentTypeJSON}
	if outputPath == "null" {
		return sender, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, err
	}
	sender.file = file
	return sender, nil
}

func (sender *outputSender) URL() string {
	if sender.file == nil {
		return "null"
	}
	return "file://" + sender.file.Name()
}

func (sender *outputSender) ContentType() string {
	return sender.contentType
}

func (sender *outputSender) SetContentType(contentType string) {
	sender.contentType = contentType
}

func (sender *outputSender) SendAsync(data []byte) *util.Future[base.SendResult] {
	if sender.file == nil {
		return util.ResolvedFuture(base.SendResult{Response: base.Response{Status: 204}})
	}
	sender.lock.Lock()
	defer sender.lock.Unlock()
	if _, err := sender.file.Write(data); err != nil {
		return util.ResolvedFuture(base.SendResult{Err: err})
	}
	if _, err := sender.file.Write([]byte("\n")); err != nil {
		return util.ResolvedFuture(base.SendResult{Err: err})
	}
	return util.ResolvedFuture(base.SendResult{Response: base.Response{Status: 204}})
}

func (sender *outputSender) Close() {
	if sender.file == nil {
		return
	}
	sender.lock.Lock()
	defer sender.lock.Unlock()
	if err := sender.file.Close(); err != nil {
		logger.Errorf("failed to close %s: %s", sender.file.Name(), err.Error())
	}
}

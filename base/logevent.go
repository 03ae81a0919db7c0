package base

import (
	"time"

	"github.com/relex/slog-loki/util"
)

// LogEvent is an incoming log event before being mapped to LogRecord
type LogEvent struct {
	Timestamp time.Time // Event time, or receiving time if the source has none
	Fields    LogFields // Structured fields indexed by LogSchema
}

// LogFields represents named fields in LogEvent, to be used with LogSchema
//
// Fields are by default empty strings and empty fields are the same as missing fields
type LogFields []string

// PrepareForDeferredProcessing detaches the event from any buffer owned by its producer
//
// Events must be prepared before being handed to another goroutine
func (event *LogEvent) PrepareForDeferredProcessing() {
	event.Fields = util.CloneStrings(event.Fields)
}

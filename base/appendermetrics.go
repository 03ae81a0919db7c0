package base

import (
	"time"
)

// AppenderMetrics receives timing and count observations from the appender
type AppenderMetrics interface {
	// OnRecordAppended is called after each append attempt; dropped is true if the record isn't stored
	OnRecordAppended(start time.Time, dropped bool)

	// OnBatchEncoded is called after a batch is encoded
	OnBatchEncoded(start time.Time, recordCount int, byteSize int)

	// OnBatchSent is called after a send attempt; failed is true for transport errors or non-2xx status
	OnBatchSent(start time.Time, byteSize int, failed bool)
}

// ReportSink receives human-readable status messages
type ReportSink interface {
	Info(msg string)
	Warn(msg string, cause error)
	Error(msg string, cause error)
}

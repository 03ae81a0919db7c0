package base

import (
	"github.com/relex/gotils/channels"
)

// LogListener represents an input endpoint for logs, e.g. a TCP listener
//
// LogListener always works in background as one or more goroutines, and it's stopped by the stop request given
// during construction
type LogListener interface {
	Start()
	Address() string
	Stopped() channels.Awaitable
}

// LogEventSink receives events from inputs
//
// Append must be safe for concurrent use and must not block on I/O
type LogEventSink interface {
	Append(event *LogEvent)
}

package defs

import (
	"time"
)

var (
	// AppenderDefaultBatchSize is the default capacity of batch buffer in numbers of records
	AppenderDefaultBatchSize = 1000

	// AppenderDefaultBatchTimeout is the default interval to drain the batch buffer regardless of its fill level
	AppenderDefaultBatchTimeout = 60 * time.Second

	// AppenderDefaultProcessingWorkers is the default numbers of concurrent encoding tasks
	AppenderDefaultProcessingWorkers = 1

	// AppendMaxAttempts is how many times to offer one log to the batch buffer
	//
	// Appending could fail only when the buffer is being swapped, in which case the next attempt would go to the new generation
	AppendMaxAttempts = 3

	// DrainWarmupDelay is the delay before the first periodic drain
	DrainWarmupDelay = 100 * time.Millisecond

	// DrainTimeoutCompensation is subtracted from the drain interval to compensate for timer drift
	DrainTimeoutCompensation = 20 * time.Millisecond

	// ShutdownDrainTimeout is the max duration to wait for the final drain and its encoding at shutdown
	ShutdownDrainTimeout = 500 * time.Millisecond

	// SenderShutdownTimeout is the max duration to wait for in-flight requests when the sender is closed
	SenderShutdownTimeout = 10 * time.Second
)

var (
	// InputLogMaxMessageBytes defines the maximum length of an incoming log line; longer lines are truncated
	InputLogMaxMessageBytes = 1 * 1024 * 1024

	// ListenerLineBufferSize defines the initial buffer size in bytes to read lines from a connection
	ListenerLineBufferSize = 64 * 1024

	// InputFlushInterval defines how often connections are checked for stop requests when no data arrives
	InputFlushInterval = 500 * time.Millisecond
)

var (
	// SenderConnectionTimeout is for establishing a TCP connection to Loki
	SenderConnectionTimeout = 30 * time.Second

	// SenderRequestTimeout is for the whole request including reading the response
	SenderRequestTimeout = 5 * time.Second
)

// For testing and experiments
const (
	TestReadTimeout = 5 * time.Second
)

// EnableTestMode turns on test mode with very short timeout
func EnableTestMode() {
	SenderConnectionTimeout = 1 * time.Second
	SenderRequestTimeout = 2 * time.Second
	SenderShutdownTimeout = 1 * time.Second
}

var (
	// StreamRegistryMaxSize is the max numbers of distinct label keys to keep before the registry is reset
	StreamRegistryMaxSize = 10000

	// EncoderHeaderCacheMaxSize is the max numbers of pre-encoded stream headers to keep before the cache is reset
	EncoderHeaderCacheMaxSize = 10000
)

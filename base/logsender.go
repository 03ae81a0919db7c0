package base

import (
	"github.com/relex/slog-loki/util"
)

// LogSender sends encoded batches to the remote end
type LogSender interface {
	// URL returns the endpoint for diagnostics
	URL() string

	// ContentType returns the content type of data to send
	ContentType() string

	// SetContentType sets the content type to match the active encoder
	SetContentType(contentType string)

	// SendAsync sends data in background. The returned future is never left unresolved.
	//
	// The data must not be modified until the future is resolved
	SendAsync(data []byte) *util.Future[SendResult]

	// Close waits for in-flight requests and releases connections
	Close()
}

// Response is the status and body returned by the remote end
type Response struct {
	Status int
	Body   string
}

// SendResult is either a Response or a transport error
type SendResult struct {
	Response
	Err error
}

// IsSuccess returns true for a 2xx response without error
func (result SendResult) IsSuccess() bool {
	return result.Err == nil && result.Status >= 200 && result.Status < 300
}

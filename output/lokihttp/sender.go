package lokihttp

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/output/shared"
	"github.com/relex/slog-loki/util"
)

// maxResponseBodySize limits how much of response body is kept for reporting
const maxResponseBodySize = 64 * 1024

// Sender posts payloads to Loki. Each SendAsync call runs in its own goroutine.
type Sender struct {
	logger      logger.Logger
	config      Config
	client      *http.Client
	transport   *http.Transport
	compressor  *shared.GzipCompressor
	contentType util.AtomicRef[string]
	inflight    *util.InflightCounter
	closed      atomic.Bool
}

func newSender(parentLogger logger.Logger, cfg *Config) (*Sender, error) {
	var compressor *shared.GzipCompressor
	if cfg.Gzip {
		comp, err := shared.NewGzipCompressor(gzip.BestSpeed)
		if err != nil {
			return nil, err
		}
		compressor = comp
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: cfg.connectionTimeout()}).DialContext,
		TLSHandshakeTimeout: cfg.connectionTimeout(),
		MaxIdleConnsPerHost: 10,
	}
	sender := &Sender{
		logger: parentLogger.WithFields(logger.Fields{
			defs.LabelComponent: "LokiSender",
			defs.LabelAddress:   cfg.URL,
		}),
		config:     *cfg,
		client:     &http.Client{Transport: transport, Timeout: cfg.requestTimeout()},
		transport:  transport,
		compressor: compressor,
		inflight:   util.NewInflightCounter(),
	}
	sender.SetContentType(defs.ContentTypeJSON)
	return sender, nil
}

// URL returns the push endpoint
func (sender *Sender) URL() string {
	return sender.config.URL
}

// ContentType returns the content type of request body
func (sender *Sender) ContentType() string {
	return *sender.contentType.Get()
}

// SetContentType sets the content type of request body
func (sender *Sender) SetContentType(contentType string) {
	sender.contentType.Set(&contentType)
}

// SendAsync posts the data in background
func (sender *Sender) SendAsync(data []byte) *util.Future[base.SendResult] {
	if sender.closed.Load() {
		return util.ResolvedFuture(base.SendResult{Err: fmt.Errorf("sender closed")})
	}
	future := util.NewFuture[base.SendResult]()
	sender.inflight.Add()
	go func() {
		defer sender.inflight.Done()
		future.Resolve(sender.send(data))
	}()
	return future
}

// Close waits for in-flight requests and closes idle connections
func (sender *Sender) Close() {
	if !sender.closed.CompareAndSwap(false, true) {
		return
	}
	if !sender.inflight.Idle().Wait(defs.SenderShutdownTimeout) {
		sender.logger.Warnf("timeout waiting for in-flight requests after %s", defs.SenderShutdownTimeout)
	}
	sender.transport.CloseIdleConnections()
}

func (sender *Sender) send(data []byte) base.SendResult {
	body := data
	if sender.compressor != nil {
		compressed, err := sender.compressor.Compress(data)
		if err != nil {
			return base.SendResult{Err: err}
		}
		body = compressed
	}

	request, err := http.NewRequest(http.MethodPost, sender.config.URL, bytes.NewReader(body))
	if err != nil {
		return base.SendResult{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	request.Header.Set("Content-Type", sender.ContentType())
	if sender.compressor != nil {
		request.Header.Set("Content-Encoding", "gzip")
	}
	if sender.config.TenantID != "" {
		request.Header.Set("X-Scope-OrgID", sender.config.TenantID)
	}
	if sender.config.Username != "" {
		request.SetBasicAuth(sender.config.Username, sender.config.password())
	}

	response, err := sender.client.Do(request)
	if err != nil {
		return base.SendResult{Err: fmt.Errorf("send error: %w", err)}
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
	if err != nil {
		return base.SendResult{Err: fmt.Errorf("couldn't read response body: %w", err)}
	}
	return base.SendResult{
		Response: base.Response{
			Status: response.StatusCode,
			Body:   string(responseBody),
		},
	}
}

// Package appender batches log events and sends them to Loki through an encode-send pipeline
package appender

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/buffer/batchbuffer"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/output/shared"
	"github.com/relex/slog-loki/util"
	"golang.org/x/sync/semaphore"
)

// RecordMapper fills a record from an event
type RecordMapper func(event *base.LogEvent, record *base.LogRecord) error

// Appender collects events into batches and sends them asynchronously
//
// Append may be called from any numbers of goroutines. Batches are encoded on up to ProcessingWorkers goroutines
// and sent without waiting for responses.
type Appender struct {
	logger     logger.Logger
	config     Config
	buffer     *batchbuffer.BatchBuffer[*base.LogEvent, base.LogRecord]
	encoder    base.BatchEncoder
	sender     base.LogSender
	metrics    base.AppenderMetrics
	reports    base.ReportSink
	batchIDGen shared.BatchIDGenerator
	workers    *semaphore.Weighted
	inflight   *util.InflightCounter // batches not yet reported
	bufferPool *util.SizedBytesPool
	running    atomic.Bool
	scheduler  *drainScheduler
	stopOnce   func() bool
}

// BatchResult is the outcome of one batch after it's sent and reported
type BatchResult struct {
	BatchID    int64
	NumRecords int
	base.SendResult
}

type encodedPayload struct {
	data   []byte
	pooled *[]byte // buffer to be recycled after sending, if from pool
}

// New creates an Appender
//
// metrics may be nil if metrics are disabled
func New(parentLogger logger.Logger, config Config, mapRecord RecordMapper, encoder base.BatchEncoder,
	sender base.LogSender, metrics base.AppenderMetrics, reports base.ReportSink,
) (*Appender, error) {
	if err := config.VerifyConfig(); err != nil {
		return nil, err
	}
	switch {
	case mapRecord == nil:
		return nil, fmt.Errorf("missing record mapper")
	case encoder == nil:
		return nil, fmt.Errorf("missing encoder")
	case sender == nil:
		return nil, fmt.Errorf("missing sender")
	case reports == nil:
		return nil, fmt.Errorf("missing report sink")
	}
	if !config.MetricsEnabled {
		metrics = nil
	}

	alogger := parentLogger.WithFields(logger.Fields{
		defs.LabelComponent: "Appender",
		defs.LabelName:      config.Name,
	})
	buffer, err := batchbuffer.New[*base.LogEvent, base.LogRecord](alogger, config.BatchSize, mapRecord)
	if err != nil {
		return nil, fmt.Errorf(".batchSize: %w", err)
	}

	app := &Appender{
		logger:   alogger,
		config:   config,
		buffer:   buffer,
		encoder:  encoder,
		sender:   sender,
		metrics:  metrics,
		reports:  reports,
		workers:  semaphore.NewWeighted(int64(config.ProcessingWorkers)),
		inflight: util.NewInflightCounter(),
	}
	if config.OutputStrategy == base.OutputReuse {
		app.bufferPool = util.NewSizedBytesPool()
	}
	app.stopOnce = util.NewRunOnce(app.stop)
	return app, nil
}

// Start starts the periodic draining
func (app *Appender) Start() {
	if app.running.Swap(true) {
		app.logger.Warn("already started")
		return
	}
	app.sender.SetContentType(app.encoder.ContentType())
	app.scheduler = launchDrainScheduler(app.logger, app.config.BatchTimeout, app.drain)
	app.logger.Infof("started: url=%s, contentType=%s, batchSize=%d, batchTimeout=%s, processingWorkers=%d, outputStrategy=%s",
		app.sender.URL(), app.encoder.ContentType(), app.config.BatchSize, app.config.BatchTimeout,
		app.config.ProcessingWorkers, app.config.OutputStrategy)
}

// Stop stops the periodic draining, flushes remaining records and closes the sender
//
// The final flush is bounded by defs.ShutdownDrainTimeout
func (app *Appender) Stop() {
	app.stopOnce()
}

// Append maps and stores the event, and starts processing if a batch is completed
//
// The event must not be modified after the call. Events are dropped if the appender isn't running.
func (app *Appender) Append(event *base.LogEvent) {
	start := time.Now()
	if !app.running.Load() {
		app.onAppended(start, true)
		return
	}
	for attempt := 0; attempt < defs.AppendMaxAttempts; attempt++ {
		batch, stored := app.buffer.Append(event)
		if len(batch) > 0 {
			app.handleBatch(batch)
		}
		if stored {
			app.onAppended(start, false)
			return
		}
	}
	app.onAppended(start, true)
	app.logger.Debugf("dropped event after %d attempts", defs.AppendMaxAttempts)
}

func (app *Appender) onAppended(start time.Time, dropped bool) {
	if app.metrics != nil {
		app.metrics.OnRecordAppended(start, dropped)
	}
}

func (app *Appender) drain(timeout time.Duration) {
	app.handleBatch(app.buffer.Drain(timeout))
}

func (app *Appender) stop() {
	app.logger.Info("Stopping...")
	if app.running.Swap(false) && app.scheduler != nil {
		app.scheduler.Stop()
	}

	drained := util.NewFuture[base.LogBatch]()
	go func() {
		drained.Resolve(app.buffer.Drain(0))
	}()
	final := util.ThenFuture(drained, app.handleBatch)
	// batches from late Append calls after this point aren't waited
	deadline := time.Now().Add(defs.ShutdownDrainTimeout)
	if !final.Done().Wait(defs.ShutdownDrainTimeout) || !app.inflight.Idle().Wait(time.Until(deadline)) {
		app.reports.Warn(fmt.Sprintf("Timeout of %s exceeded while sending the last batch", defs.ShutdownDrainTimeout), nil)
	}

	app.sender.Close()
	app.logger.Info("Successfully stopped")
}

// handleBatch encodes and sends the batch in background
//
// The returned future is resolved after the result is reported, and it's resolved immediately for empty batch
func (app *Appender) handleBatch(batch base.LogBatch) *util.Future[BatchResult] {
	if len(batch) == 0 {
		return util.ResolvedFuture(BatchResult{})
	}
	batchID := app.batchIDGen.Generate()
	app.inflight.Add()
	encoded := util.NewFuture[encodedPayload]()
	go func() {
		_ = app.workers.Acquire(context.Background(), 1) // fails only on context cancellation
		defer app.workers.Release(1)
		encoded.Resolve(app.encode(batchID, batch))
	}()
	return util.ThenFuture(encoded, func(payload encodedPayload) *util.Future[BatchResult] {
		return app.send(batchID, len(batch), payload)
	})
}

func (app *Appender) encode(batchID int64, batch base.LogBatch) encodedPayload {
	start := time.Now()
	payload := encodedPayload{}
	if app.config.OutputStrategy == base.OutputReuse {
		limit := int(app.config.ReuseBufferSize.Bytes())
		buf := app.bufferPool.Get(limit)
		if n, err := app.encoder.EncodeInto(batch, (*buf)[:limit], 0); err == nil {
			payload.data = (*buf)[:n]
			payload.pooled = buf
		} else {
			app.bufferPool.Put(buf)
			app.reports.Warn(fmt.Sprintf("Batch #%x: reuse buffer of %d bytes is too small, falling back to allocation", batchID, limit), err)
		}
	}
	if payload.data == nil {
		payload.data = app.encoder.Encode(batch)
	}
	if app.metrics != nil {
		app.metrics.OnBatchEncoded(start, len(batch), len(payload.data))
	}
	app.reports.Info(fmt.Sprintf(">>> Batch #%x: Sending %d items converted to %d bytes", batchID, len(batch), len(payload.data)))
	return payload
}

func (app *Appender) send(batchID int64, numRecords int, payload encodedPayload) *util.Future[BatchResult] {
	start := time.Now()
	return util.ThenFuture(app.sender.SendAsync(payload.data), func(sr base.SendResult) *util.Future[BatchResult] {
		if payload.pooled != nil {
			app.bufferPool.Put(payload.pooled)
		}
		if app.metrics != nil {
			app.metrics.OnBatchSent(start, len(payload.data), !sr.IsSuccess())
		}
		app.report(batchID, numRecords, sr)
		app.inflight.Done()
		return util.ResolvedFuture(BatchResult{
			BatchID:    batchID,
			NumRecords: numRecords,
			SendResult: sr,
		})
	})
}

func (app *Appender) report(batchID int64, numRecords int, sr base.SendResult) {
	switch {
	case sr.Err != nil:
		app.reports.Error(fmt.Sprintf("Error while sending Batch #%x (%d records) to Loki (%s)", batchID, numRecords, app.sender.URL()), sr.Err)
	case !sr.IsSuccess():
		app.reports.Error(fmt.Sprintf("Loki responded with non-success status %d on Batch #%x (%d records). Error: %s", sr.Status, batchID, numRecords, sr.Body), nil)
	default:
		app.reports.Info(fmt.Sprintf("<<< Batch #%x: Loki responded with status %d", batchID, sr.Status))
	}
}

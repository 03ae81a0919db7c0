package appender

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/slog-loki/base"
)

var (
	appendDurationBuckets  = []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.001, 0.01}
	processDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}
	batchRecordsBuckets    = prometheus.ExponentialBuckets(1, 4, 10)
)

// prometheusMetrics implements base.AppenderMetrics
type prometheusMetrics struct {
	appendedRecordsTotal prometheus.Counter
	droppedRecordsTotal  prometheus.Counter
	appendSeconds        prometheus.Observer
	encodedBatchesTotal  prometheus.Counter
	encodedRecordsTotal  prometheus.Counter
	encodedBytesTotal    prometheus.Counter
	encodeSeconds        prometheus.Observer
	batchRecords         prometheus.Observer
	sentBatchesTotal     prometheus.Counter
	failedBatchesTotal   prometheus.Counter
	sentBytesTotal       prometheus.Counter
	sendSeconds          prometheus.Observer
	pendingBatches       prometheus.Gauge
}

// NewPrometheusMetrics creates AppenderMetrics with metrics registered in the factory, labeled by appender name
func NewPrometheusMetrics(factory *base.MetricFactory, appenderName string) base.AppenderMetrics {
	mfactory := factory.NewSubFactory("appender_", []string{"appender"}, []string{appenderName})
	batches := mfactory.AddOrGetCounterVec("batches_total", "Numbers of batches by processing result", []string{"result"}, nil)
	return &prometheusMetrics{
		appendedRecordsTotal: mfactory.AddOrGetCounter("appended_records_total", "Numbers of records stored in batch buffer", nil, nil),
		droppedRecordsTotal:  mfactory.AddOrGetCounter("dropped_records_total", "Numbers of records dropped by batch buffer", nil, nil),
		appendSeconds:        mfactory.AddOrGetHistogram("append_seconds", "Duration of appending a record", appendDurationBuckets, nil, nil),
		encodedBatchesTotal:  batches.WithLabelValues("encoded"),
		encodedRecordsTotal:  mfactory.AddOrGetCounter("encoded_records_total", "Numbers of encoded records", nil, nil),
		encodedBytesTotal:    mfactory.AddOrGetCounter("encoded_bytes_total", "Total length in bytes of encoded batches", nil, nil),
		encodeSeconds:        mfactory.AddOrGetHistogram("encode_seconds", "Duration of encoding a batch", processDurationBuckets, nil, nil),
		batchRecords:         mfactory.AddOrGetHistogram("batch_records", "Numbers of records per batch", batchRecordsBuckets, nil, nil),
		sentBatchesTotal:     batches.WithLabelValues("sent"),
		failedBatchesTotal:   batches.WithLabelValues("failed"),
		sentBytesTotal:       mfactory.AddOrGetCounter("sent_bytes_total", "Total length in bytes of sent batches", nil, nil),
		sendSeconds:          mfactory.AddOrGetHistogram("send_seconds", "Duration of sending a batch including the response", processDurationBuckets, nil, nil),
		pendingBatches:       mfactory.AddOrGetGauge("pending_batches", "Numbers of encoded batches waiting for response", nil, nil),
	}
}

func (metrics *prometheusMetrics) OnRecordAppended(start time.Time, dropped bool) {
	metrics.appendSeconds.Observe(time.Since(start).Seconds())
	if dropped {
		metrics.droppedRecordsTotal.Inc()
	} else {
		metrics.appendedRecordsTotal.Inc()
	}
}

func (metrics *prometheusMetrics) OnBatchEncoded(start time.Time, recordCount int, byteSize int) {
	metrics.encodeSeconds.Observe(time.Since(start).Seconds())
	metrics.batchRecords.Observe(float64(recordCount))
	metrics.encodedBatchesTotal.Inc()
	metrics.encodedRecordsTotal.Add(float64(recordCount))
	metrics.encodedBytesTotal.Add(float64(byteSize))
	metrics.pendingBatches.Inc()
}

func (metrics *prometheusMetrics) OnBatchSent(start time.Time, byteSize int, failed bool) {
	metrics.sendSeconds.Observe(time.Since(start).Seconds())
	metrics.pendingBatches.Dec()
	if failed {
		metrics.failedBatchesTotal.Inc()
		return
	}
	metrics.sentBatchesTotal.Inc()
	metrics.sentBytesTotal.Add(float64(byteSize))
}

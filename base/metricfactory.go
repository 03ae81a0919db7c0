package base

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/relex/gotils/logger"
)

// MetricFactory manages Prometheus metrics
//
// Metrics with the same full name are shared among factories, e.g. the same metric from multiple appenders distinguished
// by fixed labels
type MetricFactory struct {
	namePrefix        string
	parentLabelNames  []string
	parentLabelValues []string
	registryLock      *sync.Mutex
	registry          map[string]prometheus.Collector
}

// NewMetricFactory creates a factory with prefix for metrics names and fixed labels for all metrics created from this new factory
func NewMetricFactory(prefix string, labelNames []string, labelValues []string) *MetricFactory {
	if len(labelNames) != len(labelValues) {
		logger.Panicf("different len of labelNames (%s) and labelValues (%s)",
			strings.Join(labelNames, ","), strings.Join(labelValues, ","))
	}
	return &MetricFactory{
		namePrefix:        prefix,
		parentLabelNames:  labelNames,
		parentLabelValues: labelValues,
		registryLock:      &sync.Mutex{},
		registry:          make(map[string]prometheus.Collector, 100),
	}
}

// NewSubFactory creates a sub-factory which inherits the parent's prefix and fixed labels,
// with more prefix and fixed labels added to all metrics created from this new sub-factory
func (factory *MetricFactory) NewSubFactory(prefix string, labelNames []string, labelValues []string) *MetricFactory {
	fullPrefix, allLabelNames, allLabelValues := factory.concatNameAndLabels(prefix, labelNames, labelValues)
	return &MetricFactory{
		namePrefix:        fullPrefix,
		parentLabelNames:  allLabelNames,
		parentLabelValues: allLabelValues,
		registryLock:      factory.registryLock,
		registry:          factory.registry,
	}
}

// AddOrGetCounter adds or gets a counter
func (factory *MetricFactory) AddOrGetCounter(name string, help string, labelNames []string, labelValues []string) prometheus.Counter {
	checkLabelValues(labelNames, labelValues)
	return factory.AddOrGetCounterVec(name, help, labelNames, labelValues).WithLabelValues()
}

// AddOrGetCounterVec adds or gets a counter-vec with leftmost label values
func (factory *MetricFactory) AddOrGetCounterVec(name string, help string, labelNames []string, leftmostLabelValues []string) *prometheus.CounterVec {
	fullName, allLabelNames, allLeftmostLabelValues := factory.concatNameAndLabels(name, labelNames, leftmostLabelValues)
	counterVec := addOrGetCollector(factory, fullName, func() *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Name: fullName, Help: help}, allLabelNames)
	})
	curryLabels := buildLabels(allLabelNames, allLeftmostLabelValues)
	curriedCounterVec, cerr := counterVec.CurryWith(curryLabels)
	if cerr != nil {
		logger.Panicf("failed to curry counter-vec '%s' with %s: %s", fullName, curryLabels, cerr.Error())
	}
	return curriedCounterVec
}

// AddOrGetGauge adds or gets a gauge
//
// Gauges must be updated by Add/Sub not Set, because there could be multiple updaters
func (factory *MetricFactory) AddOrGetGauge(name string, help string, labelNames []string, labelValues []string) prometheus.Gauge {
	checkLabelValues(labelNames, labelValues)
	return factory.AddOrGetGaugeVec(name, help, labelNames, labelValues).WithLabelValues()
}

// AddOrGetGaugeVec adds or gets a gauge-vec with leftmost label values
func (factory *MetricFactory) AddOrGetGaugeVec(name string, help string, labelNames []string, leftmostLabelValues []string) *prometheus.GaugeVec {
	fullName, allLabelNames, allLeftmostLabelValues := factory.concatNameAndLabels(name, labelNames, leftmostLabelValues)
	gaugeVec := addOrGetCollector(factory, fullName, func() *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: fullName, Help: help}, allLabelNames)
	})
	curryLabels := buildLabels(allLabelNames, allLeftmostLabelValues)
	curriedGaugeVec, cerr := gaugeVec.CurryWith(curryLabels)
	if cerr != nil {
		logger.Panicf("failed to curry gauge-vec '%s' with %s: %s", fullName, curryLabels, cerr.Error())
	}
	return curriedGaugeVec
}

// AddOrGetHistogram adds or gets a histogram
func (factory *MetricFactory) AddOrGetHistogram(name string, help string, buckets []float64, labelNames []string, labelValues []string) prometheus.Observer {
	checkLabelValues(labelNames, labelValues)
	return factory.AddOrGetHistogramVec(name, help, buckets, labelNames, labelValues).WithLabelValues()
}

// AddOrGetHistogramVec adds or gets a histogram-vec with leftmost label values
func (factory *MetricFactory) AddOrGetHistogramVec(name string, help string, buckets []float64, labelNames []string, leftmostLabelValues []string) prometheus.ObserverVec {
	fullName, allLabelNames, allLeftmostLabelValues := factory.concatNameAndLabels(name, labelNames, leftmostLabelValues)
	histogramVec := addOrGetCollector(factory, fullName, func() *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: fullName, Help: help, Buckets: buckets}, allLabelNames)
	})
	curryLabels := buildLabels(allLabelNames, allLeftmostLabelValues)
	curriedHistogramVec, cerr := histogramVec.CurryWith(curryLabels)
	if cerr != nil {
		logger.Panicf("failed to curry histogram-vec '%s' with %s: %s", fullName, curryLabels, cerr.Error())
	}
	return curriedHistogramVec
}

// DumpMetrics dumps all metrics created in this factory and derived sub-factories into the .prom text format without comments
//
// For testing only
func (factory *MetricFactory) DumpMetrics(includeZeroValues bool) (string, error) {
	gatherer, err := func() (*prometheus.Registry, error) {
		g := prometheus.NewPedanticRegistry()
		factory.registryLock.Lock()
		defer factory.registryLock.Unlock()
		for name, vec := range factory.registry {
			if !strings.HasPrefix(name, factory.namePrefix) {
				continue
			}
			if err := g.Register(vec); err != nil {
				return nil, fmt.Errorf("failed to add metric '%s' to gatherer: %w", name, err)
			}
		}
		return g, nil
	}()
	if err != nil {
		return "", err
	}
	metricFamilies, err := gatherer.Gather()
	if err != nil {
		return "", fmt.Errorf("failed to gather metrics: %w", err)
	}
	writer := &bytes.Buffer{}
	for _, mf := range metricFamilies {
		if _, err := expfmt.MetricFamilyToText(writer, mf); err != nil {
			return "", fmt.Errorf("failed to export '%s': %w", *mf.Name, err)
		}
	}
	lines := strings.Split(writer.String(), "\n")
	linesFiltered := make([]string, 0, len(lines)/2)
	for _, ln := range lines {
		if strings.HasPrefix(ln, "#") {
			continue
		}
		if !includeZeroValues && strings.HasSuffix(ln, " 0") {
			continue
		}
		linesFiltered = append(linesFiltered, ln)
	}
	return strings.Join(linesFiltered, "\n"), nil
}

// Prefix is the prefix added to all metric names inside this factory
func (factory *MetricFactory) Prefix() string {
	return factory.namePrefix
}

func (factory *MetricFactory) concatNameAndLabels(name string, labelNames []string, leftmostLabelValues []string) (string, []string, []string) {
	if len(labelNames) < len(leftmostLabelValues) {
		logger.Panicf("length of labelNames (%s) should be equal or greater than length of leftmostLabelValues (%s)",
			strings.Join(labelNames, ","), strings.Join(leftmostLabelValues, ","))
	}
	fullName := factory.namePrefix + name
	allLabelNames := append(append([]string(nil), factory.parentLabelNames...), labelNames...)
	allLeftmostLabelValues := append(append([]string(nil), factory.parentLabelValues...), leftmostLabelValues...)
	return fullName, allLabelNames, allLeftmostLabelValues
}

// addOrGetCollector looks up the collector by full name in the factory, or creates and registers a new one
//
// A collector registered by another factory with the same name is adopted
func addOrGetCollector[C prometheus.Collector](factory *MetricFactory, fullName string, create func() C) C {
	factory.registryLock.Lock()
	defer factory.registryLock.Unlock()

	if existing, ok := factory.registry[fullName]; ok {
		collector, typeOK := existing.(C)
		if !typeOK {
			logger.Panicf("metric '%s' has been registered as a different type: %T", fullName, existing)
		}
		return collector
	}

	collector := create()
	if err := prometheus.Register(collector); err != nil {
		var regErr prometheus.AlreadyRegisteredError
		if !errors.As(err, &regErr) {
			logger.Panicf("failed to register '%s': %s", fullName, err.Error())
		}
		existing, typeOK := regErr.ExistingCollector.(C)
		if !typeOK {
			logger.Panicf("metric '%s' has been registered as a different type: %T", fullName, regErr.ExistingCollector)
		}
		collector = existing
	}
	factory.registry[fullName] = collector
	return collector
}

func checkLabelValues(labelNames []string, labelValues []string) {
	if len(labelNames) != len(labelValues) {
		logger.Panicf("different lengths of labelNames (%s) and labelValues (%s)",
			strings.Join(labelNames, ","), strings.Join(labelValues, ","))
	}
}

func buildLabels(labelNames []string, leftmostLabelValues []string) map[string]string {
	labelMap := make(map[string]string, len(leftmostLabelValues))
	for i, value := range leftmostLabelValues {
		labelMap[labelNames[i]] = value
	}
	return labelMap
}

package run

import (
	"fmt"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/appender"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/input/linelistener"
)

// Loader loads configuration from file and prepares the environments to be launched
//
// Loader should take care of everything derived from the config file, but not trigger anything automatically
//
// Appender and inputs are exposed in place of a simple main loop to allow customization, see Run()
type Loader struct {
	filepath string // config file path

	*Config
	Schema        base.LogSchema
	MetricFactory *base.MetricFactory
	SenderFactory func(parentLogger logger.Logger) (base.LogSender, error) // may be replaced before launching
}

// NewLoaderFromConfigFile creates a Loader from config file, with prefix for all metric names
func NewLoaderFromConfigFile(filepath string, metricPrefix string) (*Loader, error) {
	config, schema, configErr := LoadConfigFile(filepath)
	if configErr != nil {
		return nil, configErr
	}
	loader := &Loader{
		filepath:      filepath,
		Config:        config,
		Schema:        schema,
		MetricFactory: base.NewMetricFactory(metricPrefix, nil, nil),
	}
	loader.SenderFactory = func(parentLogger logger.Logger) (base.LogSender, error) {
		sender, err := loader.Sender.NewSender(parentLogger)
		if err != nil {
			return nil, err
		}
		return sender, nil
	}
	return loader, nil
}

// LaunchAppender creates and starts an Appender
func (loader *Loader) LaunchAppender(parentLogger logger.Logger) (*appender.Appender, error) {
	mapper, err := appender.NewEventMapper(loader.Schema, loader.Mapping)
	if err != nil {
		return nil, err
	}
	encoder := loader.Encoder.Value.NewEncoder(mapper.LabelMode())
	sender, err := loader.SenderFactory(parentLogger)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	var metrics base.AppenderMetrics
	if loader.Appender.MetricsEnabled {
		metrics = appender.NewPrometheusMetrics(loader.MetricFactory, loader.Appender.Name)
	}
	reports := appender.NewLoggerReportSink(parentLogger, loader.Appender.Verbose)

	app, err := appender.New(parentLogger, loader.Appender, mapper.Map, encoder, sender, metrics, reports)
	if err != nil {
		sender.Close()
		return nil, fmt.Errorf("appender%w", err)
	}
	app.Start()
	return app, nil
}

// LaunchInputs starts all inputs in background and returns (list of addresses, shutdown function)
//
// The returned input addresses are final, e.g. assigned random port if it's 0 in config file
//
// The return shutdown function only shuts down the inputs, not the appender
func (loader *Loader) LaunchInputs(sink base.LogEventSink) ([]string, func(), error) {
	stopRequest := channels.NewSignalAwaitable()
	inputStoppedSignals := make([]channels.Awaitable, 0, len(loader.Inputs))
	inputAddresses := make([]string, 0, len(loader.Inputs))
	shutdown := func() {
		stopRequest.Signal()
		channels.AllAwaitables(inputStoppedSignals...).WaitForever()
	}

	for index, inputConfig := range loader.Inputs {
		input, ierr := linelistener.NewLineListener(logger.Root(), inputConfig, loader.Schema, sink, stopRequest)
		if ierr != nil {
			shutdown()
			return nil, nil, fmt.Errorf("inputs[%d]: %w", index, ierr)
		}
		input.Start()

		inputAddresses = append(inputAddresses, input.Address())
		inputStoppedSignals = append(inputStoppedSignals, input.Stopped())
	}
	return inputAddresses, shutdown, nil
}

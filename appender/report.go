package appender

import (
	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/defs"
)

// LoggerReportSink writes reports to logger. Info reports are written only in verbose mode.
type LoggerReportSink struct {
	logger  logger.Logger
	verbose bool
}

// NewLoggerReportSink creates a LoggerReportSink
func NewLoggerReportSink(parentLogger logger.Logger, verbose bool) *LoggerReportSink {
	return &LoggerReportSink{
		logger:  parentLogger.WithField(defs.LabelPart, "report"),
		verbose: verbose,
	}
}

func (sink *LoggerReportSink) Info(msg string) {
	if sink.verbose {
		sink.logger.Info(msg)
	}
}

func (sink *LoggerReportSink) Warn(msg string, cause error) {
	if cause != nil {
		sink.logger.Warnf("%s: %s", msg, cause.Error())
	} else {
		sink.logger.Warn(msg)
	}
}

func (sink *LoggerReportSink) Error(msg string, cause error) {
	if cause != nil {
		sink.logger.Errorf("%s: %s", msg, cause.Error())
	} else {
		sink.logger.Error(msg)
	}
}

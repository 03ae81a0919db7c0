// Package run runs the log appender with its inputs
package run

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/defs"
)

// Run runs the appender until stopped by signals
func Run(configFile string) {
	loader, loaderErr := NewLoaderFromConfigFile(configFile, "slogloki_")
	if loaderErr != nil {
		logger.Fatal(loaderErr)
	}

	app, appErr := loader.LaunchAppender(logger.Root())
	if appErr != nil {
		logger.Fatal(appErr)
	}
	_, shutdownInputs, inputErr := loader.LaunchInputs(app)
	if inputErr != nil {
		app.Stop()
		logger.Fatal(inputErr)
	}

	runLogger := logger.WithField(defs.LabelComponent, "Launcher")

	// wait for shutdown signal
	{
		sigChan := make(chan os.Signal, 10)
		signal.Notify(sigChan, syscall.SIGINT)
		signal.Notify(sigChan, syscall.SIGTERM)
		s := <-sigChan
		runLogger.Infof("received %s, shutting down", s)
	}

	shutdownInputs()
	app.Stop()
	runLogger.Info("clean exit")
}

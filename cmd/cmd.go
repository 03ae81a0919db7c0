// Package cmd provides list of commands including self-benchmarks and tools
package cmd

import (
	"github.com/relex/gotils/config"
)

func init() {
	config.AddParentCmdWithArgs("", "slog-loki collects text logs over TCP, batches and pushes them to Grafana Loki", &rootCmd, rootCmd.preRun, rootCmd.postRun)
	config.AddCmdWithArgs("benchmark <type> ...", "Run benchmark of specified type", &benchCmd, nil)
	config.AddCmdWithArgs("benchmark appender ...", "Benchmark appender fed directly with null or file output", nil, benchCmd.runBenchmarkAppenderCommand)
	config.AddCmdWithArgs("benchmark agent ...", "Benchmark appender with TCP input and null or file output", nil, benchCmd.runBenchmarkAgentCommand)
	config.AddCmdWithArgs("run ...", "Run appender", &runCmd, runCmd.run)
}

// Execute parses the command line and runs the specified command
func Execute() {
	// trigger init

	config.Execute()
}

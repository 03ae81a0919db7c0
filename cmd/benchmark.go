package cmd

import (
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/test"
)

type benchmarkCommandState struct {
	Input  string `help:"Input file path or wildcard pattern (plain text lines)."`
	Output string `help:"Output file path:\n'': (empty) send to Loki as configured\n'null': abandon all output\nencoded batches file, one batch per line, e.g. /tmp/batches.json"`
	Repeat int    `help:"Repeat times"`
	Config string `help:"Configuration file path"`
}

var benchCmd = benchmarkCommandState{
	Input:  "testdata/development/*.log",
	Output: "null",
	Config: "testdata/config_sample.yml",
	Repeat: 100,
}

func (cmd *benchmarkCommandState) runBenchmarkAppenderCommand(_ []string) {
	defs.EnableTestMode()
	test.RunBenchmarkAppender(cmd.Input, cmd.Output, cmd.Repeat, cmd.Config)
}

func (cmd *benchmarkCommandState) runBenchmarkAgentCommand(_ []string) {
	defs.EnableTestMode()
	test.RunBenchmarkAgent(cmd.Input, cmd.Output, cmd.Repeat, cmd.Config)
}

package cmd

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/relex/gotils/logger"
)

// rootCommandState holds the profiling options shared by all commands, mainly for benchmarks
type rootCommandState struct {
	CPUProfile string `name:"cpuprofile" help:"Write CPU profile to file."`
	MemProfile string `name:"memprofile" help:"Write heap profile to file on exit."`
	Trace      string `help:"Write execution trace to file."`

	openFiles []*os.File
	stopFuncs []func()
}

var rootCmd rootCommandState

func (cmd *rootCommandState) preRun() {
	if f := cmd.createOutput("CPU profile", cmd.CPUProfile); f != nil {
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatalf("failed to start CPU profiling: %s", err.Error())
		}
		cmd.stopFuncs = append(cmd.stopFuncs, pprof.StopCPUProfile)
	}

	if f := cmd.createOutput("heap profile", cmd.MemProfile); f != nil {
		cmd.stopFuncs = append(cmd.stopFuncs, func() {
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				logger.Errorf("failed to write heap profile: %s", err.Error())
			}
		})
	}

	if f := cmd.createOutput("trace", cmd.Trace); f != nil {
		if err := trace.Start(f); err != nil {
			logger.Fatalf("failed to start tracing: %s", err.Error())
		}
		cmd.stopFuncs = append(cmd.stopFuncs, trace.Stop)
	}
}

func (cmd *rootCommandState) postRun() {
	for _, stop := range cmd.stopFuncs {
		stop()
	}
	for _, f := range cmd.openFiles {
		if err := f.Close(); err != nil {
			logger.Errorf("failed to close %s: %s", f.Name(), err.Error())
		}
	}
}

// createOutput creates the output file for a profile, or returns nil if path is empty
func (cmd *rootCommandState) createOutput(kind string, path string) *os.File {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Fatalf("failed to create %s %s: %s", kind, path, err.Error())
	}
	logger.Infof("writing %s to %s", kind, path)
	cmd.openFiles = append(cmd.openFiles, f)
	return f
}

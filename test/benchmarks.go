// Package test provides self-benchmarks of the appender with null or file output
package test

import (
	"fmt"
	"net"
	"runtime"
	"strings"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/base"
	"github.com/relex/slog-loki/defs"
	"github.com/relex/slog-loki/run"
	"github.com/relex/slog-loki/util"
)

type benchmarkMetric struct {
	fmt string
	val float64
}

// RunBenchmarkAppender benchmarks an appender fed directly with events, without any input listener
func RunBenchmarkAppender(inputPath string, outputPath string, repeat int, configFile string) {
	loader := loadBenchmarkConfig(configFile, outputPath, "benchappender_")
	inputLines := loadInputLines(inputPath)
	inputLength := 0
	for _, ln := range inputLines {
		inputLength += len(ln) + 1
	}

	costTracker := StartCostTracking()
	runAppender(loader, inputLines, repeat)
	reportBenchmarkResult("BenchmarkAppender", len(inputLines)*repeat, int64(inputLength)*int64(repeat), costTracker.Report(), loader.MetricFactory)
	logger.Info(loader.MetricFactory.DumpMetrics(false))
}

// RunBenchmarkAgent benchmarks a fully configured appender with the first TCP input, outputting to file or null
func RunBenchmarkAgent(inputPath string, outputPath string, repeat int, configFile string) {
	runBenchmarkAgent(inputPath, outputPath, repeat, configFile)
}

func runBenchmarkAgent(inputPath string, outputPath string, repeat int, configFile string) *base.MetricFactory {
	loader := loadBenchmarkConfig(configFile, outputPath, "benchagent_")
	if len(loader.Inputs) != 1 {
		logger.Warnf("only the first input is used for testing - there are %d", len(loader.Inputs))
		loader.Inputs = loader.Inputs[:1]
	}
	loader.Inputs[0].Address = "localhost:0"

	app, err := loader.LaunchAppender(logger.Root())
	if err != nil {
		logger.Panic(err)
	}
	inputAddresses, shutdownInputs, err := loader.LaunchInputs(app)
	if err != nil {
		logger.Panic(err)
	}

	// feed input
	inputData, _ := loadInput(inputPath)
	costTracker := StartCostTracking()
	runBenchmarkInputSender(inputAddresses[0], inputData, repeat)
	numRecords := waitForAppendedRecords(loader.MetricFactory, 10*time.Second)

	logger.Info("stopping...")
	shutdownInputs()
	app.Stop()

	// lines may be grouped into multi-line records by the input
	reportBenchmarkResult("BenchmarkAgent", numRecords, int64(len(inputData))*int64(repeat), costTracker.Report(), loader.MetricFactory)
	logger.Info(loader.MetricFactory.DumpMetrics(false))
	return loader.MetricFactory
}

func loadBenchmarkConfig(configFile string, outputPath string, metricPrefix string) *run.Loader {
	loader, loaderErr := run.NewLoaderFromConfigFile(configFile, metricPrefix)
	if loaderErr != nil {
		logger.Panic(loaderErr)
	}
	loader.Appender.MetricsEnabled = true
	if outputPath != "" {
		loader.SenderFactory = func(parentLogger logger.Logger) (base.LogSender, error) {
			sender, err := newOutputSender(outputPath)
			if err != nil {
				return nil, err
			}
			return sender, nil
		}
	}
	return loader
}

// runAppender feeds all lines to a new appender for the given times and stops it
func runAppender(loader *run.Loader, inputLines [][]byte, repeat int) {
	app, err := loader.LaunchAppender(logger.Root())
	if err != nil {
		logger.Panic(err)
	}
	sourceField := loader.Schema.MustCreateFieldLocator("source")
	levelField := loader.Schema.MustCreateFieldLocator("level")
	messageField := loader.Schema.MustCreateFieldLocator("message")

	messages := make([]string, len(inputLines))
	levels := make([]string, len(inputLines))
	for i, ln := range inputLines {
		messages[i] = string(ln)
		levels[i] = "INFO"
		if strings.Contains(messages[i], "ERROR") {
			levels[i] = "ERROR"
		}
	}

	for r := 0; r < repeat; r++ {
		for i, msg := range messages {
			event := loader.Schema.NewEvent(time.Now())
			sourceField.Set(event.Fields, "benchmark")
			levelField.Set(event.Fields, levels[i])
			messageField.Set(event.Fields, msg)
			app.Append(event)
		}
	}
	app.Stop()
}

func runBenchmarkInputSender(agentAddress string, inputData []byte, repeat int) {
	const minFrameSize = 1 * 1024 * 1024
	const maxFrameSize = 1 * 1024 * 1024

	runtime.LockOSThread()

	conn, err := net.Dial("tcp", agentAddress)
	if err != nil {
		logger.Fatal("connect: ", err.Error())
	}

	numSent := int64(0)
	if len(inputData) >= minFrameSize {
		for i := 0; i < repeat; i++ {
			n, err := conn.Write(inputData)
			if err != nil {
				logger.Fatal("error sending ", err.Error())
			}
			numSent += int64(n)
		}
	} else {
		normalFrameRepeat := maxFrameSize/len(inputData) + 1
		normalFrame := make([]byte, len(inputData)*normalFrameRepeat)
		{
			offset := 0
			for i := 0; i < normalFrameRepeat; i++ {
				offset += copy(normalFrame[offset:], inputData)
			}
		}

		lastFrameRepeat := repeat % normalFrameRepeat
		lastFrame := normalFrame[:len(inputData)*lastFrameRepeat]
		for i := 0; i < repeat/normalFrameRepeat; i++ {
			n, err := conn.Write(normalFrame)
			if err != nil {
				logger.Fatal("error sending: ", err.Error())
			}
			numSent += int64(n)
		}
		if n, err := conn.Write(lastFrame); err != nil {
			logger.Fatal("error sending last: ", err.Error())
		} else {
			numSent += int64(n)
		}
	}

	if err := conn.Close(); err != nil {
		logger.Fatal("close: ", err.Error())
	}
	logger.Infof("writer sent %d bytes", numSent)

	runtime.UnlockOSThread()
}

// waitForAppendedRecords waits until the numbers of appended records stop growing, and returns the final count
func waitForAppendedRecords(mfactory *base.MetricFactory, timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	lastCount := -1
	for time.Now().Before(deadline) {
		time.Sleep(defs.InputFlushInterval * 2)
		count := int(sumCounter(mfactory, "appender_appended_records_total"))
		if count > 0 && count == lastCount {
			return count
		}
		lastCount = count
	}
	logger.Warnf("timeout waiting for records to be appended, got %d", lastCount)
	return lastCount
}

func sumCounter(mfactory *base.MetricFactory, name string) float64 {
	return util.SumMetricValues(mfactory.AddOrGetCounterVec(name, "", nil, nil))
}

func reportBenchmarkResult(title string, numLogs int, sizeOfLogs int64, report CostReport, mfactory *base.MetricFactory) {
	metrics := []benchmarkMetric{
		{fmt: "%.0f log/sec", val: float64(numLogs) / report.RealTime.Seconds()},
		{fmt: "%.0f MB/sec", val: float64(sizeOfLogs) / 1048576 / report.RealTime.Seconds()},
		{fmt: "%0.2f alloc/log", val: float64(report.NumHeapAllocs) / float64(numLogs)},
		{fmt: "%0.2f%% user", val: 100.0 * report.UserTime.Seconds() / report.RealTime.Seconds()},
		{fmt: "%0.2f%% sys", val: 100.0 * report.SystemTime.Seconds() / report.RealTime.Seconds()},
		{fmt: "%0.2f%% gc", val: 100.0 * report.GCCPUFraction},
		{fmt: "%.02f sec", val: report.RealTime.Seconds()},
	}
	numAppended := sumCounter(mfactory, "appender_appended_records_total")
	numDropped := sumCounter(mfactory, "appender_dropped_records_total")
	if int(numAppended)+int(numDropped) != numLogs {
		logger.Errorf("numbers of appended records don't match: %d, should be %d", int(numAppended)+int(numDropped), numLogs)
	}
	numEncoded := sumCounter(mfactory, "appender_encoded_records_total")
	if int(numEncoded) != int(numAppended) {
		logger.Errorf("numbers of encoded records don't match: %d, should be %d", int(numEncoded), int(numAppended))
	}
	numBytes := sumCounter(mfactory, "appender_encoded_bytes_total")
	metrics = append(metrics, benchmarkMetric{fmt: "%.0f B/log", val: numBytes / numEncoded})
	metrics = append(metrics, benchmarkMetric{fmt: "%.0f MB in", val: float64(sizeOfLogs) / 1048576})
	metrics = append(metrics, benchmarkMetric{fmt: "%.0f MB out", val: numBytes / 1048576})
	printBenchmarkMetrics(title, metrics)
}

func printBenchmarkMetrics(title string, metrics []benchmarkMetric) {
	sb := make([]byte, 0, 200)
	sb = append(sb, fmt.Sprintf("%s:", title)...)
	for _, m := range metrics {
		sb = append(sb, fmt.Sprintf("\t"+m.fmt, m.val)...)
	}
	fmt.Println(string(sb))
}

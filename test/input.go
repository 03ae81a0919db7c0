package test

import (
	"bytes"
	"os"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/util"
)

// loadInputLines loads sample log files into an array of non-empty lines for appender test
func loadInputLines(inputPath string) [][]byte {
	inputData, _ := loadInput(inputPath)
	lines := bytes.Split(inputData, []byte("\n"))
	result := make([][]byte, 0, len(lines))
	for _, ln := range lines {
		ln = bytes.TrimSuffix(ln, []byte("\r"))
		if len(ln) > 0 {
			result = append(result, ln)
		}
	}
	return result
}

// loadInput loads sample log files into raw data block that can be fed to line input, and also count the non-empty lines
func loadInput(inputPath string) ([]byte, int) {
	pathList, gerr := util.ListFiles(inputPath)
	if gerr != nil {
		logger.Fatal(gerr)
	} else if len(pathList) == 0 {
		logger.Fatal("no input files")
	}
	data := make([]byte, 0)
	numLines := 0
	for _, path := range pathList {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Fatalf("error reading %s: %v", path, err)
		}
		if len(content) == 0 {
			continue
		}
		if content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		nl := 0
		for _, ln := range bytes.Split(content, []byte("\n")) {
			if len(bytes.TrimSuffix(ln, []byte("\r"))) > 0 {
				nl++
			}
		}
		data = append(data, content...)
		numLines += nl
		logger.Infof("loaded %s: %d lines, %d bytes", path, nl, len(content))
	}
	return data, numLines
}

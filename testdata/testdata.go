// Package testdata provides access to shared sample logs and config for testing
package testdata

import (
	"path/filepath"
	"runtime"
)

var absoluteDirPath string

func init() {
	_, thisFile, _, _ := runtime.Caller(0)
	absoluteDirPath = filepath.Dir(thisFile)
}

// GetConfigPath returns the path of sample config file
func GetConfigPath() string {
	return filepath.Join(absoluteDirPath, "config_sample.yml")
}

// GetInputPattern returns the path pattern of sample input files
func GetInputPattern(pattern string) string {
	return filepath.Join(absoluteDirPath, "development", pattern+"-input.log")
}

package util

import (
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
)

// ListFiles expands a glob pattern to sorted file paths, where matched directories are replaced by the regular files
// directly under them
func ListFiles(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, match := range matches {
		stat, err := os.Stat(match)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			files = append(files, match)
			continue
		}
		entries, err := os.ReadDir(match)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				files = append(files, filepath.Join(match, entry.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

// Package fileutils provides the small file checks used by the commands.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// RequireFile returns an error naming flag when filePath is empty or missing.
func RequireFile(flag, filePath string) error {
	if filePath == "" {
		return fmt.Errorf("--%s is required", flag)
	}
	if !FileExists(filePath) {
		return fmt.Errorf("input file does not exist: %s", filePath)
	}
	return nil
}

// Extension returns the lower-cased extension of filePath without the dot.
func Extension(filePath string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
}

// FormatFor picks an output format from the file extension when it is one
// of allowed, and returns fallback otherwise.
func FormatFor(filePath, fallback string, allowed ...string) string {
	ext := Extension(filePath)
	for _, a := range allowed {
		if ext == a {
			return a
		}
	}
	return fallback
}

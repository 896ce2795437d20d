package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideDir is returned when a requested output path escapes its directory
var ErrOutsideDir = errors.New("output path is outside the output directory")

// ResolveWithin resolves path against dir and rejects results that leave dir.
// Relative paths are taken relative to dir.
func ResolveWithin(dir, path string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("output directory cannot be empty")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(absDir, path)
	}
	cleanPath := filepath.Clean(path)

	rel, err := filepath.Rel(absDir, cleanPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideDir, path)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDir, path)
	}
	return cleanPath, nil
}

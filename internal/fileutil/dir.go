package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotExist is wrapped by ResolveExisting and ResolveReadable when the path
// does not exist. It matches os.ErrNotExist.
var ErrNotExist = os.ErrNotExist

// EnsureDir creates a directory and all parent directories if they don't exist.
// Uses mode 0755. Returns nil if directory already exists.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// ResolveExisting returns the absolute, cleaned form of path after checking
// that it exists. Relative paths are resolved against the working directory.
func ResolveExisting(path string) (string, error) {
	if path == "" {
		return "", errors.New("path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s does not exist: %w", abs, ErrNotExist)
		}
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	return abs, nil
}

// ResolveReadable is ResolveExisting plus a check that the path can be
// opened for reading. For a directory this requires read permission on the
// directory itself and search permission on every parent.
func ResolveReadable(path string) (string, error) {
	abs, err := ResolveExisting(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("%s is not readable: %w", abs, err)
	}
	_ = f.Close()
	return abs, nil
}

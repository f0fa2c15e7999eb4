package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SamplePath names a saved frame after the wall clock time and a sequence
// number, so two saves within the same clock tick still get distinct files.
func SamplePath(dir string, t time.Time, seq uint64, format string) string {
	ext := strings.TrimPrefix(format, ".")
	return filepath.Join(dir, fmt.Sprintf("%d-%06d.%s", t.UnixNano(), seq, ext))
}

// EnsureDir creates dir and its parents if they do not exist yet.
func EnsureDir(dir string) error {
	if dir == "" {
		return errors.New("empty output directory")
	}
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("not a directory: " + dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

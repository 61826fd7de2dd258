// Package paths provides path normalization for cache keys.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Key converts a path into the canonical form used as a cache key.
// - Makes the path absolute and cleaned
// - Converts separators to forward slashes
// - Folds case on hosts whose filesystems compare case-insensitively
func Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	key := filepath.ToSlash(abs)
	if caseInsensitiveHost() {
		key = strings.ToLower(key)
	}
	return key
}

// SameKey reports whether two paths normalize to the same cache key.
func SameKey(a, b string) bool {
	return Key(a) == Key(b)
}

// Exists reports whether the path exists as either a file or a directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func caseInsensitiveHost() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	default:
		return false
	}
}

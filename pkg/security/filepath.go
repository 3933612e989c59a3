package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContainsUnsafePath reports whether a user supplied path carries parent
// directory segments before cleaning. Cleaning would silently resolve them,
// so the check runs on the raw input.
func ContainsUnsafePath(path string) bool {
	if path == "" {
		return false
	}
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}

// ValidateFixturePath checks that a fixture file path is safe to read and
// names a YAML or JSON document.
func ValidateFixturePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("fixture path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("fixture path contains a NUL byte")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return fmt.Errorf("fixture file must have a .yaml, .yml or .json extension: %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access fixture file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("fixture path is not a regular file: %s", path)
	}
	return nil
}

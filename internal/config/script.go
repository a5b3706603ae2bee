package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrScriptIsDirectory is returned when the selected script path is a directory.
	ErrScriptIsDirectory = errors.New("script path is a directory")
	// ErrScriptExtension is returned when the selected file has the wrong extension.
	ErrScriptExtension = errors.New("script has an unsupported extension")
)

// ResolveScriptPath checks that path names an existing file carrying the
// expected extension and returns its absolute form.
func ResolveScriptPath(path, extension string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("script path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving script path %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("checking script %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", abs, ErrScriptIsDirectory)
	}

	if extension != "" && !strings.EqualFold(filepath.Ext(abs), extension) {
		return "", fmt.Errorf("%s: %w (want %s)", abs, ErrScriptExtension, extension)
	}

	return abs, nil
}

// SetScriptPath validates path against the configured extension and stores
// its absolute form under script.path.
func SetScriptPath(path string) (string, error) {
	abs, err := ResolveScriptPath(path, ScriptExtension())
	if err != nil {
		return "", err
	}
	if err := Set(KeyScriptPath, abs); err != nil {
		return "", err
	}
	return abs, nil
}

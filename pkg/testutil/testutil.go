// Package testutil provides small filesystem helpers shared by tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mitchellh/go-homedir"
)

// CreateDir creates a directory (and parents) under base and returns its path
func CreateDir(t *testing.T, base, name string) string {
	t.Helper()
	path := filepath.Join(base, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
	return path
}

// CreateFile creates a file with the given content under dir and returns
// its path, creating parent directories as needed
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of a file, failing the test on error
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(data)
}

// TempHome points HOME at a fresh temporary directory for the duration of
// the test, so tilde expansion stays inside the test sandbox
func TempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	homedir.DisableCache = true
	homedir.Reset()
	t.Cleanup(func() {
		homedir.DisableCache = false
		homedir.Reset()
	})
	return home
}

// SkipOnWindows skips tests that depend on Unix shell or symlink behavior
func SkipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping on windows")
	}
}

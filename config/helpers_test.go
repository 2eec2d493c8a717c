// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withCleanEnv clears the environment, sets extra vars, and returns a
// cleanup function that restores the original env. ENV_FILE points to a
// path that does not exist so a stray .env never leaks into a test.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(withCleanEnv(t, map[string]string{"PORT": "9090"}))
//	}
func withCleanEnv(t *testing.T, extra map[string]string) func() {
	t.Helper()

	// Save entire environment
	originalEnv := os.Environ()

	os.Clearenv()
	os.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	for key, value := range extra {
		os.Setenv(key, value)
	}

	return func() {
		os.Clearenv()
		for _, env := range originalEnv {
			if key, value, ok := strings.Cut(env, "="); ok {
				os.Setenv(key, value)
			}
		}
	}
}

// writeFile creates a file with content in a test temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

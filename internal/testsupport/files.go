package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, and its parents, holding size filler bytes. Pipeline
// reuse only considers non-empty artifacts, so size is at least one.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()
	if size <= 0 {
		size = 1
	}
	write(t, path, bytes.Repeat([]byte{'x'}, size))
}

// WriteHarvest writes a story harvest file named name into dir.
func WriteHarvest(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	write(t, path, []byte(body))
	return path
}

func write(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes,
// creating parent directories as needed. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteVideoFile places an empty stand-in video for the given id under the
// archive's primary video directory and returns its path.
func WriteVideoFile(t testing.TB, archiveRoot, videoID string) string {
	t.Helper()

	path := filepath.Join(archiveRoot, "data", "videos", videoID+".mp4")
	WriteFile(t, path, 64)
	return path
}

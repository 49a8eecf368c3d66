package testsupport

import (
	"path/filepath"
	"testing"

	"tikvault/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The sqlite backend is selected with a database file under the temp root.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LockFile = filepath.Join(base, "upload.lock")
	cfg.Database.Backend = config.BackendSQLite
	cfg.Database.SQLitePath = filepath.Join(base, "tikvault.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSource sets the upload selection source on the test config.
func WithSource(source string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Upload.Source = source
	}
}

// WithMaxVideoLength sets the candidate length ceiling on the test config.
func WithMaxVideoLength(seconds float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Upload.MaxVideoLength = seconds
	}
}

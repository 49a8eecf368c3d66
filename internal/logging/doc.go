// Package logging assembles structured slog loggers used across tikvault.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing so every command emits log lines with the same shape. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWithComponentPrefixesConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	WithComponent(logger, "upload").Info("video published", slog.String("video_id", "v1"))

	line := buf.String()
	if !strings.Contains(line, "upload: video published") {
		t.Fatalf("line = %q, want component prefix", line)
	}
	if !strings.Contains(line, "video_id=v1") {
		t.Fatalf("line = %q, want attribute preserved", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("line = %q, component attr should render as prefix only", line)
	}
}

func TestWithComponentNilLogger(t *testing.T) {
	logger := WithComponent(nil, "import")
	if logger == nil {
		t.Fatal("expected a usable logger")
	}
	logger.Info("discarded")
}

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Info("load failed", "error", errors.New("boom"))
	out := buf.String()
	if !strings.Contains(out, "err=boom") {
		t.Fatalf("want err=boom in %q", out)
	}
	if strings.Contains(out, "error=") {
		t.Fatalf("error key not renamed: %q", out)
	}
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %q", buf.String())
	}
}

func TestNewNop(t *testing.T) {
	NewNop().Error("dropped")
}

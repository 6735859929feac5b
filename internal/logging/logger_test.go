package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, slog.LevelInfo)
	log.Info("save failed", "error", errors.New("boom"))
	log.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "err=boom") {
		t.Fatalf("expected err=boom, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered: %q", out)
	}
}

func TestOpenFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")
	for i := 0; i < 2; i++ {
		log, c, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		log.Debug("tick")
		_ = c.Close()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(b), "msg=tick"); n != 2 {
		t.Fatalf("expected 2 records, got %d:\n%s", n, b)
	}
}

func TestLevel(t *testing.T) {
	if Level(true) != slog.LevelDebug || Level(false) != slog.LevelWarn {
		t.Fatalf("unexpected levels")
	}
}

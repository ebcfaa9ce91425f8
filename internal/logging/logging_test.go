package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WriterAndLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, c, err := New(Options{Level: "warn", W: &buf, Prefix: "kanban"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	l.Info("hidden")
	l.Warn("shown", "id", 7)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=7") || !strings.Contains(out, "kanban") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNew_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "kanban.log")
	l, c, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Error("load cards", "err", "boom")
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "load cards") {
		t.Fatalf("log file = %q", b)
	}
}

func TestNew_BadLevel(t *testing.T) {
	t.Parallel()
	if _, _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatalf("expected error")
	}
}

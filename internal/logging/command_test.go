package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogCommandWritesTranscript(t *testing.T) {
	logDir := t.TempDir()
	logger := NewCommandLogger(logDir)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := logger.LogCommand([]string{"bd", "update", "bead-1", "--status", "in_progress"}, "ok", "", errors.New("exit 1"), start)
	if err != nil {
		t.Fatalf("LogCommand returned error: %v", err)
	}

	files, err := os.ReadDir(logDir)
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", files, err)
	}
	content, err := os.ReadFile(filepath.Join(logDir, files[0].Name()))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{
		"Command: bd update bead-1 --status in_progress",
		"Error: exit 1",
		"=== STDOUT ===\nok",
		"=== STDERR ===\n(no output)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("log missing %q:\n%s", want, text)
		}
	}
}

func TestLogCommandNoopWithoutDir(t *testing.T) {
	logger := NewCommandLogger("")
	if err := logger.LogCommand([]string{"git", "add", "."}, "", "", nil, time.Now()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CommandLogger writes one timestamped file per logged bd/git
// invocation so store and VCS traffic stays inspectable after a run.
type CommandLogger struct {
	logDir string
}

func NewCommandLogger(logDir string) *CommandLogger {
	return &CommandLogger{logDir: logDir}
}

func (cl *CommandLogger) LogCommand(command []string, stdout string, stderr string, runErr error, startTime time.Time) error {
	if cl.logDir == "" || len(command) == 0 {
		return nil
	}
	if err := os.MkdirAll(cl.logDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	timestamp := startTime.UTC().Format("20060102_150405_000000")
	name := strings.Join(command[:min(3, len(command))], "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	logPath := filepath.Join(cl.logDir, fmt.Sprintf("%s_%s.log", timestamp, name))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "Command: %s\n", strings.Join(command, " "))
	fmt.Fprintf(file, "Start Time: %s\n", startTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(file, "Elapsed: %s\n", time.Since(startTime).Round(time.Millisecond))
	if runErr != nil {
		fmt.Fprintf(file, "Error: %v\n", runErr)
	}
	writeSection(file, "STDOUT", stdout)
	writeSection(file, "STDERR", stderr)
	return nil
}

func writeSection(file *os.File, label string, content string) {
	if content == "" {
		content = "(no output)"
	}
	fmt.Fprintf(file, "\n=== %s ===\n%s\n", label, content)
}

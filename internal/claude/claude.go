// Package claude dispatches the claude CLI as the alternate coding
// agent backend.
package claude

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

const defaultBinary = "claude"

var tokenRedactionPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{12,}\b`)

type CommandSpec struct {
	Binary string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

type CommandRunner interface {
	Run(spec CommandSpec) error
}

type commandRunnerFunc func(spec CommandSpec) error

func (f commandRunnerFunc) Run(spec CommandSpec) error {
	return f(spec)
}

type Backend struct {
	binary string
	runner CommandRunner
}

func NewBackend(binary string, runner CommandRunner) *Backend {
	resolved := strings.TrimSpace(binary)
	if resolved == "" {
		resolved = defaultBinary
	}
	if runner == nil {
		runner = commandRunnerFunc(runCommand)
	}
	return &Backend{binary: resolved, runner: runner}
}

func (b *Backend) Command(repoRoot string, prompt string, model string) []string {
	return append([]string{b.binary}, buildArgs(prompt, model)...)
}

// Run dispatches one claude invocation with stdout captured to logPath
// and stderr to a sibling file. The prompt reaches the agent verbatim;
// redaction applies only to the persisted output lines.
func (b *Backend) Run(issueID string, repoRoot string, prompt string, model string, configRoot string, configDir string, logPath string) error {
	if logPath == "" {
		logPath = filepath.Join(repoRoot, "runner-logs", "agent", issueID+".jsonl")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	stdoutFile, err := os.Create(logPath)
	if err != nil {
		return err
	}
	defer stdoutFile.Close()

	stderrPath := strings.TrimSuffix(logPath, ".jsonl") + ".stderr.log"
	stderrFile, err := os.Create(stderrPath)
	if err != nil {
		return err
	}
	defer stderrFile.Close()

	stdout := newRedactingLineWriter(stdoutFile)
	defer stdout.Flush()
	stderr := newRedactingLineWriter(stderrFile)
	defer stderr.Flush()

	return b.runner.Run(CommandSpec{
		Binary: b.binary,
		Args:   buildArgs(prompt, model),
		Dir:    repoRoot,
		Stdout: stdout,
		Stderr: stderr,
	})
}

// redactingLineWriter buffers to line boundaries and applies Redact to
// each completed line before it hits the destination.
type redactingLineWriter struct {
	dst io.Writer
	buf bytes.Buffer
}

func newRedactingLineWriter(dst io.Writer) *redactingLineWriter {
	return &redactingLineWriter{dst: dst}
}

func (w *redactingLineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		content := w.buf.Bytes()
		index := bytes.IndexByte(content, '\n')
		if index < 0 {
			return len(p), nil
		}
		line := string(content[:index+1])
		w.buf.Next(index + 1)
		if _, err := io.WriteString(w.dst, Redact(line)); err != nil {
			return len(p), err
		}
	}
}

// Flush writes any trailing partial line.
func (w *redactingLineWriter) Flush() error {
	if w.buf.Len() == 0 {
		return nil
	}
	line := w.buf.String()
	w.buf.Reset()
	_, err := io.WriteString(w.dst, Redact(line))
	return err
}

// Redact strips API tokens before text is persisted or echoed.
func Redact(text string) string {
	return tokenRedactionPattern.ReplaceAllString(text, "sk-<redacted>")
}

func buildArgs(prompt string, model string) []string {
	args := []string{"--print", "--output-format", "text"}
	if model := strings.TrimSpace(model); model != "" {
		args = append(args, "--model", model)
	}
	if prompt := strings.TrimSpace(prompt); prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	return args
}

func runCommand(spec CommandSpec) error {
	if strings.TrimSpace(spec.Binary) == "" {
		return errors.New("claude binary is required")
	}
	cmd := exec.Command(spec.Binary, spec.Args...)
	if strings.TrimSpace(spec.Dir) != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr
	return cmd.Run()
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"beadrunner/internal/logging"
	"beadrunner/internal/opencode"
)

// commandRunner runs bd with output captured and a per-invocation log
// file written under runner-logs/commands.
type commandRunner struct {
	logDir string
}

func (cr commandRunner) Run(args ...string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("empty command")
	}
	startTime := time.Now()
	var stdout, stderr strings.Builder
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if logErr := logging.NewCommandLogger(cr.logDir).LogCommand(args, stdout.String(), stderr.String(), runErr, startTime); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", logErr)
	}
	if runErr != nil {
		return stdout.String(), fmt.Errorf("%s failed: %w\n%s", args[0], runErr, stderr.String())
	}
	return stdout.String(), nil
}

type gitCommandRunner struct {
	inner commandRunner
}

func (gr gitCommandRunner) Run(name string, args ...string) (string, error) {
	return gr.inner.Run(append([]string{name}, args...)...)
}

// agentStarter launches the agent with stdout redirected to the
// transcript file and stderr to a sibling log.
type agentStarter struct {
	out io.Writer
}

func (s agentStarter) Start(args []string, env map[string]string, stdoutPath string) (opencode.Process, error) {
	if len(args) == 0 {
		return nil, errors.New("empty agent command")
	}
	printCommand(s.out, opencode.RedactArgs(args))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	stdoutFile, err := os.Create(stdoutPath)
	if err != nil {
		return nil, fmt.Errorf("create agent transcript: %w", err)
	}
	stderrPath := strings.TrimSuffix(stdoutPath, filepath.Ext(stdoutPath)) + ".stderr.log"
	stderrFile, err := os.Create(stderrPath)
	if err != nil {
		stdoutFile.Close()
		return nil, fmt.Errorf("create agent stderr log: %w", err)
	}
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile

	if err := cmd.Start(); err != nil {
		stdoutFile.Close()
		stderrFile.Close()
		return nil, err
	}
	return &cmdProcess{
		cmd:        cmd,
		stdoutFile: stdoutFile,
		stderrFile: stderrFile,
		startTime:  time.Now(),
		out:        s.out,
	}, nil
}

type cmdProcess struct {
	cmd        *exec.Cmd
	stdoutFile *os.File
	stderrFile *os.File
	startTime  time.Time
	out        io.Writer
}

func (p *cmdProcess) Wait() error {
	err := p.cmd.Wait()
	p.stdoutFile.Close()
	p.stderrFile.Close()
	printOutcome(p.out, time.Since(p.startTime), err)
	return err
}

func (p *cmdProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

func printCommand(out io.Writer, args []string) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, "$ %s\n", strings.Join(args, " "))
}

func printOutcome(out io.Writer, elapsed time.Duration, err error) {
	if out == nil {
		return
	}
	if err != nil {
		fmt.Fprintf(out, "exit %d after %s\n", exitCodeFromError(err), formatElapsed(elapsed))
		return
	}
	fmt.Fprintf(out, "done in %s\n", formatElapsed(elapsed))
}

func formatElapsed(elapsed time.Duration) string {
	if elapsed < time.Second {
		return elapsed.Round(time.Millisecond).String()
	}
	return elapsed.Round(time.Second).String()
}

func exitCodeFromError(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

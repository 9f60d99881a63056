// Package opencode dispatches the opencode CLI as the coding agent.
package opencode

import (
	"os"
	"path/filepath"
)

// Process is a dispatched agent invocation. The runner waits for it to
// finish; there is no timeout here.
type Process interface {
	Wait() error
	Kill() error
}

// Runner starts the agent process with stdout captured to stdoutPath.
type Runner interface {
	Start(args []string, env map[string]string, stdoutPath string) (Process, error)
}

type RunnerFunc func(args []string, env map[string]string, stdoutPath string) (Process, error)

func (f RunnerFunc) Start(args []string, env map[string]string, stdoutPath string) (Process, error) {
	return f(args, env, stdoutPath)
}

func BuildArgs(repoRoot string, prompt string, model string) []string {
	args := []string{"opencode", "run", prompt, "--agent", "yolo", "--format", "json"}
	if model != "" {
		args = append(args, "--model", model)
	}
	return append(args, repoRoot)
}

// RedactArgs hides the prompt when the command line is echoed.
func RedactArgs(args []string) []string {
	if len(args) >= 3 && args[0] == "opencode" && args[1] == "run" {
		redacted := append([]string{}, args...)
		redacted[2] = "<prompt redacted>"
		return redacted
	}
	return args
}

func BuildEnv(baseEnv map[string]string, configRoot string, configDir string) map[string]string {
	env := map[string]string{}
	for key, value := range baseEnv {
		env[key] = value
	}
	env["OPENCODE_DISABLE_CLAUDE_CODE"] = "true"
	env["OPENCODE_DISABLE_CLAUDE_CODE_SKILLS"] = "true"
	env["OPENCODE_DISABLE_CLAUDE_CODE_PROMPT"] = "true"
	env["OPENCODE_DISABLE_DEFAULT_PLUGINS"] = "true"
	env["CI"] = "true"

	if configRoot != "" {
		env["XDG_CONFIG_HOME"] = configRoot
	}
	if configDir != "" {
		configFile := filepath.Join(configDir, "opencode.json")
		env["OPENCODE_CONFIG_DIR"] = configDir
		env["OPENCODE_CONFIG"] = configFile
		env["OPENCODE_CONFIG_CONTENT"] = "{}"
	}
	return env
}

// Run dispatches one agent invocation and blocks until it exits. The
// config scaffolding mirrors what the agent expects on first use.
func Run(issueID string, repoRoot string, prompt string, model string, configRoot string, configDir string, logPath string, runner Runner) error {
	if runner == nil {
		return nil
	}
	if configRoot != "" {
		if err := os.MkdirAll(configRoot, 0o755); err != nil {
			return err
		}
	}
	if configDir != "" {
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return err
		}
		configFile := filepath.Join(configDir, "opencode.json")
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := os.WriteFile(configFile, []byte("{}"), 0o644); err != nil {
				return err
			}
		}
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return err
		}
	}

	args := BuildArgs(repoRoot, prompt, model)
	env := BuildEnv(nil, configRoot, configDir)
	process, err := runner.Start(args, env, logPath)
	if err != nil {
		return err
	}
	return process.Wait()
}

// Backend adapts this package to the runner's AgentRunner surface.
type Backend struct {
	starter Runner
}

func NewBackend(starter Runner) *Backend {
	return &Backend{starter: starter}
}

func (b *Backend) Command(repoRoot string, prompt string, model string) []string {
	return BuildArgs(repoRoot, prompt, model)
}

func (b *Backend) Run(issueID string, repoRoot string, prompt string, model string, configRoot string, configDir string, logPath string) error {
	return Run(issueID, repoRoot, prompt, model, configRoot, configDir, logPath, b.starter)
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"beadrunner/internal/beads"
	"beadrunner/internal/claude"
	"beadrunner/internal/config"
	"beadrunner/internal/logging"
	"beadrunner/internal/opencode"
	"beadrunner/internal/prompt"
	"beadrunner/internal/runner"
	"beadrunner/internal/ui/tui"
	gitadapter "beadrunner/internal/vcs/git"
)

type runOnceFunc func(opts runner.Options, deps runner.Deps) (runner.Outcome, error)

type exitFunc func(code int)

type beadsRunner interface {
	Run(args ...string) (string, error)
}

type gitRunner interface {
	Run(name string, args ...string) (string, error)
}

type tuiProgram interface {
	Start() error
	Send(msg tea.Msg)
	Quit()
}

type tuiEmitter struct {
	program tuiProgram
	watch   *agentLogWatcher
}

func (t tuiEmitter) Emit(event runner.Event) {
	if t.program == nil {
		return
	}
	go t.program.Send(event)
	if t.watch != nil {
		t.watch.Handle(event)
	}
}

// agentLogWatcher follows the per-task transcript during the agent
// phase so the TUI's last-output age tracks real agent output instead
// of phase transitions.
type agentLogWatcher struct {
	repoRoot string
	run      func(ctx context.Context, path string)
	mu       sync.Mutex
	cancel   context.CancelFunc
}

func newAgentLogWatcher(repoRoot string, send func(msg tea.Msg)) *agentLogWatcher {
	watcher := &agentLogWatcher{repoRoot: repoRoot}
	watcher.run = func(ctx context.Context, path string) {
		tui.NewLogWatcher(tui.LogWatchConfig{
			Path: path,
			Emit: func(msg tui.OutputMsg) { send(msg) },
		}).Run(ctx)
	}
	return watcher
}

func (w *agentLogWatcher) Handle(event runner.Event) {
	switch event.Type {
	case runner.EventAgentStart:
		w.start(filepath.Join(w.repoRoot, "runner-logs", "agent", event.IssueID+".jsonl"))
	case runner.EventAgentEnd:
		w.Stop()
	}
}

func (w *agentLogWatcher) start(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx, path)
}

func (w *agentLogWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

type bubbleTUIProgram struct {
	program *tea.Program
}

func (b bubbleTUIProgram) Start() error {
	if b.program == nil {
		return nil
	}
	_, err := b.program.Run()
	return err
}

func (b bubbleTUIProgram) Send(msg tea.Msg) {
	if b.program == nil {
		return
	}
	b.program.Send(msg)
}

func (b bubbleTUIProgram) Quit() {
	if b.program == nil {
		return
	}
	b.program.Quit()
}

var isTerminal = func(writer io.Writer) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

var newTUIProgram = func(model tea.Model, stdout io.Writer, input io.Reader) tuiProgram {
	if input == nil {
		input = os.Stdin
	}
	program := tea.NewProgram(model, tea.WithInput(input), tea.WithOutput(stdout))
	return bubbleTUIProgram{program: program}
}

func RunnerMain(args []string, runOnce runOnceFunc, exit exitFunc, stdout io.Writer, stderr io.Writer, bd beadsRunner, git gitRunner) int {
	if len(args) > 0 && args[0] == "init" {
		return InitMain(args[1:], exit, stderr)
	}

	fail := func(err error) int {
		fmt.Fprintln(stderr, err)
		if exit != nil {
			exit(1)
		}
		return 1
	}

	fs := flag.NewFlagSet("beadrunner", flag.ContinueOnError)
	fs.SetOutput(stderr)

	repoRoot := fs.String("repo", ".", "Repository root path")
	rootID := fs.String("root", "", "Root bead/epic ID")
	model := fs.String("model", "", "Agent model")
	maxTasks := fs.Int("max", 0, "Max tasks to process (0 = unlimited)")
	dryRun := fs.Bool("dry-run", false, "Print task and prompt without executing")
	headless := fs.Bool("headless", false, "Force plain output without TUI")
	configRoot := fs.String("config-root", "", "Agent config root")
	configDir := fs.String("config-dir", "", "Agent config dir")

	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := fs.Parse(args); err != nil {
		if exit != nil {
			exit(1)
		}
		return 1
	}

	if runOnce == nil {
		runOnce = runner.RunOnce
	}

	cfg, err := config.Load(*repoRoot)
	if err != nil {
		return fail(err)
	}
	resolvedModel := *model
	if resolvedModel == "" {
		resolvedModel = cfg.Model
	}
	plainOutput := *headless || cfg.Headless

	logDir := filepath.Join(*repoRoot, "runner-logs", "commands")
	if bd == nil {
		bd = commandRunner{logDir: logDir}
	}
	if git == nil {
		git = gitCommandRunner{inner: commandRunner{logDir: logDir}}
	}

	agent, err := buildAgent(cfg, stdout)
	if err != nil {
		return fail(err)
	}
	if cfg.Agent.Backend != config.BackendClaude {
		if err := opencode.ValidateAgent(*repoRoot); err != nil {
			return fail(err)
		}
	}

	resolvedRootID := *rootID
	if resolvedRootID == "" {
		resolvedRootID = cfg.Root
	}
	if resolvedRootID == "" {
		inferredRootID, err := inferDefaultRootID(*repoRoot)
		if err != nil {
			return fail(err)
		}
		resolvedRootID = inferredRootID
	}

	resolvedConfigRoot := *configRoot
	resolvedConfigDir := *configDir
	if resolvedConfigRoot == "" {
		if homeDir := os.Getenv("HOME"); homeDir != "" {
			resolvedConfigRoot = filepath.Join(homeDir, ".config", "beadrunner")
		}
	}
	if resolvedConfigDir == "" && resolvedConfigRoot != "" {
		resolvedConfigDir = filepath.Join(resolvedConfigRoot, "opencode")
	}

	beadsAdapter := beads.New(bd)
	gitAdapter := gitadapter.New(git)

	deps := runner.Deps{
		Backlog: beadsAdapter,
		Prompt:  promptBuilder{},
		Agent:   agent,
		Git:     gitAdapter,
		Audit:   auditLogger{},
	}

	options := runner.Options{
		RepoRoot:   *repoRoot,
		RootID:     resolvedRootID,
		Model:      resolvedModel,
		ConfigRoot: resolvedConfigRoot,
		ConfigDir:  resolvedConfigDir,
		DryRun:     *dryRun,
		Out:        stdout,
		Stop:       runner.NewStopState(),
	}

	var program tuiProgram
	if !plainOutput && !*dryRun && isTerminal(stdout) {
		stopCh := make(chan struct{})
		options.Stop.Watch(stopCh)
		program = newTUIProgram(tui.NewModelWithStop(nil, stopCh), stdout, os.Stdin)
		watch := newAgentLogWatcher(*repoRoot, program.Send)
		defer watch.Stop()
		deps.Events = tuiEmitter{program: program, watch: watch}
		go func() {
			if err := program.Start(); err != nil {
				fmt.Fprintln(stderr, err)
			}
		}()
	}
	if isTerminal(stdout) {
		defer fmt.Fprint(stdout, "\x1b[?25h")
	}

	completed, err := runner.RunLoop(options, deps, *maxTasks, runOnce)
	if program != nil {
		program.Quit()
	}
	if err != nil {
		return fail(err)
	}

	if cleanupErr := runner.CleanupAfterStop(options.Stop, runner.StopCleanupConfig{
		Backlog: beadsAdapter,
		Git:     gitAdapter,
		Out:     stdout,
		Confirm: confirmOnTerminal(stdout),
	}); cleanupErr != nil {
		return fail(cleanupErr)
	}

	fmt.Fprintf(stdout, "Completed %d tasks\n", completed)
	if exit != nil {
		exit(0)
	}
	return 0
}

func buildAgent(cfg config.Config, out io.Writer) (runner.AgentRunner, error) {
	switch cfg.Agent.Backend {
	case config.BackendClaude:
		return claude.NewBackend(cfg.Agent.Binary, nil), nil
	case "", config.BackendOpenCode:
		return opencode.NewBackend(agentStarter{out: out}), nil
	default:
		return nil, fmt.Errorf("unknown agent backend %q", cfg.Agent.Backend)
	}
}

func confirmOnTerminal(stdout io.Writer) func(summary string) (bool, error) {
	if !isTerminal(stdout) {
		return nil
	}
	return func(summary string) (bool, error) {
		fmt.Fprintln(stdout, summary)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
	}
}

func main() {
	RunnerMain(os.Args[1:], runner.RunOnce, os.Exit, os.Stdout, os.Stderr, nil, nil)
}

func InitMain(args []string, exit exitFunc, stderr io.Writer) int {
	fs := flag.NewFlagSet("beadrunner-init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	repoRoot := fs.String("repo", ".", "Repository root path")

	if err := fs.Parse(args); err != nil {
		if exit != nil {
			exit(1)
		}
		return 1
	}

	if err := opencode.InitAgent(*repoRoot); err != nil {
		fmt.Fprintln(stderr, err)
		if exit != nil {
			exit(1)
		}
		return 1
	}

	if exit != nil {
		exit(0)
	}
	return 0
}

type promptBuilder struct{}

func (promptBuilder) Build(issueID string, title string, description string, acceptance string) string {
	return prompt.Build(issueID, title, description, acceptance)
}

type auditLogger struct{}

func (auditLogger) Append(repoRoot string, issueID string, title string, status string, commitSHA string) error {
	return logging.AppendSummary(repoRoot, issueID, title, status, commitSHA)
}

type rootCandidate struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"issue_type"`
	Status string `json:"status"`
}

// inferDefaultRootID picks the unique open Roadmap epic from the beads
// issue file when --root is not given.
func inferDefaultRootID(repoRoot string) (string, error) {
	issuesPath := filepath.Join(repoRoot, ".beads", "issues.jsonl")
	file, err := os.Open(issuesPath)
	if err != nil {
		return "", errors.New("missing --root and no readable .beads/issues.jsonl; pass --root explicitly")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	count := 0
	var match rootCandidate
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var item rootCandidate
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			continue
		}
		if item.Title == "Roadmap" && item.Type == "epic" && (item.Status == "open" || item.Status == "in_progress") {
			count++
			match = item
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.New("missing --root and unable to read .beads/issues.jsonl; pass --root explicitly")
	}
	if count == 1 && match.ID != "" {
		return match.ID, nil
	}
	return "", errors.New("missing --root and no unique Roadmap epic found; pass --root explicitly")
}

package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"beadrunner/internal/backlog"
	"beadrunner/internal/ui"
)

type Deps struct {
	Backlog BacklogClient
	Prompt  PromptBuilder
	Agent   AgentRunner
	Git     GitClient
	Audit   AuditLogger
	Events  EventEmitter
}

type Options struct {
	RepoRoot       string
	RootID         string
	Model          string
	ConfigRoot     string
	ConfigDir      string
	LogPath        string
	DryRun         bool
	Out            io.Writer
	ProgressNow    func() time.Time
	ProgressTicker ui.ProgressTicker
	Progress       ProgressState
	Stop           *StopState
}

type ProgressState struct {
	Completed int
	Total     int
}

var now = time.Now

// RunOnce drives one selected task to a terminal outcome. Empty
// backlog, a diff-less agent run, and closure divergence are modeled
// outcomes; any collaborator error propagates and aborts the run.
func RunOnce(opts Options, deps Deps) (Outcome, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	startTime := now()
	currentState := ""
	setState := func(state string) {
		if state == "" || state == currentState {
			return
		}
		currentState = state
		fmt.Fprintf(out, "State: %s\n", state)
	}

	progressState := opts.Progress
	if progressState.Total == 0 {
		tree, err := deps.Backlog.Tree(opts.RootID)
		if err != nil {
			return "", err
		}
		progressState.Total = progressState.Completed + backlog.CountOpenLeaves(tree)
	}

	leafID, err := backlog.SelectLeaf(opts.RootID, deps.Backlog)
	if err != nil {
		return "", err
	}
	if leafID == "" {
		fmt.Fprintln(out, "No tasks available")
		return OutcomeNoTasks, nil
	}

	task, err := deps.Backlog.Show(leafID)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(out, "Starting [%d/%d] %s: %s\n", progressState.Completed, progressState.Total, leafID, task.Title)
	setState("selecting task")
	emitPhase(opts, deps.Events, EventSelectTask, task, progressState)

	prompt := deps.Prompt.Build(leafID, task.Title, task.Description, task.AcceptanceCriteria)
	command := deps.Agent.Command(opts.RepoRoot, prompt, opts.Model)

	if opts.DryRun {
		setState("dry run")
		fmt.Fprintf(out, "Task: %s - %s\n", leafID, task.Title)
		fmt.Fprintln(out, prompt)
		fmt.Fprintf(out, "Command: %s\n", strings.Join(command, " "))
		finish(out, leafID, OutcomeDryRun, startTime)
		return OutcomeDryRun, nil
	}

	setState("tracker update")
	emitPhase(opts, deps.Events, EventTrackerUpdate, task, progressState)
	if err := deps.Backlog.UpdateStatus(leafID, backlog.StatusInProgress); err != nil {
		return "", err
	}
	opts.Stop.MarkInProgress(leafID)

	setState("agent running")
	emitPhase(opts, deps.Events, EventAgentStart, task, progressState)
	logPath := opts.LogPath
	if logPath == "" {
		logPath = filepath.Join(opts.RepoRoot, "runner-logs", "agent", leafID+".jsonl")
	}
	progress := ui.NewProgress(ui.ProgressConfig{
		Writer:  out,
		State:   currentState,
		LogPath: logPath,
		Now:     opts.ProgressNow,
		Ticker:  opts.ProgressTicker,
	})
	progressCtx, cancelProgress := context.WithCancel(context.Background())
	go progress.Run(progressCtx)
	agentErr := deps.Agent.Run(leafID, opts.RepoRoot, prompt, opts.Model, opts.ConfigRoot, opts.ConfigDir, logPath)
	cancelProgress()
	progress.Finish(agentErr)
	if agentErr != nil {
		return "", agentErr
	}
	emitPhase(opts, deps.Events, EventAgentEnd, task, progressState)

	setState("git add")
	emitPhase(opts, deps.Events, EventGitAdd, task, progressState)
	if err := deps.Git.AddAll(); err != nil {
		return "", err
	}

	setState("git status")
	emitPhase(opts, deps.Events, EventGitStatus, task, progressState)
	dirty, err := deps.Git.IsDirty()
	if err != nil {
		return "", err
	}

	if !dirty {
		setState("no changes")
		commitSHA, err := deps.Git.RevParseHead()
		if err != nil {
			return "", err
		}
		if err := deps.Audit.Append(opts.RepoRoot, leafID, task.Title, string(OutcomeBlocked), commitSHA); err != nil {
			return "", err
		}
		if err := deps.Backlog.UpdateStatus(leafID, backlog.StatusBlocked); err != nil {
			return "", err
		}
		finish(out, leafID, OutcomeBlocked, startTime)
		return OutcomeBlocked, nil
	}

	commitMessage := "feat: complete bead task"
	if task.Title != "" {
		commitMessage = "feat: " + strings.ToLower(task.Title)
	}

	setState("git commit")
	emitPhase(opts, deps.Events, EventGitCommit, task, progressState)
	if err := deps.Git.Commit(commitMessage); err != nil {
		return "", err
	}

	commitSHA, err := deps.Git.RevParseHead()
	if err != nil {
		return "", err
	}
	if err := deps.Audit.Append(opts.RepoRoot, leafID, task.Title, string(OutcomeCompleted), commitSHA); err != nil {
		return "", err
	}

	setState("tracker close")
	emitPhase(opts, deps.Events, EventTrackerClose, task, progressState)
	if err := deps.Backlog.Close(leafID); err != nil {
		return "", err
	}

	setState("tracker verify")
	emitPhase(opts, deps.Events, EventTrackerVerify, task, progressState)
	closed, err := deps.Backlog.Show(leafID)
	if err != nil {
		return "", err
	}
	if closed.Status != backlog.StatusClosed {
		if err := deps.Audit.Append(opts.RepoRoot, leafID, task.Title, string(OutcomeBlocked), commitSHA); err != nil {
			return "", err
		}
		if err := deps.Backlog.UpdateStatus(leafID, backlog.StatusBlocked); err != nil {
			return "", err
		}
		finish(out, leafID, OutcomeBlocked, startTime)
		return OutcomeBlocked, nil
	}

	setState("tracker sync")
	emitPhase(opts, deps.Events, EventTrackerSync, task, progressState)
	if err := deps.Backlog.Sync(); err != nil {
		return "", err
	}

	finish(out, leafID, OutcomeCompleted, startTime)
	return OutcomeCompleted, nil
}

func finish(out io.Writer, leafID string, outcome Outcome, startTime time.Time) {
	elapsed := now().Sub(startTime).Round(time.Second)
	fmt.Fprintf(out, "Finished %s: %s (%s)\n", leafID, outcome, elapsed)
}

func emitPhase(opts Options, emitter EventEmitter, eventType EventType, task Task, progress ProgressState) {
	if emitter == nil {
		return
	}
	emitter.Emit(Event{
		Type:              eventType,
		IssueID:           task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Model:             opts.Model,
		ProgressCompleted: progress.Completed,
		ProgressTotal:     progress.Total,
		EmittedAt:         time.Now(),
	})
}

package tui

import (
	"strings"
	"testing"

	"beadrunner/internal/runner"
)

func TestStatusBarShowsProgressAndPhase(t *testing.T) {
	bar := NewStatusBar()
	bar, _ = bar.Update(UpdateStatusBarMsg{
		Event: runner.Event{
			Type:              runner.EventAgentStart,
			IssueID:           "bead-1",
			Model:             "sonnet",
			ProgressCompleted: 2,
			ProgressTotal:     5,
		},
		LastOutputAge: "4s",
		Spinner:       "|",
	})

	view := bar.View()
	for _, want := range []string{"[2/5]", "agent running", "bead-1", "[sonnet]", "(4s)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("status bar missing %q:\n%s", want, view)
		}
	}
}

func TestStatusBarOmitsEmptyProgress(t *testing.T) {
	bar := NewStatusBar()
	bar, _ = bar.Update(UpdateStatusBarMsg{
		Event: runner.Event{Type: runner.EventGitAdd, IssueID: "bead-1"},
	})

	if strings.Contains(bar.View(), "[0/0]") {
		t.Fatalf("zero totals should be hidden:\n%s", bar.View())
	}
}

func TestStatusBarStoppingState(t *testing.T) {
	bar := NewStatusBar()
	bar, _ = bar.Update(StopStatusBarMsg{})

	if !strings.Contains(bar.View(), "Stopping...") {
		t.Fatalf("stopping state not rendered:\n%s", bar.View())
	}
}

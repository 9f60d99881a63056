package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"beadrunner/internal/runner"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC)
}

func TestModelTracksRunnerEvents(t *testing.T) {
	model := NewModel(fixedNow)

	updated, _ := model.Update(runner.Event{
		Type:        runner.EventSelectTask,
		IssueID:     "bead-1",
		Title:       "Add login",
		Description: "# Login\nform with validation",
		EmittedAt:   fixedNow().Add(-2 * time.Second),
	})
	m := updated.(Model)

	if m.taskID != "bead-1" || m.taskTitle != "Add login" {
		t.Fatalf("event not applied: %+v", m)
	}
	if m.markdown.Content() == "" {
		t.Fatal("select event should feed the markdown pane")
	}
	view := m.View()
	if !strings.Contains(view, "bead-1") {
		t.Fatalf("view missing task id:\n%s", view)
	}
	if !strings.Contains(view, "q: stop runner") {
		t.Fatalf("view missing quit hint:\n%s", view)
	}
}

func TestModelAgentEndResetsOutputAge(t *testing.T) {
	model := NewModel(fixedNow)

	updated, _ := model.Update(runner.Event{
		Type:      runner.EventAgentEnd,
		IssueID:   "bead-1",
		EmittedAt: fixedNow().Add(-time.Minute),
	})
	m := updated.(Model)

	if got := m.lastOutputAge(); got != "0s" {
		t.Fatalf("agent end should reset age, got %q", got)
	}
}

func TestModelOutputMsgRefreshesAge(t *testing.T) {
	model := NewModel(fixedNow)
	updated, _ := model.Update(OutputMsg{})
	m := updated.(Model)

	if got := m.lastOutputAge(); got != "0s" {
		t.Fatalf("output msg should reset age, got %q", got)
	}
}

func TestModelQKeyRequestsStop(t *testing.T) {
	stopCh := make(chan struct{})
	model := NewModelWithStop(fixedNow, stopCh)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m := updated.(Model)

	if !m.Stopping() {
		t.Fatal("q should set stopping")
	}
	select {
	case <-stopCh:
	default:
		t.Fatal("stop channel not closed")
	}

	// A second press must not close the channel again.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m = updated.(Model); !m.Stopping() {
		t.Fatal("ctrl-c should keep stopping set")
	}
}

func TestPhaseLabelsAreHumanReadable(t *testing.T) {
	cases := map[runner.EventType]string{
		runner.EventSelectTask:    "getting task info",
		runner.EventAgentStart:    "agent running",
		runner.EventGitCommit:     "committing changes",
		runner.EventTrackerVerify: "verifying closure",
	}
	for eventType, want := range cases {
		if got := PhaseLabel(eventType); got != want {
			t.Fatalf("PhaseLabel(%s) = %q, want %q", eventType, got, want)
		}
	}
	if got := PhaseLabel(runner.EventType("custom")); got != "custom" {
		t.Fatalf("unknown types should pass through, got %q", got)
	}
}

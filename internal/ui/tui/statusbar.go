package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"beadrunner/internal/runner"
)

// StatusBar is the single-line summary at the bottom of the TUI.
type StatusBar struct {
	taskID            string
	phase             string
	model             string
	progressCompleted int
	progressTotal     int
	lastOutputAge     string
	stopping          bool
	spinner           string
	width             int
}

func NewStatusBar() StatusBar {
	return StatusBar{width: 80}
}

func (s StatusBar) Init() tea.Cmd {
	return nil
}

// UpdateStatusBarMsg refreshes the bar from the latest runner event.
type UpdateStatusBarMsg struct {
	Event         runner.Event
	LastOutputAge string
	Spinner       string
}

// StopStatusBarMsg switches the bar into its stopping state.
type StopStatusBarMsg struct{}

func (s StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = typed.Width
	case UpdateStatusBarMsg:
		s.taskID = typed.Event.IssueID
		s.phase = PhaseLabel(typed.Event.Type)
		s.model = typed.Event.Model
		s.progressCompleted = typed.Event.ProgressCompleted
		s.progressTotal = typed.Event.ProgressTotal
		s.lastOutputAge = typed.LastOutputAge
		s.spinner = typed.Spinner
	case StopStatusBarMsg:
		s.stopping = true
	}
	return s, nil
}

func (s StatusBar) View() string {
	style := lipgloss.NewStyle().
		Width(s.width).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("#5f5fd7")).
		Padding(0, 1)

	if s.stopping {
		stopStyle := style.
			Background(lipgloss.Color("#ff0000"))
		return stopStyle.Render("Stopping...")
	}

	parts := []string{}
	if s.spinner != "" {
		parts = append(parts, s.spinner)
	}
	if s.progressTotal > 0 {
		parts = append(parts, fmt.Sprintf("[%d/%d]", s.progressCompleted, s.progressTotal))
	}
	if s.phase != "" {
		parts = append(parts, s.phase)
	}
	if s.taskID != "" {
		parts = append(parts, s.taskID)
	}
	if s.model != "" {
		parts = append(parts, fmt.Sprintf("[%s]", s.model))
	}
	if s.lastOutputAge != "" {
		parts = append(parts, fmt.Sprintf("(%s)", s.lastOutputAge))
	}
	return style.Render(strings.Join(parts, " "))
}

// PhaseLabel maps runner events to the short labels shown in the bar.
func PhaseLabel(eventType runner.EventType) string {
	switch eventType {
	case runner.EventSelectTask:
		return "getting task info"
	case runner.EventTrackerUpdate:
		return "updating task status"
	case runner.EventAgentStart:
		return "agent running"
	case runner.EventAgentEnd:
		return "agent finished"
	case runner.EventGitAdd:
		return "adding changes"
	case runner.EventGitStatus:
		return "checking status"
	case runner.EventGitCommit:
		return "committing changes"
	case runner.EventTrackerClose:
		return "closing task"
	case runner.EventTrackerVerify:
		return "verifying closure"
	case runner.EventTrackerSync:
		return "syncing tracker"
	default:
		return string(eventType)
	}
}

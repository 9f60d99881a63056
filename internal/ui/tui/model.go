// Package tui is the interactive front end of the runner, driven by
// runner events.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"beadrunner/internal/runner"
)

type Model struct {
	taskID       string
	taskTitle    string
	event        runner.Event
	lastOutputAt time.Time
	now          func() time.Time
	spinner      Spinner
	statusBar    StatusBar
	markdown     MarkdownBubble
	stopping     bool
	stopCh       chan struct{}
	stopNotified bool
	viewport     viewport.Model
	width        int
	height       int
}

// OutputMsg signals that the agent transcript grew.
type OutputMsg struct{}

type tickMsg struct{}

func NewModel(now func() time.Time) Model {
	return NewModelWithStop(now, nil)
}

func NewModelWithStop(now func() time.Time, stopCh chan struct{}) Model {
	if now == nil {
		now = time.Now
	}
	vp := viewport.New(80, 20)
	vp.SetContent("")
	return Model{
		viewport:  vp,
		width:     80,
		height:    24,
		now:       now,
		stopCh:    stopCh,
		spinner:   NewSpinner(),
		statusBar: NewStatusBar(),
		markdown:  NewMarkdownBubble(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	switch typed := msg.(type) {
	case runner.Event:
		m.taskID = typed.IssueID
		m.taskTitle = typed.Title
		m.event = typed
		m.lastOutputAt = typed.EmittedAt
		if typed.Type == runner.EventAgentEnd {
			m.lastOutputAt = m.now()
		}
		if typed.Type == runner.EventSelectTask {
			m.markdown, _ = m.markdown.Update(SetMarkdownContentMsg{Content: typed.Description})
		}
		m.statusBar, _ = m.statusBar.Update(UpdateStatusBarMsg{
			Event:         typed,
			LastOutputAge: m.lastOutputAge(),
			Spinner:       m.spinner.View(),
		})
	case OutputMsg:
		m.lastOutputAt = m.now()
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.viewport.Width = typed.Width
		m.viewport.Height = typed.Height - 2
		m.statusBar, _ = m.statusBar.Update(typed)
		m.markdown, _ = m.markdown.Update(typed)
	case tickMsg:
		m.statusBar, _ = m.statusBar.Update(UpdateStatusBarMsg{
			Event:         m.event,
			LastOutputAge: m.lastOutputAge(),
			Spinner:       m.spinner.View(),
		})
		return m, tea.Batch(cmd, tickCmd())
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC || (typed.Type == tea.KeyRunes && len(typed.Runes) == 1 && typed.Runes[0] == 'q') {
			m.stopping = true
			m.statusBar, _ = m.statusBar.Update(StopStatusBarMsg{})
			if m.stopCh != nil && !m.stopNotified {
				m.stopNotified = true
				select {
				case <-m.stopCh:
				default:
					close(m.stopCh)
				}
			}
		}
	}
	return m, cmd
}

func (m Model) View() string {
	var parts []string

	if m.taskID != "" || m.taskTitle != "" {
		header := fmt.Sprintf("%s %s - %s", m.spinner.View(), m.taskID, m.taskTitle)
		parts = append(parts, header)
	}

	if description := m.markdown.View(); description != "" {
		parts = append(parts, description)
	}

	if logs := strings.TrimSpace(m.viewport.View()); logs != "" {
		parts = append(parts, logs)
	}

	parts = append(parts, m.statusBar.View())
	hint := lipgloss.NewStyle().Faint(true).Render("q: stop runner")
	parts = append(parts, hint)

	return strings.Join(parts, "\n") + "\n"
}

func (m Model) lastOutputAge() string {
	if m.lastOutputAt.IsZero() {
		return "n/a"
	}
	age := m.now().Sub(m.lastOutputAt).Round(time.Second)
	if age < 0 {
		age = 0
	}
	return fmt.Sprintf("%ds", int(age.Seconds()))
}

func (m Model) Stopping() bool {
	return m.stopping
}

func (m Model) StopChannel() chan struct{} {
	return m.stopCh
}

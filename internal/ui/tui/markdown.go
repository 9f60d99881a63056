package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownBubble renders the selected task's description as markdown.
type MarkdownBubble struct {
	content string
	width   int
}

func NewMarkdownBubble() MarkdownBubble {
	return MarkdownBubble{width: 80}
}

func (m MarkdownBubble) Init() tea.Cmd {
	return nil
}

// SetMarkdownContentMsg replaces the rendered content.
type SetMarkdownContentMsg struct {
	Content string
}

func (m MarkdownBubble) Update(msg tea.Msg) (MarkdownBubble, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
	case SetMarkdownContentMsg:
		m.content = typed.Content
	}
	return m, nil
}

func (m MarkdownBubble) View() string {
	if strings.TrimSpace(m.content) == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.width),
	)
	if err != nil {
		return m.content
	}
	rendered, err := renderer.Render(m.content)
	if err != nil {
		return m.content
	}
	style := lipgloss.NewStyle().Width(m.width)
	return style.Render(strings.TrimRight(rendered, "\n"))
}

func (m MarkdownBubble) Content() string {
	return m.content
}

package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Spinner wraps bubbles/spinner in the teacup component shape used by
// the rest of this package.
type Spinner struct {
	model spinner.Model
}

func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Line
	return Spinner{model: s}
}

func (s Spinner) Init() tea.Cmd {
	return s.model.Tick
}

func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	model, cmd := s.model.Update(msg)
	s.model = model
	return s, cmd
}

func (s Spinner) View() string {
	return s.model.View()
}

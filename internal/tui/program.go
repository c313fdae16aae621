package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/shotset/revscan/internal/review"
	"github.com/shotset/revscan/internal/scanner"
)

// Run starts the Bubble Tea program around an activated session and
// blocks until the user quits.
func Run(l scanner.Lister, s *review.Session) error {
	model := NewModel(l, s)

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Silence logs during the TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	_, err := p.Run()
	return err
}

// Package tui is the interactive browser for comparable sets: a list
// of radixes on the left, the files resolved for the selected radix on
// the right.
package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shotset/revscan/internal/review"
	"github.com/shotset/revscan/internal/scanner"
)

// radixItem adapts a radix string to the bubbles list.
type radixItem string

func (r radixItem) Title() string       { return string(r) }
func (r radixItem) Description() string { return "" }
func (r radixItem) FilterValue() string { return string(r) }

// Model is the root Bubble Tea model.
type Model struct {
	session *review.Session
	lister  scanner.Lister

	radixList list.Model
	slots     []review.Slot

	width    int
	height   int
	quitting bool

	keys keyMap
}

// NewModel constructs a Model around an activated session.
func NewModel(l scanner.Lister, s *review.Session) Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	lst := list.New(radixItems(s.Radixes), delegate, 0, 0)
	lst.Title = "Comparable sets"
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)
	lst.Select(s.Index)

	m := Model{
		session:   s,
		lister:    l,
		radixList: lst,
		keys:      newKeyMap(),
	}
	m.slots = s.Resolve(l)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

func radixItems(radixes []string) []list.Item {
	items := make([]list.Item, 0, len(radixes))
	for _, r := range radixes {
		items = append(items, radixItem(r))
	}
	return items
}

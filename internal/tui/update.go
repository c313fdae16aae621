package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - listOverheadLines
		if listHeight < listMinHeight {
			listHeight = listMinHeight
		}
		m.radixList.SetSize(listWidth, listHeight)
		return m, nil

	case tea.KeyMsg:
		// While the list filter is active, keys belong to the filter.
		if m.radixList.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.slots = m.session.Navigate(m.lister, 1)
			m.radixList.Select(m.session.Index)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.slots = m.session.Navigate(m.lister, -1)
			m.radixList.Select(m.session.Index)
			return m, nil
		case key.Matches(msg, m.keys.Rescan):
			m.slots = m.session.Refresh(m.lister)
			m.radixList.SetItems(radixItems(m.session.Radixes))
			m.radixList.Select(m.session.Index)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.radixList, cmd = m.radixList.Update(msg)

	// Cursor movement inside the list re-targets the session.
	if idx := m.radixList.Index(); idx != m.session.Index && idx >= 0 && idx < len(m.session.Radixes) {
		m.session.Index = idx
		m.slots = m.session.Resolve(m.lister)
	}
	return m, cmd
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder
	b.WriteString(renderHeader(m))
	b.WriteString("\n")

	left := m.radixList.View()
	right := renderSlots(m)

	detailWidth := m.width - listWidth - detailGap
	if detailWidth < 1 {
		detailWidth = 1
	}
	rightStyled := lipgloss.NewStyle().MarginLeft(detailGap).Width(detailWidth).Render(right)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, rightStyled))
	b.WriteString("\n")
	b.WriteString(renderFooter())
	return b.String()
}

func renderHeader(m Model) string {
	title := lipgloss.NewStyle().Bold(true).Render(m.session.Dir)
	if m.session.Message == "" {
		return title + "\n"
	}
	msg := lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render(m.session.Message)
	return title + "\n" + msg
}

// renderSlots shows the files resolved for the selected radix, one line
// per pattern. Absent cells render as a placeholder so the column count
// stays stable while paging through sets.
func renderSlots(m Model) string {
	var b strings.Builder
	radix := m.session.CurrentRadix()
	if radix == "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("No comparable sets in this directory."))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true).Render(radix))
	b.WriteString("\n\n")

	resolved := make(map[int]string, len(m.slots))
	for _, slot := range m.slots {
		resolved[slot.Cell] = slot.Path
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	for i, cell := range m.session.Extraction.Cells {
		if path, ok := resolved[i]; ok {
			b.WriteString(fmt.Sprintf("%-16s %s", cell.Label, path))
		} else {
			b.WriteString(dim.Render(fmt.Sprintf("%-16s (missing)", cell.Label)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderFooter() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("q: quit • n/p: next/prev set • r: rescan • /: filter • ↑/↓ or j/k: move")
}

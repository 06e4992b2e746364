package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderListPanel renders the left panel with the entry list.
func (m MainModel) renderListPanel(width, height int) string {
	body := m.listView.Render()
	if len(m.listView.Items()) == 0 {
		body = lipgloss.NewStyle().
			Foreground(m.styles.TextSecondary).
			Faint(true).
			Render(m.emptyMessage())
	}

	listPanel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.BorderColor).
		Width(width - 2).
		Height(height).
		Render(body)

	delegate := m.listView.Delegate()
	headerText := fmt.Sprintf("S │ %*s │ %s │ Rate │ Message",
		delegate.NumberWidth, "#", TruncateAndPad("Name", nameWidth, false))
	headerRow := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Width(width-2).
		Padding(0, 1).
		Render(Truncate(headerText, width-4, true))

	return lipgloss.JoinVertical(lipgloss.Left, headerRow, listPanel)
}

func (m MainModel) emptyMessage() string {
	if m.searchQuery != "" {
		return fmt.Sprintf("No %s match %q", m.tab, m.searchQuery)
	}
	return fmt.Sprintf("No %s in the last %d days", m.tab, m.periodDays())
}

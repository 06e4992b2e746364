package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/sanitize"
)

// maxDetailBuilds caps the build history shown in the detail panel.
const maxDetailBuilds = 20

// renderDetail renders the summary and recent history of one entry.
func (m MainModel) renderDetail(d dashboard.Details, maxWidth int) string {
	var content strings.Builder

	label := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Bold(true)
	health := lipgloss.NewStyle().Foreground(m.styles.HealthColor(d.Health)).Bold(true)

	s := d.Summary
	fmt.Fprintf(&content, "%s %s   %s %d%%\n",
		label.Render("Health:"), health.Render(string(d.Health)),
		label.Render("Success rate:"), s.SuccessRate)
	fmt.Fprintf(&content, "%s %d total · %d success · %d failure · %d running · %d pending · %d other\n",
		label.Render("Builds:"), s.Total, s.Success, s.Failure, s.Running, s.Pending, s.Other)
	if s.Finished > 0 {
		fmt.Fprintf(&content, "%s p50 %s · p90 %s · p99 %s · avg %s\n",
			label.Render("Duration:"),
			FormatDuration(s.P50), FormatDuration(s.P90), FormatDuration(s.P99),
			FormatDuration(int64(s.AvgDuration)))
	}
	fmt.Fprintln(&content)
	fmt.Fprintln(&content, label.Render("Recent builds:"))

	shown := 0
	for i := len(d.Builds) - 1; i >= 0 && shown < maxDetailBuilds; i-- {
		row := d.Builds[i]
		shown++

		duration := "-"
		if secs, ok := row.Duration(); ok {
			duration = FormatDuration(secs)
		}
		if row.Long {
			duration += " (long)"
		}

		status := lipgloss.NewStyle().Foreground(m.styles.StatusColor(row.Status)).
			Render(fmt.Sprintf("%s %-8s", StatusIcon(row.Status), row.Status))
		line := fmt.Sprintf("#%d %s %s", row.Number, duration, row.AuthorLogin)
		if subject := sanitize.Subject(row.Message); subject != "" {
			line += " · " + subject
		}
		fmt.Fprintln(&content, status+" "+Wrap(line, max(10, maxWidth-11)))
	}

	return content.String()
}

// updateDetailContent refreshes the viewport for the selected item.
func (m *MainModel) updateDetailContent() {
	item, ok := m.listView.SelectedItem()
	if !ok || m.snap == nil {
		m.detailViewport.SetContent("")
		return
	}
	d := m.svc.Details(m.snap, item.StatsKey)
	m.detailViewport.SetContent(m.renderDetail(d, m.detailViewport.Width-2))
	m.detailViewport.GotoTop()
}

// renderDetailPanel renders the right panel with the detail viewport.
func (m MainModel) renderDetailPanel(width, height int) string {
	borderColor := m.styles.BorderColor
	if m.detailFocused {
		borderColor = m.styles.AccentBlue
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width - 2).
		Height(height)

	item, ok := m.listView.SelectedItem()
	if !ok {
		placeholder := lipgloss.NewStyle().Padding(0, 1).Render(" ")
		empty := box.Align(lipgloss.Center, lipgloss.Center).
			Foreground(m.styles.TextSecondary).
			Faint(true).
			Render("Navigate the list to view details")
		return lipgloss.JoinVertical(lipgloss.Left, placeholder, empty)
	}

	headerRow := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Padding(0, 1).
		Render(Truncate(fmt.Sprintf("%s · %s", item.Name(), item.StatsKey), width-2, true))

	return lipgloss.JoinVertical(lipgloss.Left, headerRow, box.Render(m.detailViewport.View()))
}

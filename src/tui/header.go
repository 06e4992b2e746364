package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/stats"
)

// Header is the top status bar: repository, active tab, sort mode, search
// and the repository health.
type Header struct {
	title       string
	tab         string
	sort        grouping.Mode
	searchQuery string
	searchMode  bool
	health      stats.Health
	successRate int
	styles      *StyleConfig
}

// NewHeader creates a header with the given styles.
func NewHeader(title string, styles *StyleConfig) Header {
	return Header{
		title:  title,
		sort:   grouping.ModeStatus,
		health: stats.HealthUnknown,
		styles: styles,
	}
}

// SetTab sets the active tab name.
func (h *Header) SetTab(tab string) {
	h.tab = tab
}

// SetSort sets the displayed sort mode.
func (h *Header) SetSort(mode grouping.Mode) {
	h.sort = mode
}

// SetSearch updates the search state
func (h *Header) SetSearch(query string, mode bool) {
	h.searchQuery = query
	h.searchMode = mode
}

// SetHealth sets the repository rollup.
func (h *Header) SetHealth(health stats.Health, successRate int) {
	h.health = health
	h.successRate = successRate
}

// Render renders the header
func (h Header) Render(width int) string {
	section := lipgloss.NewStyle().
		Foreground(h.styles.PrimaryBlue).
		Bold(true).
		Padding(0, 2)

	title := section.Render(h.title)
	tab := section.Render(fmt.Sprintf("Tab: %s", h.tab))
	sortMode := section.Render(fmt.Sprintf("Sort: %s", h.sort))

	health := lipgloss.NewStyle().
		Foreground(h.styles.HealthColor(h.health)).
		Bold(true).
		Padding(0, 2).
		Render(fmt.Sprintf("%s %d%%", h.health, h.successRate))

	var searchText string
	switch {
	case h.searchMode:
		searchText = fmt.Sprintf("Search: %s█", h.searchQuery)
	case h.searchQuery != "":
		searchText = fmt.Sprintf("Search: %s", h.searchQuery)
	default:
		searchText = "[/] to search"
	}
	searchStyle := lipgloss.NewStyle().
		Foreground(h.styles.TextSecondary).
		Padding(0, 2)
	if h.searchMode {
		searchStyle = searchStyle.Foreground(h.styles.PrimaryBlue)
	}

	left := lipgloss.JoinHorizontal(lipgloss.Left, title, health, tab, sortMode, searchStyle.Render(searchText))

	headerStyle := lipgloss.NewStyle().
		Background(h.styles.DarkBackground).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(h.styles.BorderColor).
		MaxWidth(width).
		Width(width)

	return headerStyle.Render(left)
}

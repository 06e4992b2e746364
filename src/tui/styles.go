package tui

import (
	"github.com/charmbracelet/lipgloss"

	"moirai-dashboard/src/build"
	"moirai-dashboard/src/stats"
)

// StyleConfig holds all customizable style colors for the dashboard UI.
type StyleConfig struct {
	PrimaryBlue    lipgloss.Color
	AccentBlue     lipgloss.Color
	DarkBackground lipgloss.Color
	CardBackground lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	BorderColor    lipgloss.Color
	SelectedColor  lipgloss.Color

	Success lipgloss.Color
	Failure lipgloss.Color
	Running lipgloss.Color
	Pending lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:    lipgloss.Color("#8AB4F8"),
		AccentBlue:     lipgloss.Color("#4285F4"),
		DarkBackground: lipgloss.Color("#1E1E1E"),
		CardBackground: lipgloss.Color("#2D2D2D"),
		TextPrimary:    lipgloss.Color("#E8EAED"),
		TextSecondary:  lipgloss.Color("#9AA0A6"),
		BorderColor:    lipgloss.Color("#5F6368"),
		SelectedColor:  lipgloss.Color("#303134"),
		Success:        lipgloss.Color("#34A853"),
		Failure:        lipgloss.Color("#EA4335"),
		Running:        lipgloss.Color("#FBBC04"),
		Pending:        lipgloss.Color("#9AA0A6"),
	}
}

// StatusColor maps a build status onto the palette.
func (s *StyleConfig) StatusColor(status string) lipgloss.Color {
	switch status {
	case build.StatusSuccess:
		return s.Success
	case build.StatusFailure, build.StatusError, build.StatusKilled:
		return s.Failure
	case build.StatusRunning:
		return s.Running
	default:
		return s.Pending
	}
}

// HealthColor maps a health rollup onto the palette.
func (s *StyleConfig) HealthColor(h stats.Health) lipgloss.Color {
	switch h {
	case stats.HealthGood:
		return s.Success
	case stats.HealthWarning:
		return s.Running
	case stats.HealthCritical:
		return s.Failure
	default:
		return s.TextSecondary
	}
}

// statusIcons are single-cell glyphs for the list.
var statusIcons = map[string]string{
	build.StatusSuccess: "✓",
	build.StatusFailure: "✗",
	build.StatusError:   "✗",
	build.StatusKilled:  "✗",
	build.StatusRunning: "●",
	build.StatusPending: "○",
	build.StatusSkipped: "-",
}

// StatusIcon returns the glyph for a status, "?" when unknown.
func StatusIcon(status string) string {
	if icon, ok := statusIcons[status]; ok {
		return icon
	}
	return "?"
}

// TitleStyle returns a title lipgloss style using this config
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns a help text lipgloss style using this config
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

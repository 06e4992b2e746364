package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// moiraiLogo is shown while the first snapshot loads.
var moiraiLogo = []string{
	"███╗   ███╗ ██████╗ ██╗██████╗  █████╗ ██╗",
	"████╗ ████║██╔═══██╗██║██╔══██╗██╔══██╗██║",
	"██╔████╔██║██║   ██║██║██████╔╝███████║██║",
	"██║╚██╔╝██║██║   ██║██║██╔══██╗██╔══██║██║",
	"██║ ╚═╝ ██║╚██████╔╝██║██║  ██║██║  ██║██║",
}

var logoGradientColors = []string{
	"#5DADE2",
	"#3498DB",
	"#2E86C1",
	"#2874A6",
	"#21618C",
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ProgressMsg updates the loading stage.
type ProgressMsg struct {
	Stage string
}

// SpinnerTickMsg advances the spinner.
type SpinnerTickMsg time.Time

// ProgressModel is the loading screen.
type ProgressModel struct {
	stage        string
	done         bool
	spinnerFrame int
}

func NewProgressModel() ProgressModel {
	return ProgressModel{}
}

// SpinnerTick returns a command that sends SpinnerTickMsg after a delay
func SpinnerTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Start resets the model for a new load.
func (m ProgressModel) Start(stage string) ProgressModel {
	m.stage = stage
	m.done = false
	return m
}

// Done stops the spinner.
func (m ProgressModel) Done() ProgressModel {
	m.done = true
	return m
}

func (m ProgressModel) Update(msg tea.Msg) (ProgressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.stage = msg.Stage
	case SpinnerTickMsg:
		if m.done {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, SpinnerTick()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	logoLines := make([]string, len(moiraiLogo))
	for i, line := range moiraiLogo {
		logoLines[i] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(logoGradientColors[i%len(logoGradientColors)])).
			Bold(true).
			Render(line)
	}
	logo := strings.Join(logoLines, "\n")

	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Render(spinnerFrames[m.spinnerFrame])
	stage := m.stage
	if stage == "" {
		stage = "Loading"
	}
	return lipgloss.JoinVertical(lipgloss.Center, logo, "", fmt.Sprintf("%s %s...", spinner, stage))
}

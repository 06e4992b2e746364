package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moirai-dashboard/src/sanitize"
)

const (
	// listRenderingOverhead accounts for the panel border and list padding.
	listRenderingOverhead = 4

	nameWidth = 24
	rateWidth = 4
)

// Delegate renders dashboard items as table rows.
type Delegate struct {
	NumberWidth int
	styles      *StyleConfig
}

// NewDelegate creates a delegate with the given styles.
func NewDelegate(styles *StyleConfig) Delegate {
	return Delegate{NumberWidth: 2, styles: styles}
}

// SetNumberWidth sizes the build number column for the largest number.
func (d *Delegate) SetNumberWidth(maxNumber int64) {
	d.NumberWidth = max(2, len(strconv.FormatInt(maxNumber, 10))+1)
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Row formats an item without styling for the given list width.
func (d Delegate) Row(entry Item, width int) string {
	number := fmt.Sprintf("%*s", d.NumberWidth, fmt.Sprintf("#%d", entry.Number))
	name := TruncateAndPad(entry.Name(), nameWidth, true)
	rate := fmt.Sprintf("%3d%%", entry.Summary.SuccessRate)

	// icon + number + name + rate + separators
	fixed := 1 + d.NumberWidth + nameWidth + rateWidth + 12
	available := width - fixed - listRenderingOverhead

	var subject string
	if available > 0 {
		subject = TruncateAndPad(sanitize.Subject(entry.Message), available, true)
	}

	return fmt.Sprintf("%s │ %s │ %s │ %s │ %s",
		StatusIcon(entry.Status), number, name, rate, subject)
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if index == m.Index() {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}
	icon := lipgloss.NewStyle().Foreground(d.styles.StatusColor(entry.Status))

	row := d.Row(entry, m.Width())
	// The icon is one cell; color it separately from the rest of the row.
	iconText := StatusIcon(entry.Status)
	fmt.Fprint(w, icon.Render(iconText)+style.Render(row[len(iconText):]))
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/provider"
	"moirai-dashboard/src/ranking"
	"moirai-dashboard/src/sanitize"
	"moirai-dashboard/src/stats"
	"moirai-dashboard/src/tui"
)

const subjectWidth = 60

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderServers(servers []provider.Server) string {
	t := newTable("ID", "Name", "Type", "URL")
	for _, s := range servers {
		t.Row(s.ID, s.Name, string(s.Type), s.URL)
	}
	return t.String() + "\n"
}

func renderEntries(entries []grouping.Entry, snap *dashboard.Snapshot) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No builds in the last %d days.\n", snap.PeriodDays)
	}
	t := newTable("", "Name", "#", "Status", "Author", "Duration", "Message")
	for _, e := range entries {
		duration := "-"
		if secs, ok := e.Duration(); ok {
			duration = tui.FormatDuration(secs)
		}
		t.Row(
			tui.StatusIcon(e.Status),
			e.Name(),
			strconv.FormatInt(e.Number, 10),
			e.Status,
			e.AuthorLogin,
			duration,
			tui.Truncate(sanitize.Subject(e.Message), subjectWidth, true),
		)
	}
	return t.String() + "\n"
}

func renderSummary(b *strings.Builder, s stats.Summary) {
	fmt.Fprintf(b, "Builds:        %d (%d success, %d failure, %d running, %d pending, %d other)\n",
		s.Total, s.Success, s.Failure, s.Running, s.Pending, s.Other)
	fmt.Fprintf(b, "Success rate:  %d%%\n", s.SuccessRate)
	if s.Finished > 0 {
		fmt.Fprintf(b, "Durations:     p50 %s, p90 %s, p99 %s, avg %s\n",
			tui.FormatDuration(s.P50), tui.FormatDuration(s.P90), tui.FormatDuration(s.P99),
			tui.FormatDuration(int64(s.AvgDuration)))
	}
}

func renderOverview(ov stats.Overview, periodDays int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Last %d days\n", periodDays)
	fmt.Fprintf(&b, "Health:        %s\n", ov.Health)
	renderSummary(&b, ov.Summary)

	peak, peakCount := 0, 0
	for h, n := range ov.Hourly {
		if n > peakCount {
			peak, peakCount = h, n
		}
	}
	if peakCount > 0 {
		fmt.Fprintf(&b, "Busiest hour:  %02d:00 (%d builds)\n", peak, peakCount)
	}

	if len(ov.Daily) > 0 {
		t := newTable("Day", "Builds", "Success", "Failure", "Rate")
		for _, d := range ov.Daily {
			t.Row(d.Date, strconv.Itoa(d.Total), strconv.Itoa(d.Success), strconv.Itoa(d.Failure), fmt.Sprintf("%d%%", d.SuccessRate))
		}
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	if n := len(ov.LongBuilds); n > 0 {
		fmt.Fprintf(&b, "Long builds (over p90): %d\n", n)
	}
	return b.String()
}

func renderInfra(infra dashboard.Infra) string {
	var b strings.Builder
	r := infra.Cost
	fmt.Fprintf(&b, "CPU time:      %.1f h over %d days\n", r.TotalCPUHours, infra.PeriodDays)
	fmt.Fprintf(&b, "Cost:          $%.2f at $%.2f/h\n", r.EstimatedCost, r.CPUCostPerHour)
	fmt.Fprintf(&b, "Monthly:       $%.2f projected\n", infra.MonthlyEstimate)

	if len(r.PerBranch) > 0 {
		t := newTable("Branch", "Builds", "CPU time", "Avg", "Cost")
		for _, c := range r.PerBranch {
			t.Row(c.Branch, strconv.Itoa(c.Builds), tui.FormatDuration(c.TotalSeconds),
				tui.FormatDuration(int64(c.AvgDuration)), fmt.Sprintf("$%.2f", c.Cost))
		}
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}

func renderContributors(board ranking.Leaderboard) string {
	if len(board.Contributors) == 0 {
		return "No contributors.\n"
	}
	t := newTable("Rank", "Login", "Builds", "Success", "Failed", "Rate", "Streak", "PRs")
	for _, c := range board.Contributors {
		rank := strconv.Itoa(c.Rank)
		if c.Medal != "" {
			rank = c.Medal + " " + rank
		}
		t.Row(rank, c.Login, strconv.Itoa(c.TotalBuilds), strconv.Itoa(c.SuccessBuilds),
			strconv.Itoa(c.FailedBuilds), fmt.Sprintf("%d%%", c.SuccessRate),
			strconv.Itoa(c.CurrentStreak), strconv.Itoa(c.PRCount))
	}
	return t.String() + "\n"
}

func renderDetails(d dashboard.Details) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.StatsKey)
	if d.Summary.Total == 0 {
		b.WriteString("No builds.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Health:        %s\n", d.Health)
	renderSummary(&b, d.Summary)

	t := newTable("#", "Status", "Event", "Author", "Duration", "Message")
	for i := len(d.Builds) - 1; i >= 0; i-- {
		row := d.Builds[i]
		duration := "-"
		if secs, ok := row.Duration(); ok {
			duration = tui.FormatDuration(secs)
			if row.Long {
				duration += " (long)"
			}
		}
		t.Row(strconv.FormatInt(row.Number, 10), row.Status, row.Event, row.AuthorLogin, duration,
			tui.Truncate(sanitize.Subject(row.Message), subjectWidth, true))
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

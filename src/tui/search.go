package tui

import (
	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/stats"
)

// applyFilter rebuilds the list from the snapshot for the active tab,
// search query and sort mode.
func (m *MainModel) applyFilter() {
	if m.snap == nil {
		return
	}

	opts := dashboard.ListOptions{Query: m.searchQuery, Sort: m.sortMode}
	var entries []grouping.Entry
	if m.tab == dashboard.TabCrons {
		entries = m.svc.Crons(m.snap, opts)
	} else {
		entries = m.svc.Branches(m.snap, opts)
	}

	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{
			Entry:   e,
			Summary: stats.Calculate(grouping.Select(m.snap.Builds, e.StatsKey)),
		}
	}

	m.listView.SetItems(items)
	m.updateDetailContent()
}

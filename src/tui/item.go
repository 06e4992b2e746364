package tui

import (
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/stats"
)

// Item is one branch, PR or cron row. It implements bubbles/list.Item.
type Item struct {
	grouping.Entry
	Summary stats.Summary
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Name() }

// Title returns the primary text for the item.
func (i Item) Title() string { return i.Name() }

// Description returns the secondary text for the item.
func (i Item) Description() string { return i.AuthorLogin }

package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// View is the left-hand list of grouped entries. The cursor follows the
// selected entry's stats key across re-sorts, searches and refreshes.
type View struct {
	list     list.Model
	items    []Item
	delegate *Delegate
}

// NewView creates an empty list view.
func NewView(styles *StyleConfig) View {
	delegate := NewDelegate(styles)
	l := list.New(nil, &delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return View{list: l, delegate: &delegate}
}

func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) SetSize(width, height int) {
	v.list.SetSize(width, height)
}

// SetItems replaces the entries. The previously selected stats key stays
// selected when it is still listed; otherwise the cursor moves to the top.
func (v *View) SetItems(items []Item) {
	var keep string
	if cur, ok := v.SelectedItem(); ok {
		keep = cur.StatsKey
	}

	v.items = items
	var widest int64
	listItems := make([]list.Item, len(items))
	cursor := 0
	for i, item := range items {
		widest = max(widest, item.Number)
		listItems[i] = item
		if keep != "" && item.StatsKey == keep {
			cursor = i
		}
	}
	v.delegate.SetNumberWidth(widest)

	v.list.SetItems(listItems)
	v.list.Select(cursor)
}

func (v View) Items() []Item {
	return v.items
}

// SelectedItem returns the entry under the cursor, if any.
func (v View) SelectedItem() (Item, bool) {
	if len(v.items) == 0 {
		return Item{}, false
	}
	item, ok := v.list.SelectedItem().(Item)
	return item, ok
}

func (v View) Render() string {
	return v.list.View()
}

func (v View) Delegate() *Delegate {
	return v.delegate
}

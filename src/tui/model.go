// Package tui is the terminal dashboard: the latest build per branch, PR
// or cron on the left and the selected entry's history on the right.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/stats"
)

// Status is the state of the snapshot load.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// LoadFunc fetches a fresh snapshot.
type LoadFunc func(ctx context.Context) (*dashboard.Snapshot, error)

type snapshotMsg struct {
	snap *dashboard.Snapshot
	err  error
}

// MainModel is the Bubble Tea model for the dashboard.
type MainModel struct {
	svc    *dashboard.Service
	load   LoadFunc
	snap   *dashboard.Snapshot
	err    error
	status Status

	tab           string
	sortMode      grouping.Mode
	searchMode    bool
	searchQuery   string
	detailFocused bool

	header         Header
	listView       View
	detailViewport viewport.Model
	progress       ProgressModel
	styles         *StyleConfig

	width  int
	height int
	ready  bool
}

// NewMainModel creates the dashboard model. title is shown in the header.
func NewMainModel(svc *dashboard.Service, title string, load LoadFunc) MainModel {
	styles := DefaultStyles()
	header := NewHeader(title, styles)
	header.SetTab(dashboard.TabBranches)

	return MainModel{
		svc:            svc,
		load:           load,
		status:         StatusLoading,
		tab:            dashboard.TabBranches,
		sortMode:       grouping.ModeStatus,
		header:         header,
		listView:       NewView(styles),
		detailViewport: viewport.New(0, 0),
		progress:       NewProgressModel().Start("Fetching builds"),
		styles:         styles,
	}
}

// Run starts the program in the alternate screen.
func Run(m MainModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), SpinnerTick())
}

func (m MainModel) fetch() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		snap, err := load(context.Background())
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeComponents()
		return m, nil

	case snapshotMsg:
		m.progress = m.progress.Done()
		if msg.err != nil {
			m.status = StatusFailed
			m.err = msg.err
			return m, nil
		}
		m.status = StatusReady
		m.err = nil
		m.snap = msg.snap
		summary := stats.Calculate(m.snap.Builds)
		m.header.SetHealth(stats.Classify(summary), summary.SuccessRate)
		m.applyFilter()
		return m, nil

	case SpinnerTickMsg, ProgressMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m MainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.searchMode {
		m.handleSearchKey(msg)
		return m, nil
	}

	if m.detailFocused {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			m.detailFocused = false
			return m, nil
		}
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searchMode = true
		m.header.SetSearch(m.searchQuery, true)
		return m, nil
	case "esc":
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.header.SetSearch("", false)
			m.applyFilter()
		}
		return m, nil
	case "s":
		m.cycleSort()
		return m, nil
	case "tab":
		m.switchTab()
		return m, nil
	case "enter":
		if _, ok := m.listView.SelectedItem(); ok {
			m.detailFocused = true
		}
		return m, nil
	case "r":
		if m.status == StatusLoading {
			return m, nil
		}
		m.status = StatusLoading
		m.progress = m.progress.Start("Refreshing builds")
		return m, tea.Batch(m.fetch(), SpinnerTick())
	}

	before := m.listView.list.Index()
	var cmd tea.Cmd
	m.listView, cmd = m.listView.Update(msg)
	if m.listView.list.Index() != before {
		m.updateDetailContent()
	}
	return m, cmd
}

// handleSearchKey edits the query; the list is refiltered on every key.
func (m *MainModel) handleSearchKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchMode = false
		m.searchQuery = ""
	case tea.KeyEnter:
		m.searchMode = false
	case tea.KeyBackspace:
		if r := []rune(m.searchQuery); len(r) > 0 {
			m.searchQuery = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.searchQuery += " "
	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
	default:
		return
	}
	m.header.SetSearch(m.searchQuery, m.searchMode)
	m.applyFilter()
}

func (m *MainModel) cycleSort() {
	next := grouping.Modes[0]
	for i, mode := range grouping.Modes {
		if mode == m.sortMode {
			next = grouping.Modes[(i+1)%len(grouping.Modes)]
			break
		}
	}
	m.sortMode = next
	m.header.SetSort(next)
	m.applyFilter()
}

func (m *MainModel) switchTab() {
	if m.tab == dashboard.TabBranches {
		m.tab = dashboard.TabCrons
	} else {
		m.tab = dashboard.TabBranches
	}
	m.header.SetTab(m.tab)
	m.applyFilter()
}

func (m MainModel) periodDays() int {
	if m.snap != nil {
		return m.snap.PeriodDays
	}
	return m.svc.Settings().StatsPeriodDays
}

func (m MainModel) errorView() string {
	return fmt.Sprintf("\n  Failed to load builds: %v\n\n  Press r to retry, q to quit.\n", m.err)
}

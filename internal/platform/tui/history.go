package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mathrush/internal/history"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Clear      key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.Clear, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.Clear, k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// historyFilters is "all modes" followed by each mode.
var historyFilters = append([]quiz.Mode{""}, quiz.Modes...)

func filterTitle(mode quiz.Mode) string {
	if mode == "" {
		return "All"
	}
	return mode.Title()
}

// HistoryModel is the Bubble Tea model for the recent-runs table.
type HistoryModel struct {
	store     *history.Store
	entries   []history.Summary
	filter    int
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	theme     Theme
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a new history model. store may be nil.
func NewHistoryModel(store *history.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   h,
		theme:  DefaultTheme(),
		width:  width,
		height: height,
	}

	m.table = m.createTable()
	m.loadEntries()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Mode", Width: 12},
		{Title: "Level", Width: 7},
		{Title: "Score", Width: 7},
		{Title: "Acc", Width: 5},
		{Title: "Combo", Width: 6},
		{Title: "Stars", Width: 6},
		{Title: "Time", Width: 7},
		{Title: "Date", Width: 13},
	}

	height := m.height - 10 // Leave room for header, tabs and help
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadEntries reloads the list and applies the current filter.
func (m *HistoryModel) loadEntries() {
	m.entries = nil
	if m.store != nil {
		mode := historyFilters[m.filter]
		for _, s := range m.store.Load(context.Background()) {
			if mode == "" || s.Mode == mode {
				m.entries = append(m.entries, s)
			}
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current entries.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, s := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			s.Mode.Title(),
			string(s.Difficulty),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%.0f%%", s.Accuracy),
			fmt.Sprintf("x%d", s.MaxCombo),
			fmt.Sprintf("%d", s.SpeedStars),
			fmt.Sprintf("%.0fs", s.TimeTaken().Seconds()),
			s.CompletedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(historyFilters)
			m.loadEntries()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter--
			if m.filter < 0 {
				m.filter = len(historyFilters) - 1
			}
			m.loadEntries()
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			if m.store != nil {
				//nolint:errcheck // Best-effort clear, the reload shows what persisted
				m.store.Clear(context.Background())
			}
			m.loadEntries()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("RECENT RUNS - %s", filterTitle(historyFilters[m.filter]))
	b.WriteString("\n")
	b.WriteString(m.center(m.theme.Title.Render(title)))
	b.WriteString("\n\n")
	b.WriteString(m.center(m.renderTabs()))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(m.center(tableStyle.Render(m.renderTableContent())))
	b.WriteString("\n")

	b.WriteString(m.theme.Controls.Render(m.help.View(m.keys)))
	return b.String()
}

func (m HistoryModel) renderTabs() string {
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(historyFilters))
	for i, mode := range historyFilters {
		if i == m.filter {
			tabs[i] = activeTabStyle.Render(filterTitle(mode))
		} else {
			tabs[i] = m.theme.Muted.Render(" " + filterTitle(mode) + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nFinish a run to see it here!")
	}
	return m.table.View()
}

func (m HistoryModel) center(s string) string {
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

// IsGoingBack returns true if user wants to go back.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/game"
	"github.com/vovakirdan/mathrush/internal/history"
)

type screen int

const (
	screenMenu screen = iota
	screenPlay
	screenHistory
)

// SessionModel manages the full flow: menu -> play -> results -> menu,
// with the history table reachable from the menu and the results screen.
// It is the top-level model for both local and SSH sessions.
type SessionModel struct {
	engine   *game.Engine
	cfg      config.GameConfig
	history  *history.Store
	width    int
	height   int
	screen   screen
	returnTo screen
	menu     MenuModel
	play     *PlayModel
	hist     HistoryModel
	quitting bool
}

// NewSessionModel creates a session that opens on the menu.
func NewSessionModel(engine *game.Engine, cfg config.GameConfig, store *history.Store, width, height int) SessionModel {
	return SessionModel{
		engine:  engine,
		cfg:     cfg,
		history: store,
		width:   width,
		height:  height,
		screen:  screenMenu,
		menu:    NewMenuModel(cfg, store, width, height),
	}
}

// StartingWith returns a copy of the session that skips the menu and
// starts a run right away.
func (m SessionModel) StartingWith(sel MenuSelection) SessionModel {
	m.startPlay(sel)
	return m
}

func (m *SessionModel) startPlay(sel MenuSelection) {
	play := NewPlayModel(m.engine, m.cfg, sel.Mode, sel.Difficulty, m.width, m.height)
	m.play = &play
	m.screen = screenPlay
}

func (m *SessionModel) openMenu() tea.Cmd {
	m.menu = NewMenuModel(m.cfg, m.history, m.width, m.height)
	m.play = nil
	m.screen = screenMenu
	return m.menu.Init()
}

func (m *SessionModel) openHistory(from screen) tea.Cmd {
	m.hist = NewHistoryModel(m.history, m.width, m.height)
	m.returnTo = from
	m.screen = screenHistory
	return m.hist.Init()
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenPlay && m.play != nil {
		return m.play.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		return m, m.openHistory(screenMenu)
	}

	if selected := m.menu.Selected(); selected != nil {
		m.startPlay(*selected)
		return m, m.play.Init()
	}

	return m, cmd
}

// updatePlay handles updates when in play mode.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.play == nil {
		return m, m.openMenu()
	}

	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = &playModel
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		return m, m.openMenu()
	}

	if m.play.WantsHistory() {
		m.play.wantsHistory = false
		return m, m.openHistory(screenPlay)
	}

	return m, cmd
}

// updateHistory handles updates when the history table is open.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newHist, cmd := m.hist.Update(msg)
	if histModel, ok := newHist.(HistoryModel); ok {
		m.hist = histModel
	}

	if m.hist.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.hist.IsGoingBack() {
		if m.returnTo == screenPlay && m.play != nil {
			m.screen = screenPlay
			return m, nil
		}
		return m, m.openMenu()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPlay:
		if m.play != nil {
			return m.play.View()
		}
	case screenHistory:
		return m.hist.View()
	}
	return m.menu.View()
}

// Run starts a local Bubble Tea program. A non-nil start skips the menu.
func Run(engine *game.Engine, cfg config.GameConfig, store *history.Store, start *MenuSelection, width, height int) error {
	model := NewSessionModel(engine, cfg, store, width, height)
	if start != nil {
		model = model.StartingWith(*start)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}

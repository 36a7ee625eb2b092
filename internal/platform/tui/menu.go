package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/history"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

// recentOnMenu is how many history entries the start screen lists.
const recentOnMenu = 5

// MenuSelection holds the user's choice from the start screen.
type MenuSelection struct {
	Mode       quiz.Mode
	Difficulty quiz.Difficulty
}

// MenuModel is the start screen: pick a mode, then a difficulty.
type MenuModel struct {
	cfg          config.GameConfig
	history      *history.Store
	recent       []history.Summary
	theme        Theme
	keyMapper    *KeyMapper
	cursor       int
	diffCursor   int
	inDifficulty bool
	width        int
	height       int
	notice       string
	selection    *MenuSelection
	wantsHistory bool
	quitting     bool
}

// NewMenuModel creates a new menu model. store may be nil.
func NewMenuModel(cfg config.GameConfig, store *history.Store, width, height int) MenuModel {
	m := MenuModel{
		cfg:       cfg,
		history:   store,
		theme:     DefaultTheme(),
		keyMapper: NewKeyMapper(),
		width:     width,
		height:    height,
	}
	m.loadRecent()
	return m
}

func (m *MenuModel) loadRecent() {
	if m.history == nil {
		m.recent = nil
		return
	}
	m.recent = m.history.Recent(context.Background(), recentOnMenu)
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	m.notice = ""

	if m.inDifficulty {
		return m.handleDifficultyKey(action)
	}
	return m.handleModeKey(action)
}

func (m MenuModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(quiz.Modes)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		m.inDifficulty = true

	case MenuActionHistory:
		m.wantsHistory = true

	case MenuActionClear:
		if m.history == nil {
			break
		}
		if err := m.history.Clear(context.Background()); err != nil {
			m.notice = "Could not clear history"
			break
		}
		m.loadRecent()
		m.notice = "History cleared"
	}

	return m, nil
}

func (m MenuModel) handleDifficultyKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.diffCursor > 0 {
			m.diffCursor--
		}

	case MenuActionDown:
		if m.diffCursor < len(quiz.Difficulties)-1 {
			m.diffCursor++
		}

	case MenuActionSelect:
		m.selection = &MenuSelection{
			Mode:       quiz.Modes[m.cursor],
			Difficulty: quiz.Difficulties[m.diffCursor],
		}

	case MenuActionBack:
		m.inDifficulty = false
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.center(m.theme.Title.Render("M A T H R U S H")))
	b.WriteString("\n\n")

	if m.inDifficulty {
		m.renderDifficulties(&b)
	} else {
		m.renderModes(&b)
	}

	b.WriteString("\n")
	b.WriteString(m.renderRecent())

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.center(m.theme.Star.Render(m.notice)))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: History  |  C: Clear history  |  Q: Quit"
	if m.inDifficulty {
		controls = "Up/Down: Navigate  |  Enter: Start  |  Esc: Back  |  Q: Quit"
	}
	b.WriteString(m.center(m.theme.Controls.Render(controls)))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) renderModes(b *strings.Builder) {
	b.WriteString(m.center(m.theme.Subtitle.Render("Select a mode")))
	b.WriteString("\n\n")

	for i, mode := range quiz.Modes {
		b.WriteString(m.center(m.item(i == m.cursor, mode.Title(), m.describe(mode))))
		b.WriteString("\n")
	}
}

func (m MenuModel) renderDifficulties(b *strings.Builder) {
	mode := quiz.Modes[m.cursor]
	b.WriteString(m.center(m.theme.Subtitle.Render(mode.Title() + " - select a difficulty")))
	b.WriteString("\n\n")

	for i, d := range quiz.Difficulties {
		b.WriteString(m.center(m.item(i == m.diffCursor, string(d), difficultyHint(d))))
		b.WriteString("\n")
	}
}

func (m MenuModel) item(active bool, title, desc string) string {
	cursor, style := "  ", m.theme.MenuItemNormal
	if active {
		cursor, style = "> ", m.theme.MenuItemActive
	}
	return style.Render(fmt.Sprintf("%s%-12s", cursor, title)) + " " + m.theme.Description.Render(desc)
}

func (m MenuModel) describe(mode quiz.Mode) string {
	if mode == quiz.ModeTimeAttack {
		return fmt.Sprintf("%ds countdown, as many as you can", m.cfg.TimeAttack.Seconds)
	}
	return fmt.Sprintf("%d questions", m.cfg.PlannedQuestions(mode))
}

func difficultyHint(d quiz.Difficulty) string {
	switch d {
	case quiz.DifficultyEasy:
		return "one and two digits, + and -"
	case quiz.DifficultyMedium:
		return "three digits and times tables"
	default:
		return "exact division and bigger products"
	}
}

func (m MenuModel) renderRecent() string {
	if len(m.recent) == 0 {
		return m.center(m.theme.Muted.Render("No runs yet. Your recent runs will show up here.")) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.center(m.theme.Subtitle.Render("Recent runs")))
	b.WriteString("\n")
	for _, s := range m.recent {
		line := fmt.Sprintf("%-12s %-7s %6d pts  %3.0f%%  x%-2d  %s",
			s.Mode.Title(), s.Difficulty, s.Score, s.Accuracy, s.MaxCombo,
			s.CompletedAt.Local().Format("Jan 02 15:04"))
		b.WriteString(m.center(m.theme.Muted.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m MenuModel) center(s string) string {
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

// Selected returns the selected mode and difficulty, or nil if none selected.
func (m MenuModel) Selected() *MenuSelection {
	return m.selection
}

// WantsHistory returns true if user requested the history screen.
func (m MenuModel) WantsHistory() bool {
	return m.wantsHistory
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

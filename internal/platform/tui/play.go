package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/game"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

// maxWrongListed caps the review list on the results screen.
const maxWrongListed = 5

// PlayModel runs one mode/difficulty against the engine and shows the
// results screen once the run finishes.
type PlayModel struct {
	engine     *game.Engine
	cfg        config.GameConfig
	mode       quiz.Mode
	difficulty quiz.Difficulty
	run        game.Run
	feedback   string
	fbStyle    lipgloss.Style
	input      textinput.Model
	theme      Theme
	keyMapper  *KeyMapper
	width      int
	height     int
	ticking    bool

	backToMenu   bool
	wantsHistory bool
	quitting     bool
}

// NewPlayModel starts a run on engine and returns the play screen for it.
func NewPlayModel(engine *game.Engine, cfg config.GameConfig, mode quiz.Mode, difficulty quiz.Difficulty, width, height int) PlayModel {
	ti := textinput.New()
	ti.Placeholder = "your answer"
	ti.Prompt = "> "
	ti.CharLimit = 16
	ti.Width = 20
	ti.Focus()

	m := PlayModel{
		engine:     engine,
		cfg:        cfg,
		mode:       mode,
		difficulty: difficulty,
		input:      ti,
		theme:      DefaultTheme(),
		keyMapper:  NewKeyMapper(),
		width:      width,
		height:     height,
		ticking:    true, // Init schedules the first tick
	}
	m.start()
	return m
}

func (m *PlayModel) start() {
	m.run = m.engine.StartGame(m.mode, m.difficulty)
	m.feedback = ""
	m.input.Reset()
	m.beginInput()
}

// beginInput opens the answer field as soon as a question is shown.
func (m *PlayModel) beginInput() {
	if !m.run.Playing() || m.run.QuestionState != game.QuestionShow {
		return
	}
	if t := m.engine.StartInput(); t.Outcome != game.OutcomeIgnored {
		m.run = t.Run
	}
}

// Init starts the cursor blink and the refresh loop.
func (m PlayModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(refreshInterval))
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.run.Finished() {
			return m.handleResultsKey(msg)
		}
		return m.handlePlayKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleTick refreshes the snapshot so the countdown and a time-up finish
// are visible without a key press.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	if run, ok := m.engine.Snapshot(); ok && run.RunID == m.run.RunID {
		m.run = run
		m.beginInput()
	}
	if m.run.Finished() {
		m.ticking = false
		return m, nil
	}
	m.ticking = true
	return m, tickCmd(refreshInterval)
}

func (m PlayModel) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToPlayAction(msg) {
	case PlayActionQuit:
		m.engine.ResetGame()
		m.quitting = true
		return m, tea.Quit

	case PlayActionBack:
		m.engine.ResetGame()
		m.backToMenu = true
		return m, nil

	case PlayActionSkip:
		q, _ := m.run.Current()
		m.apply(q, m.engine.SkipQuestion())
		return m, nil

	case PlayActionConfirm:
		return m.confirm()
	}

	if m.acceptsInput() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// confirm is Enter: submit, retry or move on depending on the question state.
func (m PlayModel) confirm() (tea.Model, tea.Cmd) {
	q, ok := m.run.Current()
	if !ok {
		return m, nil
	}

	switch m.run.QuestionState {
	case game.QuestionShow, game.QuestionInput:
		value := m.input.Value()
		if strings.TrimSpace(value) == "" {
			return m, nil
		}
		m.apply(q, m.engine.SubmitAnswer(value))

	case game.QuestionWrongSoft:
		if q.ShieldUsed {
			m.apply(q, m.engine.NextQuestion())
		} else {
			m.apply(q, m.engine.RetryQuestion())
		}

	case game.QuestionWrongFinal:
		m.apply(q, m.engine.NextQuestion())
	}

	return m, nil
}

// apply records a transition for question q and updates the feedback line.
func (m *PlayModel) apply(q quiz.Question, t game.Transition) {
	if t.Outcome == game.OutcomeIgnored {
		if t.Run.RunID == m.run.RunID {
			m.run = t.Run
		}
		return
	}
	m.run = t.Run
	m.input.Reset()

	answer := fmt.Sprintf("%s = %d", q.Expression, q.Answer)
	switch t.Outcome {
	case game.OutcomeCorrect:
		m.feedback, m.fbStyle = fmt.Sprintf("Correct! +%d", t.Delta), m.theme.Correct
		if judged := t.Run.Questions[q.Index]; judged.SpeedStarGained {
			m.feedback += "  ★ speed star"
		}
		if t.Run.CurrentCombo >= 2 {
			m.feedback += fmt.Sprintf("  combo x%d", t.Run.CurrentCombo)
		}
	case game.OutcomeRetry:
		m.feedback, m.fbStyle = "Not quite. Enter to try again, Tab to skip.", m.theme.Wrong
	case game.OutcomeShielded:
		m.feedback, m.fbStyle = "Shield absorbed it! "+answer+". Enter to continue.", m.theme.Shield
	case game.OutcomeWrong:
		m.feedback, m.fbStyle = "Wrong. "+answer+". Enter to continue.", m.theme.Wrong
	case game.OutcomeSkipped:
		m.feedback, m.fbStyle = "Skipped. "+answer+". Enter to continue.", m.theme.Muted
	case game.OutcomeChanged:
		m.feedback = ""
	}

	m.beginInput()
}

func (m PlayModel) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToResultsAction(msg) {
	case ResultsActionQuit:
		m.quitting = true
		return m, tea.Quit

	case ResultsActionPlayAgain:
		m.start()
		if m.ticking {
			return m, nil
		}
		m.ticking = true
		return m, tickCmd(refreshInterval)

	case ResultsActionHistory:
		m.wantsHistory = true

	case ResultsActionBack:
		m.backToMenu = true
	}
	return m, nil
}

func (m PlayModel) acceptsInput() bool {
	return m.run.Playing() &&
		(m.run.QuestionState == game.QuestionShow || m.run.QuestionState == game.QuestionInput)
}

// View renders the play or results screen.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	if m.run.Finished() {
		return m.renderResults()
	}
	return m.renderPlay()
}

func (m PlayModel) renderPlay() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.center(m.renderHUD()))
	b.WriteString("\n\n")

	q, ok := m.run.Current()
	if !ok {
		b.WriteString(m.center(m.theme.Muted.Render("No questions.")))
		return b.String()
	}

	var panel strings.Builder
	if q.IsBoss {
		panel.WriteString(m.theme.Boss.Render(fmt.Sprintf("BOSS QUESTION  x%.1f", m.cfg.Scoring.BossMultiplier)))
		panel.WriteString("\n\n")
	}
	panel.WriteString(m.theme.Question.Render(q.Expression + " = ?"))
	panel.WriteString("\n\n")
	if m.acceptsInput() {
		panel.WriteString(m.input.View())
	} else {
		panel.WriteString(m.theme.Muted.Render(m.promptForState(q)))
	}
	b.WriteString(m.center(m.theme.Panel.Render(panel.String())))
	b.WriteString("\n\n")

	if m.feedback != "" {
		b.WriteString(m.center(m.fbStyle.Render(m.feedback)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.center(m.theme.Controls.Render("Enter: Submit/Continue  |  Tab: Skip  |  Esc: Menu  |  Ctrl+C: Quit")))
	b.WriteString("\n")
	return b.String()
}

func (m PlayModel) promptForState(q quiz.Question) string {
	switch {
	case m.run.QuestionState == game.QuestionWrongSoft && !q.ShieldUsed:
		return "Enter: retry"
	default:
		return "Enter: next question"
	}
}

func (m PlayModel) renderHUD() string {
	sep := m.theme.HUDSeparator.Render("  |  ")
	field := func(label, value string) string {
		return m.theme.HUDLabel.Render(label+" ") + m.theme.HUDValue.Render(value)
	}

	progress := fmt.Sprintf("%d/%d", m.run.CurrentQuestionIndex+1, m.run.QuestionsPlanned)
	if m.mode == quiz.ModeTimeAttack {
		progress = fmt.Sprintf("%d", m.run.CurrentQuestionIndex+1)
	}

	parts := []string{
		m.theme.HUDValue.Render(fmt.Sprintf("%s · %s", m.mode.Title(), m.difficulty)),
		field("Q", progress),
		field("Score", fmt.Sprintf("%d", m.run.Score)),
		m.theme.Combo.Render(fmt.Sprintf("Combo x%d (%.1fx)", m.run.CurrentCombo, m.cfg.Scoring.ComboMultiplier(m.run.CurrentCombo))),
		m.theme.Star.Render(fmt.Sprintf("★ %d", m.run.SpeedStars)),
		m.theme.Shield.Render("Shield " + strings.Repeat("●", m.run.ShieldRemaining) + strings.Repeat("○", m.run.ShieldUsed)),
	}

	if m.mode == quiz.ModeTimeAttack {
		left := time.Duration(m.run.TimeRemaining) * time.Second
		style := m.theme.Timer
		if m.run.TimeRemaining <= 10 {
			style = m.theme.Urgent
		}
		parts = append(parts, style.Render(fmt.Sprintf("%02d:%02d", int(left.Minutes()), int(left.Seconds())%60)))
	}

	return strings.Join(parts, sep)
}

func (m PlayModel) renderResults() string {
	stats := game.ComputeStats(m.run)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.center(m.theme.Title.Render("RUN COMPLETE")))
	b.WriteString("\n\n")
	b.WriteString(m.center(m.theme.Rating.Render(stats.Rating())))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Mode", fmt.Sprintf("%s · %s", m.mode.Title(), m.difficulty)},
		{"Score", fmt.Sprintf("%d", stats.TotalScore)},
		{"Correct", fmt.Sprintf("%d / %d", stats.CorrectCount, stats.CorrectCount+stats.WrongCount)},
		{"Accuracy", fmt.Sprintf("%.0f%%", stats.Accuracy)},
		{"Max combo", fmt.Sprintf("x%d", stats.MaxCombo)},
		{"Speed stars", fmt.Sprintf("%d", stats.SpeedStars)},
		{"Shields used", fmt.Sprintf("%d", stats.ShieldUsed)},
		{"Avg time", fmt.Sprintf("%.1fs", stats.AverageTime.Seconds())},
		{"Total time", m.run.Elapsed(m.run.EndAt).Round(time.Second).String()},
	}

	var panel strings.Builder
	for i, r := range rows {
		if i > 0 {
			panel.WriteString("\n")
		}
		panel.WriteString(m.theme.HUDLabel.Render(fmt.Sprintf("%-13s", r.label)))
		panel.WriteString(m.theme.HUDValue.Render(r.value))
	}
	b.WriteString(m.center(m.theme.Panel.Render(panel.String())))
	b.WriteString("\n")

	if len(stats.WrongQuestions) > 0 {
		b.WriteString("\n")
		b.WriteString(m.center(m.theme.Subtitle.Render("Review")))
		b.WriteString("\n")
		for i, q := range stats.WrongQuestions {
			if i == maxWrongListed {
				b.WriteString(m.center(m.theme.Muted.Render(fmt.Sprintf("... and %d more", len(stats.WrongQuestions)-i))))
				b.WriteString("\n")
				break
			}
			b.WriteString(m.center(m.theme.Wrong.Render(reviewLine(q))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.center(m.theme.Controls.Render("Enter/R: Play again  |  Tab: History  |  Esc: Menu  |  Q: Quit")))
	b.WriteString("\n")
	return b.String()
}

func reviewLine(q quiz.Question) string {
	yours := "-"
	switch {
	case q.Result == quiz.ResultSkip:
		yours = "skipped"
	case q.UserValue != nil:
		yours = fmt.Sprintf("%d", *q.UserValue)
	}
	return fmt.Sprintf("%s = %d  (you: %s)", q.Expression, q.Answer, yours)
}

func (m PlayModel) center(s string) string {
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

// Run returns the latest snapshot the screen has seen.
func (m PlayModel) Run() game.Run {
	return m.run
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// WantsHistory returns true if user requested the history screen.
func (m PlayModel) WantsHistory() bool {
	return m.wantsHistory
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

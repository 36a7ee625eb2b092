// Package game implements the quiz run state machine.
//
// A run is advanced exclusively through Reduce, a pure function from
// (config, run, event) to the next run plus what happened. Engine wraps
// Reduce in a single goroutine that also owns the time-attack countdown.
package game

import (
	"time"

	"github.com/vovakirdan/mathrush/internal/quiz"
)

// RunState is the lifecycle of a whole run.
type RunState string

const (
	RunPlaying  RunState = "playing"
	RunFinished RunState = "finished"
)

// QuestionState is the phase of the active question.
type QuestionState string

const (
	QuestionShow       QuestionState = "show"
	QuestionInput      QuestionState = "input"
	QuestionWrongSoft  QuestionState = "wrong_soft"
	QuestionWrongFinal QuestionState = "wrong_final"
)

// Run is one play session. Treat values returned by Engine as read-only
// snapshots; they share nothing with the engine's copy.
type Run struct {
	RunID      string          `json:"runId"`
	Mode       quiz.Mode       `json:"mode"`
	Difficulty quiz.Difficulty `json:"difficulty"`

	QuestionsPlanned  int `json:"questionsPlanned"`
	QuestionsAnswered int `json:"questionsAnswered"`

	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"` // zero while playing

	Score           int `json:"score"`
	MaxCombo        int `json:"maxCombo"`
	SpeedStars      int `json:"speedStars"`
	ShieldUsed      int `json:"shieldUsed"`
	ShieldRemaining int `json:"shieldRemaining"`
	CurrentCombo    int `json:"currentCombo"`

	Questions            []quiz.Question `json:"questions"`
	CurrentQuestionIndex int             `json:"currentQuestionIndex"`

	RunState      RunState      `json:"runState"`
	QuestionState QuestionState `json:"questionState"`

	TimeRemaining int `json:"timeRemaining"` // seconds, time attack only

	// QuestionStartedAt is the per-question clock used for latency.
	QuestionStartedAt time.Time `json:"questionStartedAt"`
}

// NewRun initializes a fresh run around pre-generated questions.
func NewRun(cfg Config, id string, mode quiz.Mode, difficulty quiz.Difficulty, questions []quiz.Question, now time.Time) Run {
	r := Run{
		RunID:             id,
		Mode:              mode,
		Difficulty:        difficulty,
		QuestionsPlanned:  len(questions),
		StartAt:           now,
		ShieldRemaining:   cfg.Rules.ShieldPerRun,
		Questions:         questions,
		RunState:          RunPlaying,
		QuestionState:     QuestionShow,
		QuestionStartedAt: now,
	}
	if mode == quiz.ModeTimeAttack {
		r.TimeRemaining = cfg.TimeAttack.Seconds
	}
	return r
}

// Playing reports whether the run still accepts operations.
func (r Run) Playing() bool {
	return r.RunState == RunPlaying
}

// Finished reports whether the run has ended.
func (r Run) Finished() bool {
	return r.RunState == RunFinished
}

// Current returns the active question, if any.
func (r Run) Current() (quiz.Question, bool) {
	if r.CurrentQuestionIndex < 0 || r.CurrentQuestionIndex >= len(r.Questions) {
		return quiz.Question{}, false
	}
	return r.Questions[r.CurrentQuestionIndex], true
}

// Elapsed returns how long the run took, or has taken so far.
func (r Run) Elapsed(now time.Time) time.Duration {
	end := r.EndAt
	if end.IsZero() {
		end = now
	}
	if end.Before(r.StartAt) {
		return 0
	}
	return end.Sub(r.StartAt)
}

// Clone returns a deep copy.
func (r Run) Clone() Run {
	c := r
	c.Questions = make([]quiz.Question, len(r.Questions))
	copy(c.Questions, r.Questions)
	for i := range c.Questions {
		if v := c.Questions[i].UserValue; v != nil {
			val := *v
			c.Questions[i].UserValue = &val
		}
	}
	return c
}

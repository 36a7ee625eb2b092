package game

import (
	"time"

	"github.com/vovakirdan/mathrush/internal/audio"
	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

// Config is the rule set the reducer enforces.
type Config = config.GameConfig

// Cue delays mirror a short celebratory sequence after a correct answer.
const (
	comboCueDelay     = 100 * time.Millisecond
	speedStarCueDelay = 150 * time.Millisecond
	finishCueDelay    = 200 * time.Millisecond
)

// Transition is the result of applying one event.
type Transition struct {
	Run     Run
	Outcome Outcome
	Delta   int // score gained by this event
	Cues    []audio.Cue
}

// Finished reports whether this transition ended the run.
func (t Transition) Finished() bool {
	return t.Run.Finished()
}

// Reduce applies ev to run and returns the next state. The input run is
// never modified. Events that are not valid in the current state return the
// run unchanged with OutcomeIgnored.
func Reduce(cfg Config, run Run, ev Event) Transition {
	if !run.Playing() {
		return ignored(run)
	}

	switch e := ev.(type) {
	case StartInput:
		return startInput(run, e)
	case SubmitAnswer:
		return submitAnswer(cfg, run, e)
	case Retry:
		return retry(run, e)
	case Advance:
		return advance(run, e)
	case Skip:
		return skip(run)
	case Tick:
		return tick(run, e)
	}
	return ignored(run)
}

func ignored(run Run) Transition {
	return Transition{Run: run, Outcome: OutcomeIgnored}
}

func startInput(run Run, e StartInput) Transition {
	if _, ok := run.Current(); !ok || run.QuestionState != QuestionShow {
		return ignored(run)
	}
	next := run.Clone()
	next.QuestionState = QuestionInput
	next.QuestionStartedAt = e.At
	return Transition{Run: next, Outcome: OutcomeChanged}
}

func submitAnswer(cfg Config, run Run, e SubmitAnswer) Transition {
	q, ok := run.Current()
	if !ok || !q.Pending() {
		return ignored(run)
	}
	if run.QuestionState != QuestionShow && run.QuestionState != QuestionInput {
		return ignored(run)
	}

	next := run.Clone()
	cur := &next.Questions[next.CurrentQuestionIndex]

	value, parsed := quiz.ParseUserInput(e.Input)
	latency := e.At.Sub(run.QuestionStartedAt)
	if latency < 0 {
		latency = 0
	}
	isCorrect := parsed && value == cur.Answer

	cur.Attempts++
	cur.LatencyMs = latency.Milliseconds()
	cur.ComboBefore = next.CurrentCombo
	cur.UserValue = nil
	if parsed {
		cur.UserValue = &value
	}

	if isCorrect {
		return correctAnswer(cfg, next, e.At, latency)
	}

	// Retry first, then shield, then the combo breaks.
	if cur.Attempts <= cfg.Rules.RetryPerQuestion && !cur.RetryUsed {
		cur.RetryUsed = true
		next.QuestionState = QuestionWrongSoft
		return Transition{
			Run:     next,
			Outcome: OutcomeRetry,
			Cues:    []audio.Cue{{Sound: audio.SoundWrong}},
		}
	}

	if next.ShieldRemaining > 0 {
		next.ShieldRemaining--
		next.ShieldUsed++
		cur.ShieldUsed = true
		cur.Result = quiz.ResultWrong
		cur.ComboAfter = next.CurrentCombo
		next.QuestionState = QuestionWrongSoft
		return Transition{
			Run:     next,
			Outcome: OutcomeShielded,
			Cues:    []audio.Cue{{Sound: audio.SoundShield}},
		}
	}

	cur.Result = quiz.ResultWrong
	cur.ComboAfter = 0
	next.CurrentCombo = 0
	next.QuestionState = QuestionWrongFinal
	return Transition{
		Run:     next,
		Outcome: OutcomeWrong,
		Cues:    []audio.Cue{{Sound: audio.SoundWrong}},
	}
}

// correctAnswer scores the active question of next (already cloned) and
// moves on or finishes.
func correctAnswer(cfg Config, next Run, at time.Time, latency time.Duration) Transition {
	cur := &next.Questions[next.CurrentQuestionIndex]

	newCombo := next.CurrentCombo + 1
	speedStar := latency <= cfg.SoftTimeLimit()
	delta := cfg.Scoring.QuestionScore(true, newCombo, cur.IsBoss, speedStar)

	cur.Result = quiz.ResultCorrect
	cur.ComboAfter = newCombo
	cur.SpeedStarGained = speedStar

	next.Score += delta
	next.CurrentCombo = newCombo
	next.MaxCombo = max(next.MaxCombo, newCombo)
	if speedStar {
		next.SpeedStars++
	}

	cues := []audio.Cue{{Sound: audio.SoundCorrect}}
	if newCombo >= 2 {
		cues = append(cues, audio.Cue{Sound: audio.SoundCombo, Level: newCombo, Delay: comboCueDelay})
	}
	if speedStar {
		cues = append(cues, audio.Cue{Sound: audio.SoundSpeedStar, Delay: speedStarCueDelay})
	}

	next, moreCues := moveOn(next, at)
	if next.Finished() {
		moreCues = []audio.Cue{{Sound: audio.SoundFinish, Delay: finishCueDelay}}
	}

	return Transition{
		Run:     next,
		Outcome: OutcomeCorrect,
		Delta:   delta,
		Cues:    append(cues, moreCues...),
	}
}

func retry(run Run, e Retry) Transition {
	q, ok := run.Current()
	if !ok || run.QuestionState != QuestionWrongSoft || q.ShieldUsed {
		return ignored(run)
	}
	next := run.Clone()
	next.QuestionState = QuestionInput
	next.QuestionStartedAt = e.At
	return Transition{Run: next, Outcome: OutcomeChanged}
}

func advance(run Run, e Advance) Transition {
	q, ok := run.Current()
	if !ok {
		return ignored(run)
	}
	shielded := run.QuestionState == QuestionWrongSoft && q.ShieldUsed
	if run.QuestionState != QuestionWrongFinal && !shielded {
		return ignored(run)
	}

	next, cues := moveOn(run.Clone(), e.At)
	if next.Finished() {
		cues = []audio.Cue{{Sound: audio.SoundFinish}}
	}
	return Transition{Run: next, Outcome: OutcomeChanged, Cues: cues}
}

func skip(run Run) Transition {
	q, ok := run.Current()
	if !ok || !q.Pending() {
		return ignored(run)
	}
	next := run.Clone()
	cur := &next.Questions[next.CurrentQuestionIndex]
	cur.Result = quiz.ResultSkip
	cur.ComboAfter = 0
	next.CurrentCombo = 0
	next.QuestionState = QuestionWrongFinal
	return Transition{Run: next, Outcome: OutcomeSkipped}
}

func tick(run Run, e Tick) Transition {
	if run.Mode != quiz.ModeTimeAttack {
		return ignored(run)
	}
	next := run.Clone()
	next.TimeRemaining--
	if next.TimeRemaining > 0 {
		return Transition{Run: next, Outcome: OutcomeChanged}
	}
	next.TimeRemaining = 0
	next.RunState = RunFinished
	next.EndAt = e.At
	return Transition{
		Run:     next,
		Outcome: OutcomeChanged,
		Cues:    []audio.Cue{{Sound: audio.SoundFinish}},
	}
}

// moveOn leaves the active question: it finishes the run when the planned
// questions are exhausted or the countdown already hit zero, otherwise it
// shows the next question.
func moveOn(next Run, at time.Time) (Run, []audio.Cue) {
	nextIndex := next.CurrentQuestionIndex + 1
	next.QuestionsAnswered = nextIndex

	timeUp := next.Mode == quiz.ModeTimeAttack && next.TimeRemaining <= 0
	if nextIndex >= next.QuestionsPlanned || timeUp {
		next.RunState = RunFinished
		next.EndAt = at
		return next, nil
	}

	next.CurrentQuestionIndex = nextIndex
	next.QuestionState = QuestionShow
	next.QuestionStartedAt = at

	var cues []audio.Cue
	if next.Questions[nextIndex].IsBoss {
		cues = append(cues, audio.Cue{Sound: audio.SoundBoss})
	}
	return next, cues
}

package game

import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mathrush/internal/audio"
	"github.com/vovakirdan/mathrush/internal/config"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	return config.DefaultGameConfig()
}

func fixedQuestions(answers ...int) []quiz.Question {
	qs := make([]quiz.Question, len(answers))
	for i, a := range answers {
		qs[i] = quiz.Question{
			Index:      i,
			Expression: fmt.Sprintf("%d + 0", a),
			Answer:     a,
			Result:     quiz.ResultPending,
		}
	}
	return qs
}

func newTestRun(mode quiz.Mode, answers ...int) Run {
	return NewRun(testConfig(), "run-1", mode, quiz.DifficultyEasy, fixedQuestions(answers...), t0)
}

func soundsOf(cues []audio.Cue) []audio.Sound {
	out := make([]audio.Sound, len(cues))
	for i, c := range cues {
		out[i] = c.Sound
	}
	return out
}

// apply threads events through Reduce and fails on an unexpected no-op.
func apply(t *testing.T, cfg Config, run Run, events ...Event) Run {
	t.Helper()
	for _, ev := range events {
		tr := Reduce(cfg, run, ev)
		require.NotEqual(t, OutcomeIgnored, tr.Outcome, "event %T ignored in state %s", ev, run.QuestionState)
		run = tr.Run
	}
	return run
}

func TestNewRun(t *testing.T) {
	run := newTestRun(quiz.ModeMain, 1, 2, 3)
	assert.Equal(t, RunPlaying, run.RunState)
	assert.Equal(t, QuestionShow, run.QuestionState)
	assert.Equal(t, 3, run.QuestionsPlanned)
	assert.Equal(t, 1, run.ShieldRemaining)
	assert.Zero(t, run.TimeRemaining)

	ta := newTestRun(quiz.ModeTimeAttack, 1, 2, 3)
	assert.Equal(t, 120, ta.TimeRemaining)
}

func TestStartInputOnlyFromShow(t *testing.T) {
	cfg := testConfig()
	run := newTestRun(quiz.ModeMain, 5, 6)

	tr := Reduce(cfg, run, StartInput{At: t0.Add(time.Second)})
	require.Equal(t, OutcomeChanged, tr.Outcome)
	assert.Equal(t, QuestionInput, tr.Run.QuestionState)
	assert.Equal(t, t0.Add(time.Second), tr.Run.QuestionStartedAt)

	again := Reduce(cfg, tr.Run, StartInput{At: t0.Add(2 * time.Second)})
	assert.Equal(t, OutcomeIgnored, again.Outcome)
	assert.Equal(t, t0.Add(time.Second), again.Run.QuestionStartedAt)
}

func TestCorrectAnswerScoresAndAdvances(t *testing.T) {
	cfg := testConfig()
	run := newTestRun(quiz.ModeMain, 59, 7)
	run = apply(t, cfg, run, StartInput{At: t0})

	tr := Reduce(cfg, run, SubmitAnswer{Input: "59", At: t0.Add(2 * time.Second)})
	require.Equal(t, OutcomeCorrect, tr.Outcome)
	assert.Equal(t, 120, tr.Delta)
	assert.Equal(t, 120, tr.Run.Score)
	assert.Equal(t, 1, tr.Run.CurrentCombo)
	assert.Equal(t, 1, tr.Run.MaxCombo)
	assert.Equal(t, 1, tr.Run.SpeedStars)
	assert.Equal(t, 1, tr.Run.CurrentQuestionIndex)
	assert.Equal(t, 1, tr.Run.QuestionsAnswered)
	assert.Equal(t, QuestionShow, tr.Run.QuestionState)

	q := tr.Run.Questions[0]
	assert.Equal(t, quiz.ResultCorrect, q.Result)
	assert.Equal(t, 1, q.Attempts)
	assert.Equal(t, int64(2000), q.LatencyMs)
	assert.True(t, q.SpeedStarGained)
	require.NotNil(t, q.UserValue)
	assert.Equal(t, 59, *q.UserValue)
	assert.Equal(t, 0, q.ComboBefore)
	assert.Equal(t, 1, q.ComboAfter)

	assert.Equal(t, []audio.Sound{audio.SoundCorrect, audio.SoundSpeedStar}, soundsOf(tr.Cues))
}

func TestSlowCorrectAnswerEarnsNoSpeedStar(t *testing.T) {
	cfg := testConfig()
	run := apply(t, cfg, newTestRun(quiz.ModeMain, 3, 4), StartInput{At: t0})

	tr := Reduce(cfg, run, SubmitAnswer{Input: "3", At: t0.Add(7 * time.Second)})
	require.Equal(t, OutcomeCorrect, tr.Outcome)
	assert.Equal(t, 100, tr.Delta)
	assert.Zero(t, tr.Run.SpeedStars)
	assert.False(t, tr.Run.Questions[0].SpeedStarGained)
}

func TestExactlySoftLimitEarnsSpeedStar(t *testing.T) {
	cfg := testConfig()
	run := apply(t, cfg, newTestRun(quiz.ModeMain, 3, 4), StartInput{At: t0})

	tr := Reduce(cfg, run, SubmitAnswer{Input: "3", At: t0.Add(6 * time.Second)})
	assert.True(t, tr.Run.Questions[0].SpeedStarGained)
}

func TestComboBuildsScoreAndCues(t *testing.T) {
	cfg := testConfig()
	run := newTestRun(quiz.ModeMain, 1, 2, 3, 4, 5)

	var deltas []int
	for i := 0; i < 4; i++ {
		at := t0.Add(time.Duration(i) * 10 * time.Second)
		run = apply(t, cfg, run, StartInput{At: at})
		tr := Reduce(cfg, run, SubmitAnswer{Input: strconv.Itoa(run.Questions[i].Answer), At: at.Add(10 * time.Second)})
		require.Equal(t, OutcomeCorrect, tr.Outcome)
		deltas = append(deltas, tr.Delta)
		if i >= 1 {
			assert.Contains(t, soundsOf(tr.Cues), audio.SoundCombo)
		}
		run = tr.Run
	}

	assert.Equal(t, []int{100, 120, 120, 150}, deltas)
	assert.Equal(t, 490, run.Score)
	assert.Equal(t, 4, run.MaxCombo)
}

func TestWrongAnswerRetryThenShieldThenFinal(t *testing.T) {
	cfg := testConfig()
	run := newTestRun(quiz.ModeMain, 10, 20, 30)

	// Build a combo of 1 first.
	run = apply(t, cfg, run, StartInput{At: t0}, SubmitAnswer{Input: "10", At: t0.Add(time.Second)})
	require.Equal(t, 1, run.CurrentCombo)
	scoreBefore := run.Score

	// First wrong attempt: retry granted, nothing else changes.
	run = apply(t, cfg, run, StartInput{At: t0})
	tr := Reduce(cfg, run, SubmitAnswer{Input: "19", At: t0.Add(time.Second)})
	require.Equal(t, OutcomeRetry, tr.Outcome)
	assert.Equal(t, QuestionWrongSoft, tr.Run.QuestionState)
	assert.True(t, tr.Run.Questions[1].RetryUsed)
	assert.True(t, tr.Run.Questions[1].Pending())
	assert.Equal(t, 1, tr.Run.CurrentCombo)
	assert.Equal(t, scoreBefore, tr.Run.Score)
	assert.Equal(t, []audio.Sound{audio.SoundWrong}, soundsOf(tr.Cues))

	// Advance is not allowed while a retry is available.
	assert.Equal(t, OutcomeIgnored, Reduce(cfg, tr.Run, Advance{At: t0}).Outcome)
	// Submitting is not allowed before retrying.
	assert.Equal(t, OutcomeIgnored, Reduce(cfg, tr.Run, SubmitAnswer{Input: "20", At: t0}).Outcome)

	// Second wrong attempt: the shield absorbs it.
	run = apply(t, cfg, tr.Run, Retry{At: t0.Add(2 * time.Second)})
	require.Equal(t, QuestionInput, run.QuestionState)
	tr = Reduce(cfg, run, SubmitAnswer{Input: "abc", At: t0.Add(3 * time.Second)})
	require.Equal(t, OutcomeShielded, tr.Outcome)
	assert.Equal(t, QuestionWrongSoft, tr.Run.QuestionState)
	assert.Equal(t, 0, tr.Run.ShieldRemaining)
	assert.Equal(t, 1, tr.Run.ShieldUsed)
	assert.Equal(t, 1, tr.Run.CurrentCombo, "shield preserves combo")
	assert.Equal(t, quiz.ResultWrong, tr.Run.Questions[1].Result)
	assert.True(t, tr.Run.Questions[1].ShieldUsed)
	assert.Nil(t, tr.Run.Questions[1].UserValue)
	assert.Equal(t, 2, tr.Run.Questions[1].Attempts)

	// A shielded question cannot be retried, only left.
	assert.Equal(t, OutcomeIgnored, Reduce(cfg, tr.Run, Retry{At: t0}).Outcome)
	run = apply(t, cfg, tr.Run, Advance{At: t0.Add(4 * time.Second)})
	assert.Equal(t, 2, run.CurrentQuestionIndex)
	assert.Equal(t, QuestionShow, run.QuestionState)

	// Third question: retry, then no shield left, so the combo breaks.
	run = apply(t, cfg, run,
		StartInput{At: t0},
		SubmitAnswer{Input: "1", At: t0},
		Retry{At: t0},
	)
	tr = Reduce(cfg, run, SubmitAnswer{Input: "2", At: t0})
	require.Equal(t, OutcomeWrong, tr.Outcome)
	assert.Equal(t, QuestionWrongFinal, tr.Run.QuestionState)
	assert.Zero(t, tr.Run.CurrentCombo)
	assert.Equal(t, 1, tr.Run.MaxCombo)
	assert.Equal(t, quiz.ResultWrong, tr.Run.Questions[2].Result)
	assert.Zero(t, tr.Run.Questions[2].ComboAfter)
	assert.Equal(t, 1, tr.Run.Questions[2].ComboBefore)

	// Leaving the last question finishes the run.
	fin := Reduce(cfg, tr.Run, Advance{At: t0.Add(time.Minute)})
	require.True(t, fin.Finished())
	assert.Equal(t, 3, fin.Run.QuestionsAnswered)
	assert.Equal(t, t0.Add(time.Minute), fin.Run.EndAt)
	assert.Equal(t, []audio.Sound{audio.SoundFinish}, soundsOf(fin.Cues))
}

func TestRetryCanStillScore(t *testing.T) {
	cfg := testConfig()
	run := apply(t, cfg, newTestRun(quiz.ModeMain, 8, 9),
		StartInput{At: t0},
		SubmitAnswer{Input: "7", At: t0},
		Retry{At: t0.Add(time.Second)},
	)
	tr := Reduce(cfg, run, SubmitAnswer{Input: "8", At: t0.Add(2 * time.Second)})
	require.Equal(t, OutcomeCorrect, tr.Outcome)
	assert.Equal(t, 2, tr.Run.Questions[0].Attempts)
	assert.Equal(t, int64(1000), tr.Run.Questions[0].LatencyMs)
	assert.Equal(t, 1, tr.Run.ShieldRemaining)
}

func TestCorrectOnLastQuestionFinishes(t *testing.T) {
	cfg := testConfig()
	run := apply(t, cfg, newTestRun(quiz.ModeQuick, 4), StartInput{At: t0})

	tr := Reduce(cfg, run, SubmitAnswer{Input: "4", At: t0.Add(time.Second)})
	require.True(t, tr.Finished())
	assert.Equal(t, 1, tr.Run.QuestionsAnswered)
	assert.Equal(t, 0, tr.Run.CurrentQuestionIndex)
	assert.Equal(t, t0.Add(time.Second), tr.Run.EndAt)
	assert.Contains(t, soundsOf(tr.Cues), audio.SoundFinish)

	for _, ev := range []Event{
		StartInput{At: t0}, SubmitAnswer{Input: "4", At: t0}, Retry{At: t0},
		Advance{At: t0}, Skip{At: t0}, Tick{At: t0},
	} {
		assert.Equal(t, OutcomeIgnored, Reduce(cfg, tr.Run, ev).Outcome, "%T after finish", ev)
	}
}

func TestSkip(t *testing.T) {
	cfg := testConfig()
	run := apply(t, cfg, newTestRun(quiz.ModeMain, 1, 2, 3),
		StartInput{At: t0},
		SubmitAnswer{Input: "1", At: t0},
	)
	require.Equal(t, 1, run.CurrentCombo)

	tr := Reduce(cfg, run, Skip{At: t0})
	require.Equal(t, OutcomeSkipped, tr.Outcome)
	assert.Equal(t, quiz.ResultSkip, tr.Run.Questions[1].Result)
	assert.Equal(t, QuestionWrongFinal, tr.Run.QuestionState)
	assert.Zero(t, tr.Run.CurrentCombo)
	assert.Equal(t, 1, tr.Run.ShieldRemaining)

	assert.Equal(t, OutcomeIgnored, Reduce(cfg, tr.Run, Skip{At: t0}).Outcome)

	next := apply(t, cfg, tr.Run, Advance{At: t0})
	assert.Equal(t, 2, next.CurrentQuestionIndex)
}

func TestSkipAfterSoftWrong(t *testing.T) {
	cfg := testConfig()
	run := apply(t, cfg, newTestRun(quiz.ModeMain, 1, 2),
		StartInput{At: t0},
		SubmitAnswer{Input: "9", At: t0},
	)
	require.Equal(t, QuestionWrongSoft, run.QuestionState)

	tr := Reduce(cfg, run, Skip{At: t0})
	require.Equal(t, OutcomeSkipped, tr.Outcome)
	assert.Equal(t, QuestionWrongFinal, tr.Run.QuestionState)
}

func TestBossQuestionCue(t *testing.T) {
	cfg := testConfig()
	run := newTestRun(quiz.ModeMain, 1, 2)
	run.Questions[1].IsBoss = true

	tr := Reduce(cfg, apply(t, cfg, run, StartInput{At: t0}), SubmitAnswer{Input: "1", At: t0.Add(10 * time.Second)})
	require.Equal(t, OutcomeCorrect, tr.Outcome)
	assert.Equal(t, []audio.Sound{audio.SoundCorrect, audio.SoundBoss}, soundsOf(tr.Cues))

	tr = Reduce(cfg, apply(t, cfg, tr.Run, StartInput{At: t0}), SubmitAnswer{Input: "2", At: t0.Add(10 * time.Second)})
	assert.Equal(t, 180, tr.Delta)
}

func TestTickCountsDownAndFinishes(t *testing.T) {
	cfg := testConfig()
	cfg.TimeAttack.Seconds = 3
	run := NewRun(cfg, "ta", quiz.ModeTimeAttack, quiz.DifficultyEasy, fixedQuestions(1, 2, 3), t0)

	run = apply(t, cfg, run, Tick{At: t0.Add(time.Second)}, Tick{At: t0.Add(2 * time.Second)})
	assert.Equal(t, 1, run.TimeRemaining)
	assert.True(t, run.Playing())

	tr := Reduce(cfg, run, Tick{At: t0.Add(3 * time.Second)})
	require.True(t, tr.Finished())
	assert.Zero(t, tr.Run.TimeRemaining)
	assert.Equal(t, t0.Add(3*time.Second), tr.Run.EndAt)
	assert.Zero(t, tr.Run.QuestionsAnswered)
	assert.Equal(t, []audio.Sound{audio.SoundFinish}, soundsOf(tr.Cues))
}

func TestTickIgnoredOutsideTimeAttack(t *testing.T) {
	cfg := testConfig()
	run := newTestRun(quiz.ModeMain, 1)
	assert.Equal(t, OutcomeIgnored, Reduce(cfg, run, Tick{At: t0}).Outcome)
}

func TestAnswerAfterTimeUpFinishes(t *testing.T) {
	cfg := testConfig()
	run := newTestRun(quiz.ModeTimeAttack, 1, 2, 3)
	run.TimeRemaining = 0

	tr := Reduce(cfg, run, SubmitAnswer{Input: "1", At: t0.Add(time.Second)})
	require.Equal(t, OutcomeCorrect, tr.Outcome)
	assert.True(t, tr.Finished())
	assert.Equal(t, 1, tr.Run.QuestionsAnswered)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	cfg := testConfig()
	run := apply(t, cfg, newTestRun(quiz.ModeMain, 1, 2), StartInput{At: t0})
	before := run.Clone()

	_ = Reduce(cfg, run, SubmitAnswer{Input: "1", At: t0.Add(time.Second)})
	_ = Reduce(cfg, run, SubmitAnswer{Input: "5", At: t0.Add(time.Second)})
	_ = Reduce(cfg, run, Skip{At: t0})

	assert.Equal(t, before, run)
}

func TestReduceInvariantsUnderRandomEvents(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		mode := quiz.Modes[rng.Intn(len(quiz.Modes))]
		run := NewRun(cfg, "prop", mode, quiz.DifficultyEasy, fixedQuestions(1, 2, 3, 4, 5, 6), t0)
		at := t0

		for step := 0; step < 60 && run.Playing(); step++ {
			at = at.Add(time.Duration(rng.Intn(4000)) * time.Millisecond)
			var ev Event
			switch rng.Intn(6) {
			case 0:
				ev = StartInput{At: at}
			case 1:
				q, _ := run.Current()
				input := "0"
				if rng.Intn(2) == 0 {
					input = strconv.Itoa(q.Answer)
				}
				ev = SubmitAnswer{Input: input, At: at}
			case 2:
				ev = Retry{At: at}
			case 3:
				ev = Advance{At: at}
			case 4:
				ev = Skip{At: at}
			default:
				ev = Tick{At: at}
			}

			prev := run
			run = Reduce(cfg, run, ev).Run

			assert.GreaterOrEqual(t, run.Score, prev.Score)
			assert.Equal(t, cfg.Rules.ShieldPerRun, run.ShieldRemaining+run.ShieldUsed)
			assert.GreaterOrEqual(t, run.ShieldRemaining, 0)
			assert.GreaterOrEqual(t, run.MaxCombo, run.CurrentCombo)
			assert.LessOrEqual(t, run.CurrentQuestionIndex, run.QuestionsPlanned-1)
			assert.LessOrEqual(t, run.QuestionsAnswered, run.QuestionsPlanned)
			assert.GreaterOrEqual(t, run.TimeRemaining, 0)
			for _, q := range run.Questions {
				assert.LessOrEqual(t, q.Attempts, cfg.Rules.RetryPerQuestion+1)
			}
		}
	}
}

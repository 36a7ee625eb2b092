package game

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/mathrush/internal/audio"
	"github.com/vovakirdan/mathrush/internal/quiz"
)

// recordTimeout bounds a single history write.
const recordTimeout = 5 * time.Second

// Generator builds the question sequence for a new run.
type Generator interface {
	Generate(count int, difficulty quiz.Difficulty, bossCount int) []quiz.Question
}

// Recorder receives every finished run exactly once.
type Recorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithGenerator replaces the default unseeded generator.
func WithGenerator(g Generator) Option {
	return func(e *Engine) { e.gen = g }
}

// WithRecorder persists finished runs.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithAudio plays sound cues.
func WithAudio(p audio.Player) Option {
	return func(e *Engine) { e.sounds = audio.NewScheduler(p) }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs overrides run ID generation.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// Engine owns at most one active run. Every operation and every countdown
// tick executes on a single goroutine, so no two mutations interleave.
type Engine struct {
	cfg      Config
	gen      Generator
	recorder Recorder
	sounds   *audio.Scheduler
	logger   *log.Logger
	now      func() time.Time
	newID    func() string

	requests  chan func()
	done      chan struct{}
	exited    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	saves     sync.WaitGroup

	// Owned by the loop goroutine.
	run      *Run
	ticker   *time.Ticker
	tickC    <-chan time.Time
	recorded bool
}

// NewEngine creates an engine. The event loop starts on first use.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		gen:      quiz.NewGenerator(0),
		sounds:   audio.NewScheduler(nil),
		logger:   log.New(io.Discard),
		now:      time.Now,
		newID:    uuid.NewString,
		requests: make(chan func()),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the event loop. Calling it again is a no-op.
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		go e.loop()
	})
}

// Stop halts the countdown, waits for pending history writes and releases
// the audio player. Operations after Stop are ignored.
func (e *Engine) Stop() {
	e.Start()
	e.stopOnce.Do(func() {
		close(e.done)
	})
	<-e.exited
	e.saves.Wait()
	//nolint:errcheck // Audio teardown is best-effort
	e.sounds.Stop()
}

func (e *Engine) loop() {
	defer close(e.exited)
	for {
		select {
		case req := <-e.requests:
			req()
		case <-e.tickC:
			e.apply(Tick{At: e.now()})
		case <-e.done:
			e.stopTicker()
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it to complete.
// It returns false when the engine is stopped.
func (e *Engine) do(fn func()) bool {
	e.Start()
	finished := make(chan struct{})
	select {
	case e.requests <- func() { fn(); close(finished) }:
	case <-e.done:
		return false
	}
	<-finished
	return true
}

// StartGame discards any active run and begins a new one.
func (e *Engine) StartGame(mode quiz.Mode, difficulty quiz.Difficulty) Run {
	var out Run
	e.do(func() {
		e.stopTicker()

		count := e.cfg.PlannedQuestions(mode)
		questions := e.gen.Generate(count, difficulty, e.cfg.Questions.BossCount)
		run := NewRun(e.cfg, e.newID(), mode, difficulty, questions, e.now())
		e.run = &run
		e.recorded = false

		if mode == quiz.ModeTimeAttack {
			e.ticker = time.NewTicker(e.cfg.TimeAttack.TickInterval)
			e.tickC = e.ticker.C
		}
		if q, ok := run.Current(); ok && q.IsBoss {
			e.sounds.Schedule(audio.Cue{Sound: audio.SoundBoss})
		}

		e.logger.Info("run started",
			"run", run.RunID,
			"mode", mode,
			"difficulty", difficulty,
			"questions", run.QuestionsPlanned,
		)
		out = run.Clone()
	})
	return out
}

// SubmitAnswer judges input against the active question.
func (e *Engine) SubmitAnswer(input string) Transition {
	return e.dispatch(func(now time.Time) Event { return SubmitAnswer{Input: input, At: now} })
}

// StartInput marks the active question as visible and starts its clock.
func (e *Engine) StartInput() Transition {
	return e.dispatch(func(now time.Time) Event { return StartInput{At: now} })
}

// RetryQuestion reopens input after a soft wrong answer.
func (e *Engine) RetryQuestion() Transition {
	return e.dispatch(func(now time.Time) Event { return Retry{At: now} })
}

// NextQuestion leaves a terminally wrong question.
func (e *Engine) NextQuestion() Transition {
	return e.dispatch(func(now time.Time) Event { return Advance{At: now} })
}

// SkipQuestion gives up on the active question.
func (e *Engine) SkipQuestion() Transition {
	return e.dispatch(func(now time.Time) Event { return Skip{At: now} })
}

// ResetGame stops the countdown and discards the active run.
func (e *Engine) ResetGame() {
	e.do(func() {
		e.stopTicker()
		if e.run != nil {
			e.logger.Debug("run discarded", "run", e.run.RunID, "state", e.run.RunState)
		}
		e.run = nil
	})
}

// Snapshot returns a copy of the active run.
func (e *Engine) Snapshot() (Run, bool) {
	var (
		out Run
		ok  bool
	)
	e.do(func() {
		if e.run != nil {
			out, ok = e.run.Clone(), true
		}
	})
	return out, ok
}

// Stats summarises the active run.
func (e *Engine) Stats() (Stats, bool) {
	run, ok := e.Snapshot()
	if !ok {
		return Stats{}, false
	}
	return ComputeStats(run), true
}

func (e *Engine) dispatch(build func(now time.Time) Event) Transition {
	t := Transition{Outcome: OutcomeIgnored}
	e.do(func() {
		t = e.apply(build(e.now()))
	})
	return t
}

// apply runs on the loop goroutine.
func (e *Engine) apply(ev Event) Transition {
	if e.run == nil {
		return Transition{Outcome: OutcomeIgnored}
	}

	t := Reduce(e.cfg, *e.run, ev)
	if t.Outcome == OutcomeIgnored {
		if _, isTick := ev.(Tick); !isTick {
			e.logger.Debug("operation ignored",
				"event", fmt.Sprintf("%T", ev),
				"run_state", e.run.RunState,
				"question_state", e.run.QuestionState,
			)
		}
		t.Run = e.run.Clone()
		return t
	}

	run := t.Run
	e.run = &run
	e.sounds.Schedule(t.Cues...)

	if run.Finished() {
		e.finish()
	}

	t.Run = run.Clone()
	return t
}

// finish stops the countdown and hands the run to the recorder once.
func (e *Engine) finish() {
	e.stopTicker()
	if e.recorded {
		return
	}
	e.recorded = true

	run := e.run.Clone()
	e.logger.Info("run finished",
		"run", run.RunID,
		"score", run.Score,
		"answered", run.QuestionsAnswered,
		"max_combo", run.MaxCombo,
		"elapsed", run.Elapsed(run.EndAt),
	)

	if e.recorder == nil {
		return
	}
	e.saves.Add(1)
	go func() {
		defer e.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := e.recorder.RecordRun(ctx, run); err != nil {
			e.logger.Warn("could not record run", "run", run.RunID, "error", err)
		}
	}()
}

func (e *Engine) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
	}
	e.ticker = nil
	e.tickC = nil
}

package game

import "time"

// Event is an input to Reduce.
type Event interface {
	event()
}

// StartInput moves the active question from show to input.
type StartInput struct {
	At time.Time
}

// SubmitAnswer judges raw player input against the active question.
type SubmitAnswer struct {
	Input string
	At    time.Time
}

// Retry reopens input after a soft wrong answer.
type Retry struct {
	At time.Time
}

// Advance leaves a terminally wrong question.
type Advance struct {
	At time.Time
}

// Skip gives up on the active question.
type Skip struct {
	At time.Time
}

// Tick is one second of the time-attack countdown.
type Tick struct {
	At time.Time
}

func (StartInput) event()   {}
func (SubmitAnswer) event() {}
func (Retry) event()        {}
func (Advance) event()      {}
func (Skip) event()         {}
func (Tick) event()         {}

// Outcome describes what an event did to the run.
type Outcome int

const (
	OutcomeIgnored  Outcome = iota // event was not valid in the current state
	OutcomeChanged                 // state changed without judging an answer
	OutcomeCorrect                 // correct answer scored
	OutcomeRetry                   // wrong answer, retry granted
	OutcomeShielded                // wrong answer absorbed by a shield
	OutcomeWrong                   // final wrong answer, combo reset
	OutcomeSkipped                 // question skipped
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeChanged:
		return "changed"
	case OutcomeCorrect:
		return "correct"
	case OutcomeRetry:
		return "retry"
	case OutcomeShielded:
		return "shielded"
	case OutcomeWrong:
		return "wrong"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

package quiz

import (
	"time"

	"github.com/abhisek/codequiz/internal/questiongen"
)

// Phase is the lifecycle phase of a quiz session.
type Phase int

const (
	PhaseLoading    Phase = iota // No questions loaded yet, or session closed
	PhaseInProgress              // Question shown, countdown running
	PhaseAnswered                // Answer recorded, waiting to advance
	PhaseCompleted               // All questions done, record emitted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in-progress"
	case PhaseAnswered:
		return "answered"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// NoSelection marks a question with no answer chosen.
const NoSelection = -1

// State is a read-only copy of a session for rendering.
type State struct {
	Phase Phase

	// SessionID changes on every Start.
	SessionID string

	// Index is the zero-based position of the current question.
	Index int

	// Total is the number of questions in the session.
	Total int

	// Current is the question being shown. Nil while loading.
	Current *questiongen.Question

	// Selected is the chosen option index, or NoSelection.
	Selected int

	// LastCorrect reports whether the last answer was right.
	LastCorrect bool

	Score    int
	Combo    int
	MaxCombo int

	// Remaining is the countdown value in ticks.
	Remaining int

	// Record is set once the session completes.
	Record *ScoreRecord

	// Saving is true while the record is being persisted.
	Saving bool

	// SaveErr holds the last persistence failure, if any.
	SaveErr error
}

// Config controls session timing and persistence.
type Config struct {
	// QuestionCount is the default number of questions per session.
	QuestionCount int

	// QuestionTime is the countdown start value, in ticks.
	QuestionTime int

	// Tick is the duration of one countdown step.
	Tick time.Duration

	// AdvanceDelay is the pause between a manual answer and the next question.
	AdvanceDelay time.Duration

	// SaveAttempts bounds how many times a record save is tried.
	SaveAttempts int

	// SaveBackoff is multiplied by the attempt number between save retries.
	SaveBackoff time.Duration

	// SaveTimeout bounds a single save attempt.
	SaveTimeout time.Duration
}

// DefaultConfig returns the standard session timing.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 10,
		QuestionTime:  15,
		Tick:          time.Second,
		AdvanceDelay:  1500 * time.Millisecond,
		SaveAttempts:  3,
		SaveBackoff:   250 * time.Millisecond,
		SaveTimeout:   10 * time.Second,
	}
}

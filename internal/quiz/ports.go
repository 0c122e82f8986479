package quiz

import (
	"context"
	"time"

	"github.com/abhisek/codequiz/internal/haptics"
	"github.com/abhisek/codequiz/internal/questiongen"
)

// QuestionSource produces the questions for a session.
type QuestionSource interface {
	GenerateUnique(count int) []questiongen.Question
}

// ScoreRepo persists completed session records.
type ScoreRepo interface {
	Save(ctx context.Context, userID string, rec ScoreRecord) error
	ListByUser(ctx context.Context, userID string) ([]ScoreRecord, error)
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running if it has not started.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// EventAction names a session event.
type EventAction string

const (
	ActionStart   EventAction = "start"
	ActionAnswer  EventAction = "answer"
	ActionTimeout EventAction = "timeout"
	ActionEnd     EventAction = "end"
)

// Event is one entry of the session event log.
type Event struct {
	SessionID     string
	UserID        string
	Action        EventAction
	QuestionIndex int
	Topic         string
	Prompt        string
	Selected      int
	Correct       bool
	Score         int
	Combo         int
}

// EventSink receives session events.
type EventSink interface {
	AppendQuizEvent(ctx context.Context, ev Event) error
}

// Deps are the collaborators of a Session. Source is required; the rest
// fall back to no-op or real-time defaults.
type Deps struct {
	Source    QuestionSource
	Scores    ScoreRepo
	Haptics   haptics.Vibrator
	Scheduler Scheduler
	Events    EventSink

	// UserID owns saved records. Records of an empty UserID are not saved.
	UserID string

	Clock func() time.Time

	// Go runs blocking persistence work off the caller. The outcome is
	// posted back through Scheduler. Defaults to a new goroutine.
	Go func(func())
}

// TimeScheduler schedules callbacks on the Go runtime timer.
type TimeScheduler struct{}

func (TimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

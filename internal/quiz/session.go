// Package quiz runs a timed multiple-choice quiz session: it tracks score and
// combo, counts down each question, advances automatically and emits a
// ScoreRecord when the last question is done.
package quiz

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/codequiz/internal/haptics"
	"github.com/abhisek/codequiz/internal/questiongen"
)

// Session is a quiz session state machine. Its methods are safe to call from
// timer callbacks and the UI concurrently; side effects such as haptics,
// event logging and saving run after the internal lock is released.
type Session struct {
	mu     sync.Mutex
	deps   Deps
	cfg    Config
	logger *slog.Logger

	questions []questiongen.Question
	state     State

	// generation is bumped whenever pending timers become obsolete.
	// Callbacks carry the generation they were armed under.
	generation uint64
	countdown  Timer
	advance    Timer

	effects []func()
}

// NewSession creates a session in the loading phase.
func NewSession(deps Deps, cfg Config) *Session {
	if deps.Haptics == nil {
		deps.Haptics = haptics.Nop{}
	}
	if deps.Scheduler == nil {
		deps.Scheduler = TimeScheduler{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Go == nil {
		deps.Go = func(f func()) { go f() }
	}
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = DefaultConfig().QuestionCount
	}
	if cfg.SaveAttempts <= 0 {
		cfg.SaveAttempts = 1
	}
	return &Session{
		deps:   deps,
		cfg:    cfg,
		logger: slog.Default().With("component", "quiz"),
		state:  State{Phase: PhaseLoading, Selected: NoSelection},
	}
}

// WithLogger sets the logger used for swallowed side-effect failures.
func (s *Session) WithLogger(l *slog.Logger) *Session {
	s.logger = l.With("component", "quiz")
	return s
}

// do runs f under the lock and then runs queued side effects.
func (s *Session) do(f func()) {
	s.mu.Lock()
	f()
	effects := s.effects
	s.effects = nil
	s.mu.Unlock()

	for _, e := range effects {
		e()
	}
}

func (s *Session) effect(f func()) {
	s.effects = append(s.effects, f)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Current != nil {
		q := *st.Current
		st.Current = &q
	}
	if st.Record != nil {
		r := *st.Record
		st.Record = &r
	}
	return st
}

// Start loads count fresh questions and shows the first one. A count of
// zero or less uses Config.QuestionCount.
func (s *Session) Start(count int) {
	s.do(func() { s.startLocked(count) })
}

// Restart cancels pending timers and starts over with a fresh question set
// of the same size.
func (s *Session) Restart() {
	s.do(func() {
		s.startLocked(s.state.Total)
	})
}

func (s *Session) startLocked(count int) {
	if count <= 0 {
		count = s.cfg.QuestionCount
	}
	s.invalidateLocked()

	s.questions = s.deps.Source.GenerateUnique(count)
	s.state = State{
		Phase:     PhaseInProgress,
		SessionID: uuid.NewString(),
		Total:     len(s.questions),
		Selected:  NoSelection,
	}
	if len(s.questions) == 0 {
		s.state.Phase = PhaseLoading
		return
	}
	s.emitEventLocked(ActionStart, NoSelection, false)
	s.showLocked(0)
}

// showLocked displays question i and arms its countdown.
func (s *Session) showLocked(i int) {
	q := s.questions[i]
	s.state.Index = i
	s.state.Current = &q
	s.state.Selected = NoSelection
	s.state.LastCorrect = false
	s.state.Remaining = s.cfg.QuestionTime
	s.state.Phase = PhaseInProgress
	s.armCountdownLocked()
}

// SelectAnswer records the answer for the current question. Calls outside
// the in-progress phase, repeated selections and out-of-range indices are
// ignored.
func (s *Session) SelectAnswer(index int) {
	s.do(func() {
		if s.state.Phase != PhaseInProgress || s.state.Current == nil || s.state.Selected != NoSelection {
			return
		}
		q := s.state.Current
		if index < 0 || index >= len(q.Options) {
			return
		}

		// The countdown must not fire for an answered question.
		s.invalidateLocked()

		correct := q.IsCorrect(index)
		s.state.Selected = index
		s.state.LastCorrect = correct
		if correct {
			s.state.Score++
			s.state.Combo++
			s.state.MaxCombo = max(s.state.MaxCombo, s.state.Combo)
			s.vibrateLocked(haptics.Correct)
		} else {
			s.state.Combo = 0
			s.vibrateLocked(haptics.Wrong)
		}
		s.state.Phase = PhaseAnswered
		s.emitEventLocked(ActionAnswer, index, correct)

		gen := s.generation
		s.advance = s.deps.Scheduler.AfterFunc(s.cfg.AdvanceDelay, func() {
			s.do(func() {
				if gen != s.generation {
					return
				}
				s.advanceLocked()
			})
		})
	})
}

// Timeout ends the current question without an answer and moves on at once.
// It is ignored unless a question is in progress with no selection.
func (s *Session) Timeout() {
	s.do(s.timeoutLocked)
}

func (s *Session) timeoutLocked() {
	if s.state.Phase != PhaseInProgress || s.state.Current == nil || s.state.Selected != NoSelection {
		return
	}
	s.state.Combo = 0
	s.state.Remaining = 0
	s.vibrateLocked(haptics.Timeout)
	s.emitEventLocked(ActionTimeout, NoSelection, false)
	s.advanceLocked()
}

// Advance moves to the next question, or completes the session after the
// last one. It is ignored outside the in-progress and answered phases.
func (s *Session) Advance() {
	s.do(s.advanceLocked)
}

func (s *Session) advanceLocked() {
	if s.state.Phase != PhaseInProgress && s.state.Phase != PhaseAnswered {
		return
	}
	s.invalidateLocked()

	next := s.state.Index + 1
	if next < len(s.questions) {
		s.showLocked(next)
		return
	}
	s.completeLocked()
}

func (s *Session) completeLocked() {
	s.state.Phase = PhaseCompleted
	s.state.Remaining = 0

	rec := ScoreRecord{
		UserID:      s.deps.UserID,
		SessionID:   s.state.SessionID,
		Score:       s.state.Score,
		Total:       s.state.Total,
		MaxCombo:    s.state.MaxCombo,
		Percentage:  Percentage(s.state.Score, s.state.Total),
		CompletedAt: s.deps.Clock().UTC(),
	}
	s.state.Record = &rec
	s.emitEventLocked(ActionEnd, NoSelection, false)

	if s.deps.Scores == nil || s.deps.UserID == "" {
		return
	}
	s.state.Saving = true
	s.effect(func() { s.trySave(rec, 1) })
}

// trySave runs one save attempt off the caller and posts the outcome back
// through the scheduler.
func (s *Session) trySave(rec ScoreRecord, attempt int) {
	s.deps.Go(func() {
		ctx := context.Background()
		if s.cfg.SaveTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.SaveTimeout)
			defer cancel()
		}
		err := s.deps.Scores.Save(ctx, rec.UserID, rec)
		s.deps.Scheduler.AfterFunc(0, func() { s.saveDone(rec, attempt, err) })
	})
}

// saveDone arms the next attempt with linear backoff, or publishes the final
// outcome. Retries outlive Restart and Close so a finished record is still
// stored; only the state update is dropped for a stale session.
func (s *Session) saveDone(rec ScoreRecord, attempt int, err error) {
	if err != nil {
		s.logger.Warn("save score failed", "session", rec.SessionID, "attempt", attempt, "error", err)
		if attempt < s.cfg.SaveAttempts {
			s.deps.Scheduler.AfterFunc(s.cfg.SaveBackoff*time.Duration(attempt), func() {
				s.trySave(rec, attempt+1)
			})
			return
		}
	}
	s.do(func() {
		if s.state.SessionID != rec.SessionID {
			return
		}
		s.state.Saving = false
		s.state.SaveErr = err
	})
}

// Close cancels all timers and returns the session to the loading phase.
func (s *Session) Close() {
	s.do(func() {
		s.invalidateLocked()
		s.questions = nil
		s.state = State{Phase: PhaseLoading, Selected: NoSelection}
	})
}

// invalidateLocked stops pending timers and makes any callback already in
// flight a no-op.
func (s *Session) invalidateLocked() {
	s.generation++
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

func (s *Session) armCountdownLocked() {
	gen := s.generation
	s.countdown = s.deps.Scheduler.AfterFunc(s.cfg.Tick, func() {
		s.do(func() {
			if gen != s.generation || s.state.Phase != PhaseInProgress {
				return
			}
			s.state.Remaining--
			if s.state.Remaining <= 0 {
				s.countdown = nil
				s.timeoutLocked()
				return
			}
			s.armCountdownLocked()
		})
	})
}

func (s *Session) vibrateLocked(p haptics.Pattern) {
	v := s.deps.Haptics
	s.effect(func() { v.Vibrate(p) })
}

func (s *Session) emitEventLocked(action EventAction, selected int, correct bool) {
	if s.deps.Events == nil {
		return
	}
	ev := Event{
		SessionID: s.state.SessionID,
		UserID:    s.deps.UserID,
		Action:    action,
		Selected:  selected,
		Correct:   correct,
		Score:     s.state.Score,
		Combo:     s.state.Combo,
	}
	if s.state.Current != nil {
		ev.QuestionIndex = s.state.Index
		ev.Topic = s.state.Current.Topic
		ev.Prompt = s.state.Current.Prompt
	}
	sink := s.deps.Events
	s.effect(func() {
		if err := sink.AppendQuizEvent(context.Background(), ev); err != nil {
			s.logger.Warn("append quiz event failed", "action", action, "error", err)
		}
	})
}

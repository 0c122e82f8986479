package quiz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/codequiz/internal/haptics"
	"github.com/abhisek/codequiz/internal/questiongen"
)

// fakeScheduler runs callbacks against a virtual clock.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer

	// ignoreStop simulates callbacks that were already queued when Stop
	// was called.
	ignoreStop bool
}

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.ignoreStop {
		return false
	}
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due callbacks in order.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*fakeTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].seq < due[j].seq
		})
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of callbacks still due to fire.
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// stubSource returns numbered questions whose correct answer is option 0.
type stubSource struct {
	calls int
}

func (s *stubSource) GenerateUnique(count int) []questiongen.Question {
	s.calls++
	out := make([]questiongen.Question, count)
	for i := range out {
		out[i] = questiongen.Question{
			ID:      fmt.Sprintf("set%d-q%d", s.calls, i),
			Topic:   "Loops",
			Prompt:  fmt.Sprintf("question %d", i),
			Options: []string{"right", "wrong1", "wrong2", "wrong3"},
			Answer:  0,
		}
	}
	return out
}

type memScores struct {
	mu       sync.Mutex
	records  []ScoreRecord
	calls    int
	failures int // number of leading Save calls that fail
}

func (m *memScores) Save(_ context.Context, _ string, rec ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return errors.New("backend unavailable")
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memScores) ListByUser(_ context.Context, userID string) ([]ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ScoreRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// blockingScores holds every Save until release is closed.
type blockingScores struct {
	release chan struct{}
}

func (b *blockingScores) Save(ctx context.Context, _ string, _ ScoreRecord) error {
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *blockingScores) ListByUser(context.Context, string) ([]ScoreRecord, error) {
	return nil, nil
}

type recordingHaptics struct {
	mu  sync.Mutex
	got []string
}

func (r *recordingHaptics) Vibrate(p haptics.Pattern) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, p.Name)
}

func (r *recordingHaptics) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

type memEvents struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (m *memEvents) AppendQuizEvent(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return m.err
}

func (m *memEvents) actions() []EventAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []EventAction
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

var errTest = errors.New("sink down")

package play

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codequiz/internal/questiongen"
	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/router"
	"github.com/abhisek/codequiz/internal/screen"
)

type pending struct {
	f       func()
	stopped bool
}

func (p *pending) Stop() bool {
	was := !p.stopped
	p.stopped = true
	return was
}

// manualScheduler collects callbacks; fireAll runs the ones still armed.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*pending
}

func (m *manualScheduler) AfterFunc(_ time.Duration, f func()) quiz.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &pending{f: f}
	m.pending = append(m.pending, p)
	return p
}

func (m *manualScheduler) fireAll() {
	m.mu.Lock()
	ps := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, p := range ps {
		if !p.stopped {
			p.stopped = true
			p.f()
		}
	}
}

type source struct{ n int }

func (s *source) GenerateUnique(count int) []questiongen.Question {
	s.n++
	out := make([]questiongen.Question, count)
	for i := range out {
		out[i] = questiongen.Question{
			ID:      fmt.Sprintf("set%d-q%d", s.n, i),
			Topic:   "Loops",
			Prompt:  fmt.Sprintf("Question %d?", i+1),
			Options: []string{"right", "wrong a", "wrong b", "wrong c"},
			Answer:  0,
			Hint:    "the first one",
		}
	}
	return out
}

type memScores struct {
	mu   sync.Mutex
	recs []quiz.ScoreRecord
}

func (m *memScores) Save(_ context.Context, _ string, r quiz.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, r)
	return nil
}

func (m *memScores) ListByUser(context.Context, string) ([]quiz.ScoreRecord, error) {
	return m.recs, nil
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func special(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

type stubScreen struct{ screen.Screen }

func newScreen(t *testing.T, user string) (*Screen, *manualScheduler, *memScores) {
	t.Helper()
	sched := &manualScheduler{}
	scores := &memScores{}
	cfg := quiz.DefaultConfig()
	cfg.QuestionCount = 2
	env := screen.Env{
		Questions: &source{},
		Scores:    scores,
		Scheduler: sched,
		Quiz:      cfg,
		User:      user,
	}
	s := New(env, func() screen.Screen { return stubScreen{} })
	s.Init()
	t.Cleanup(s.Close)
	return s, sched, scores
}

// waitSaved fires scheduled callbacks until the background save reports back.
func waitSaved(t *testing.T, s *Screen, sched *manualScheduler) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for s.Session().Snapshot().Saving {
		if time.Now().After(deadline) {
			t.Fatal("save did not finish")
		}
		sched.fireAll()
		time.Sleep(time.Millisecond)
	}
}

func TestPlay_AnswerByNumber(t *testing.T) {
	s, _, _ := newScreen(t, "ada")
	s.Update(key('1'))

	st := s.Session().Snapshot()
	if st.Phase != quiz.PhaseAnswered || !st.LastCorrect || st.Score != 1 {
		t.Fatalf("state = %+v", st)
	}
	if !strings.Contains(s.View(100, 40), "Correct!") {
		t.Fatal("expected correct feedback")
	}
}

func TestPlay_CursorAndEnter(t *testing.T) {
	s, _, _ := newScreen(t, "ada")
	s.Update(special(tea.KeyDown))
	s.Update(special(tea.KeyDown))
	s.Update(special(tea.KeyUp))
	s.Update(special(tea.KeyEnter))

	st := s.Session().Snapshot()
	if st.Selected != 1 || st.LastCorrect {
		t.Fatalf("selected=%d correct=%v", st.Selected, st.LastCorrect)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "The answer is: right") || !strings.Contains(view, "the first one") {
		t.Fatal("expected wrong-answer feedback with hint")
	}
}

func TestPlay_EnterWaitsForAdvanceDelay(t *testing.T) {
	s, sched, _ := newScreen(t, "ada")
	s.Update(key('1'))
	s.Update(special(tea.KeyEnter))
	s.Update(key(' '))
	if st := s.Session().Snapshot(); st.Index != 0 || st.Phase != quiz.PhaseAnswered {
		t.Fatalf("answered question advanced early: %+v", st)
	}

	sched.fireAll()
	if st := s.Session().Snapshot(); st.Index != 1 || st.Phase != quiz.PhaseInProgress {
		t.Fatalf("advance delay did not move on: %+v", st)
	}
}

func TestPlay_IgnoresOutOfRangeAndRepeat(t *testing.T) {
	s, _, _ := newScreen(t, "ada")
	s.Update(key('9'))
	if s.Session().Snapshot().Phase != quiz.PhaseInProgress {
		t.Fatal("unknown key should not answer")
	}
	s.Update(key('2'))
	s.Update(key('1'))
	if st := s.Session().Snapshot(); st.Selected != 1 || st.Score != 0 {
		t.Fatalf("second answer should be ignored: %+v", st)
	}
}

func TestPlay_HintToggle(t *testing.T) {
	s, _, _ := newScreen(t, "ada")
	if strings.Contains(s.View(100, 40), "the first one") {
		t.Fatal("hint shown before toggle")
	}
	s.Update(key('?'))
	if !strings.Contains(s.View(100, 40), "the first one") {
		t.Fatal("hint not shown after toggle")
	}
}

func TestPlay_FullRunSavesAndOffersHistory(t *testing.T) {
	s, sched, scores := newScreen(t, "ada")

	s.Update(key('1'))
	sched.fireAll()
	if st := s.Session().Snapshot(); st.Index != 1 || st.Phase != quiz.PhaseInProgress {
		t.Fatalf("state = %+v", st)
	}
	s.Update(key('1'))
	sched.fireAll() // advance delay completes the quiz
	waitSaved(t, s, sched)

	st := s.Session().Snapshot()
	if st.Phase != quiz.PhaseCompleted || st.Record == nil || st.Record.Percentage != 100 {
		t.Fatalf("state = %+v", st)
	}
	if len(scores.recs) != 1 {
		t.Fatalf("saved %d records", len(scores.recs))
	}
	view := s.View(100, 40)
	for _, want := range []string{"Quiz complete!", "2/2", "100%", "Max combo: 2x", "Score saved"} {
		if !strings.Contains(view, want) {
			t.Errorf("results missing %q", want)
		}
	}

	_, cmd := s.Update(key('h'))
	if cmd == nil {
		t.Fatal("expected history navigation")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
}

func TestPlay_NewQuizAfterCompletion(t *testing.T) {
	s, sched, _ := newScreen(t, "")
	for range 2 {
		s.Update(key('2'))
		sched.fireAll()
	}
	first := s.Session().Snapshot()
	if first.Phase != quiz.PhaseCompleted {
		t.Fatalf("phase = %v", first.Phase)
	}
	if !strings.Contains(s.View(100, 40), "guest") {
		t.Fatal("guest run should say the score is not saved")
	}

	s.Update(key('n'))
	st := s.Session().Snapshot()
	if st.Phase != quiz.PhaseInProgress || st.SessionID == first.SessionID || st.Score != 0 {
		t.Fatalf("restart state = %+v", st)
	}
}

func TestPlay_CountdownTimesOut(t *testing.T) {
	s, sched, _ := newScreen(t, "ada")
	for range quiz.DefaultConfig().QuestionTime {
		sched.fireAll()
	}
	st := s.Session().Snapshot()
	if st.Index != 1 || st.Phase != quiz.PhaseInProgress || st.Remaining != quiz.DefaultConfig().QuestionTime {
		t.Fatalf("state after timeout = %+v", st)
	}
}

func TestPlay_CloseStopsTimers(t *testing.T) {
	s, sched, _ := newScreen(t, "ada")
	s.Close()
	sched.fireAll()
	if st := s.Session().Snapshot(); st.Phase != quiz.PhaseLoading {
		t.Fatalf("phase = %v", st.Phase)
	}
}

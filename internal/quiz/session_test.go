package quiz

import (
	"slices"
	"testing"
	"time"
)

type harness struct {
	s       *Session
	sched   *fakeScheduler
	source  *stubSource
	scores  *memScores
	haptics *recordingHaptics
	events  *memEvents
}

func testConfig() Config {
	return DefaultConfig()
}

func newHarness(userID string) *harness {
	h := &harness{
		sched:   &fakeScheduler{},
		source:  &stubSource{},
		scores:  &memScores{},
		haptics: &recordingHaptics{},
		events:  &memEvents{},
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.s = NewSession(Deps{
		Source:    h.source,
		Scores:    h.scores,
		Haptics:   h.haptics,
		Scheduler: h.sched,
		Events:    h.events,
		UserID:    userID,
		Clock:     func() time.Time { return fixed },
		Go:        func(f func()) { f() },
	}, testConfig())
	return h
}

func TestNewSession_Loading(t *testing.T) {
	h := newHarness("ana")
	st := h.s.Snapshot()
	if st.Phase != PhaseLoading || st.Current != nil || st.Selected != NoSelection {
		t.Errorf("unexpected initial state: %+v", st)
	}
}

func TestStart(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(3)
	st := h.s.Snapshot()
	if st.Phase != PhaseInProgress {
		t.Fatalf("phase = %s, want in-progress", st.Phase)
	}
	if st.Total != 3 || st.Index != 0 || st.Remaining != 15 {
		t.Errorf("total=%d index=%d remaining=%d", st.Total, st.Index, st.Remaining)
	}
	if st.Current == nil || st.Current.Prompt != "question 0" {
		t.Errorf("current = %+v", st.Current)
	}
	if st.SessionID == "" {
		t.Error("empty session id")
	}
}

func TestStart_DefaultCount(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(0)
	if got := h.s.Snapshot().Total; got != 10 {
		t.Errorf("total = %d, want 10", got)
	}
}

func TestCountdown_Decrements(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(2)
	h.sched.Advance(5 * time.Second)
	if got := h.s.Snapshot().Remaining; got != 10 {
		t.Errorf("remaining = %d, want 10", got)
	}
}

func TestSelectAnswer_Correct(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(3)
	h.s.SelectAnswer(0)

	st := h.s.Snapshot()
	if st.Phase != PhaseAnswered || !st.LastCorrect || st.Selected != 0 {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.Score != 1 || st.Combo != 1 || st.MaxCombo != 1 {
		t.Errorf("score=%d combo=%d max=%d", st.Score, st.Combo, st.MaxCombo)
	}
	if got := h.haptics.names(); !slices.Equal(got, []string{"correct"}) {
		t.Errorf("haptics = %v", got)
	}
}

func TestSelectAnswer_Wrong(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(3)
	h.s.SelectAnswer(0)
	h.sched.Advance(1500 * time.Millisecond)
	h.s.SelectAnswer(2)

	st := h.s.Snapshot()
	if st.LastCorrect || st.Score != 1 || st.Combo != 0 || st.MaxCombo != 1 {
		t.Errorf("score=%d combo=%d max=%d correct=%v", st.Score, st.Combo, st.MaxCombo, st.LastCorrect)
	}
	if got := h.haptics.names(); !slices.Equal(got, []string{"correct", "wrong"}) {
		t.Errorf("haptics = %v", got)
	}
}

func TestSelectAnswer_AdvancesAfterDelay(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(3)
	h.sched.Advance(3 * time.Second)
	h.s.SelectAnswer(1)

	h.sched.Advance(1499 * time.Millisecond)
	st := h.s.Snapshot()
	if st.Phase != PhaseAnswered || st.Index != 0 {
		t.Fatalf("advanced too early: phase=%s index=%d", st.Phase, st.Index)
	}
	if st.Remaining != 12 {
		t.Errorf("countdown kept running after answer: remaining=%d", st.Remaining)
	}

	h.sched.Advance(time.Millisecond)
	st = h.s.Snapshot()
	if st.Phase != PhaseInProgress || st.Index != 1 || st.Remaining != 15 || st.Selected != NoSelection {
		t.Errorf("after delay: %+v", st)
	}
}

func TestSelectAnswer_Ignored(t *testing.T) {
	h := newHarness("ana")
	h.s.SelectAnswer(0)
	if h.s.Snapshot().Phase != PhaseLoading {
		t.Fatal("select during loading changed phase")
	}

	h.s.Start(3)
	h.s.SelectAnswer(-1)
	h.s.SelectAnswer(4)
	if st := h.s.Snapshot(); st.Phase != PhaseInProgress || st.Selected != NoSelection {
		t.Fatalf("out-of-range select changed state: %+v", st)
	}

	h.s.SelectAnswer(0)
	h.s.SelectAnswer(0)
	h.s.SelectAnswer(1)
	st := h.s.Snapshot()
	if st.Score != 1 || st.Selected != 0 {
		t.Errorf("duplicate select counted: score=%d selected=%d", st.Score, st.Selected)
	}
	if n := len(h.haptics.names()); n != 1 {
		t.Errorf("got %d haptic events, want 1", n)
	}
}

func TestTimeout_AdvancesImmediately(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(3)
	h.s.SelectAnswer(0)
	h.sched.Advance(1500 * time.Millisecond)

	h.sched.Advance(15 * time.Second)
	st := h.s.Snapshot()
	if st.Index != 2 || st.Phase != PhaseInProgress || st.Remaining != 15 {
		t.Fatalf("after timeout: index=%d phase=%s remaining=%d", st.Index, st.Phase, st.Remaining)
	}
	if st.Score != 1 || st.Combo != 0 || st.MaxCombo != 1 {
		t.Errorf("score=%d combo=%d max=%d", st.Score, st.Combo, st.MaxCombo)
	}
	if got := h.haptics.names(); !slices.Equal(got, []string{"correct", "timeout"}) {
		t.Errorf("haptics = %v", got)
	}
}

func TestTimeout_IgnoredAfterAnswer(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(3)
	h.s.SelectAnswer(0)
	h.s.Timeout()
	st := h.s.Snapshot()
	if st.Phase != PhaseAnswered || st.Combo != 1 {
		t.Errorf("timeout after answer changed state: %+v", st)
	}
}

func TestMaxCombo(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(5)
	for _, pick := range []int{0, 0, 3, 0} {
		h.s.SelectAnswer(pick)
		h.sched.Advance(1500 * time.Millisecond)
	}
	st := h.s.Snapshot()
	if st.Score != 3 || st.Combo != 1 || st.MaxCombo != 2 {
		t.Errorf("score=%d combo=%d max=%d, want 3/1/2", st.Score, st.Combo, st.MaxCombo)
	}
}

func TestCompletion_EmitsOneRecord(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(3)
	h.s.SelectAnswer(0)
	h.sched.Advance(1500 * time.Millisecond)
	h.s.SelectAnswer(1)
	h.sched.Advance(1500 * time.Millisecond)
	h.sched.Advance(15 * time.Second)

	st := h.s.Snapshot()
	if st.Phase != PhaseCompleted {
		t.Fatalf("phase = %s, want completed", st.Phase)
	}
	if st.Record == nil {
		t.Fatal("no record")
	}
	want := ScoreRecord{
		UserID:      "ana",
		SessionID:   st.SessionID,
		Score:       1,
		Total:       3,
		MaxCombo:    1,
		Percentage:  33,
		CompletedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if *st.Record != want {
		t.Errorf("record = %+v, want %+v", *st.Record, want)
	}
	if st.Saving || st.SaveErr != nil {
		t.Errorf("saving=%v err=%v", st.Saving, st.SaveErr)
	}

	h.s.Advance()
	h.s.Timeout()
	h.sched.Advance(time.Minute)
	if len(h.scores.records) != 1 {
		t.Errorf("saved %d records, want 1", len(h.scores.records))
	}
	if h.sched.Pending() != 0 {
		t.Errorf("%d timers pending after completion", h.sched.Pending())
	}
}

func TestAdvance_SkipsFromInProgress(t *testing.T) {
	h := newHarness("ana")
	h.s.Start(2)
	h.s.Advance()
	if st := h.s.Snapshot(); st.Index != 1 || st.Score != 0 {
		t.Errorf("index=%d score=%d", st.Index, st.Score)
	}
	h.s.Advance()
	if st := h.s.Snapshot(); st.Phase != PhaseCompleted || st.Record.Percentage != 0 {
		t.Errorf("phase=%s", st.Phase)
	}
}

func TestRestart_SuppressesStaleTimers(t *testing.T) {
	h := newHarness("ana")
	h.sched.ignoreStop = true
	h.s.Start(3)
	h.sched.Advance(500 * time.Millisecond)
	h.s.SelectAnswer(0)
	first := h.s.Snapshot().SessionID

	h.s.Restart()
	h.sched.Advance(2 * time.Second)
	st := h.s.Snapshot()
	if st.SessionID == first {
		t.Fatal("restart kept the session id")
	}
	if st.Index != 0 || st.Phase != PhaseInProgress {
		t.Errorf("stale advance fired: index=%d phase=%s", st.Index, st.Phase)
	}
	if st.Remaining != 13 {
		t.Errorf("remaining = %d, want 13", st.Remaining)
	}
	if st.Score != 0 || st.Combo != 0 || st.MaxCombo != 0 {
		t.Errorf("counters not reset: %+v", st)
	}
	if h.source.calls != 2 {
		t.Errorf("source called %d times, want 2", h.source.calls)
	}
	if st.Current.ID != "set2-q0" {
		t.Errorf("current = %q, want a question from the fresh set", st.Current.ID)
	}
}

func TestClose_StopsEverything(t *testing.T) {
	h := newHarness("ana")
	h.sched.ignoreStop = true
	h.s.Start(3)
	h.s.SelectAnswer(0)
	h.s.Close()
	h.sched.Advance(time.Minute)

	st := h.s.Snapshot()
	if st.Phase != PhaseLoading || st.Current != nil {
		t.Errorf("state after close: %+v", st)
	}
	if len(h.scores.records) != 0 {
		t.Error("closed session saved a record")
	}
}

func TestSaveFailure_SetsSaveErr(t *testing.T) {
	h := newHarness("ana")
	h.scores.failures = 10
	h.s.Start(1)
	h.s.SelectAnswer(0)
	h.sched.Advance(1500 * time.Millisecond)

	st := h.s.Snapshot()
	if st.Phase != PhaseCompleted || !st.Saving || st.SaveErr != nil {
		t.Fatalf("expected a pending save after the first failure: %+v", st)
	}

	// Retries wait 250ms then 500ms.
	h.sched.Advance(750 * time.Millisecond)

	st = h.s.Snapshot()
	if st.Phase != PhaseCompleted || st.Score != 1 {
		t.Fatalf("state changed by save failure: %+v", st)
	}
	if st.Saving || st.SaveErr == nil {
		t.Fatalf("saving=%v err=%v, want a final error", st.Saving, st.SaveErr)
	}
	if h.scores.calls != 3 {
		t.Errorf("save attempted %d times, want 3", h.scores.calls)
	}
}

func TestSaveRetry_Recovers(t *testing.T) {
	h := newHarness("ana")
	h.scores.failures = 1
	h.s.Start(1)
	h.s.Advance()
	h.sched.Advance(250 * time.Millisecond)

	st := h.s.Snapshot()
	if st.Saving || st.SaveErr != nil {
		t.Errorf("saving=%v err=%v, want done", st.Saving, st.SaveErr)
	}
	if len(h.scores.records) != 1 || h.scores.calls != 2 {
		t.Errorf("records=%d calls=%d", len(h.scores.records), h.scores.calls)
	}
}

func TestSave_DoesNotBlockCaller(t *testing.T) {
	h := newHarness("ana")
	h.scores.failures = 10
	h.s.Start(1)

	start := time.Now()
	h.s.Advance()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Advance blocked for %s", elapsed)
	}
	st := h.s.Snapshot()
	if st.Phase != PhaseCompleted || !st.Saving || st.SaveErr != nil {
		t.Fatalf("saving=%v err=%v, want a save in flight", st.Saving, st.SaveErr)
	}

	h.sched.Advance(time.Second)
	st = h.s.Snapshot()
	if st.Saving || st.SaveErr == nil {
		t.Errorf("saving=%v err=%v, want a final error", st.Saving, st.SaveErr)
	}
	if h.scores.calls != 3 {
		t.Errorf("save attempted %d times, want 3", h.scores.calls)
	}
}

func TestSave_RunsOffCallerGoroutine(t *testing.T) {
	sched := &fakeScheduler{}
	release := make(chan struct{})
	scores := &blockingScores{release: release}
	s := NewSession(Deps{Source: &stubSource{}, Scores: scores, Scheduler: sched, UserID: "ana"}, testConfig())
	s.Start(1)

	done := make(chan struct{})
	go func() {
		s.Advance()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Advance waited for the score backend")
	}
	if !s.Snapshot().Saving {
		t.Fatal("expected a save in flight")
	}

	close(release)
	deadline := time.Now().Add(time.Second)
	for s.Snapshot().Saving {
		if time.Now().After(deadline) {
			t.Fatal("save result never delivered")
		}
		sched.Advance(0)
		time.Sleep(time.Millisecond)
	}
	if st := s.Snapshot(); st.SaveErr != nil {
		t.Errorf("SaveErr = %v", st.SaveErr)
	}
}

func TestSave_StaleResultIgnoredAfterRestart(t *testing.T) {
	h := newHarness("ana")
	h.scores.failures = 10
	h.s.Start(1)
	h.s.Advance()
	h.s.Restart()
	h.sched.Advance(time.Second)

	st := h.s.Snapshot()
	if st.Phase != PhaseInProgress || st.Saving || st.SaveErr != nil {
		t.Errorf("old save leaked into the new session: %+v", st)
	}
	if h.scores.calls != 3 {
		t.Errorf("save attempted %d times, want 3", h.scores.calls)
	}
}

func TestGuest_NotSaved(t *testing.T) {
	h := newHarness("")
	h.s.Start(1)
	h.s.Advance()
	if st := h.s.Snapshot(); st.Record == nil || st.Saving {
		t.Errorf("record=%v saving=%v", st.Record, st.Saving)
	}
	if h.scores.calls != 0 {
		t.Errorf("guest record saved")
	}
}

func TestEvents(t *testing.T) {
	h := newHarness("ana")
	h.events.err = errTest
	h.s.Start(2)
	h.s.SelectAnswer(0)
	h.sched.Advance(1500 * time.Millisecond)
	h.sched.Advance(15 * time.Second)

	want := []EventAction{ActionStart, ActionAnswer, ActionTimeout, ActionEnd}
	if got := h.events.actions(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	ans := h.events.events[1]
	if !ans.Correct || ans.Selected != 0 || ans.Score != 1 || ans.Topic != "Loops" || ans.UserID != "ana" {
		t.Errorf("answer event = %+v", ans)
	}
	if st := h.s.Snapshot(); st.Phase != PhaseCompleted {
		t.Error("event sink failure affected the session")
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 10, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{5, 10, 50},
		{10, 10, 100},
		{1, 200, 1},
	}
	for _, tt := range tests {
		if got := Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseAnswered.String() != "answered" || Phase(42).String() != "unknown" {
		t.Error("unexpected phase strings")
	}
}

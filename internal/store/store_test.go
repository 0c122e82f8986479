package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/codequiz/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestOpenFile instead.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codequiz.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codequiz.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Users().Create(ctx, "ana", "secret"); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Users().Get(ctx, "ana"); err != nil {
		t.Errorf("user lost across reopen: %v", err)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{usersTable, scoresTable, quizEventsTable, llmEventsTable, sequenceTable} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	want := filepath.Join(t.TempDir(), "sub", "x.db")
	t.Setenv(EnvDBPath, want)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Dir(want)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDBPath, "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "codequiz", "codequiz.db"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func record(session string, score, total int, at time.Time) quiz.ScoreRecord {
	return quiz.ScoreRecord{
		SessionID:   session,
		Score:       score,
		Total:       total,
		MaxCombo:    score,
		Percentage:  quiz.Percentage(score, total),
		CompletedAt: at,
	}
}

func TestScores_SaveAndListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.Scores()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, sess := range []string{"s1", "s2", "s3"} {
		if err := repo.Save(ctx, "ana", record(sess, i+1, 10, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save %s: %v", sess, err)
		}
	}
	if err := repo.Save(ctx, "bob", record("s4", 5, 10, base)); err != nil {
		t.Fatalf("save bob: %v", err)
	}

	got, err := repo.ListByUser(ctx, "ana")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for i, want := range []string{"s3", "s2", "s1"} {
		if got[i].SessionID != want {
			t.Errorf("record %d = %s, want %s", i, got[i].SessionID, want)
		}
	}
	if got[0].UserID != "ana" || got[0].Score != 3 || got[0].Percentage != 30 {
		t.Errorf("unexpected record: %+v", got[0])
	}
	if !got[0].CompletedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("completed_at = %s", got[0].CompletedAt)
	}
}

func TestScores_SaveIsIdempotentPerSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.Scores()
	ctx := context.Background()
	rec := record("dup", 1, 2, time.Now())

	for range 2 {
		if err := repo.Save(ctx, "ana", rec); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	got, _ := repo.ListByUser(ctx, "ana")
	if len(got) != 1 {
		t.Errorf("got %d records, want 1", len(got))
	}
}

func TestScores_EmptyUser(t *testing.T) {
	s := openTestStore(t)
	if err := s.Scores().Save(context.Background(), "", record("x", 0, 1, time.Now())); err == nil {
		t.Error("expected error for empty user")
	}
	got, err := s.Scores().ListByUser(context.Background(), "nobody")
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	s := openTestStore(t)
	users := s.Users()
	ctx := context.Background()

	u, err := users.Create(ctx, "  ana ", "secret")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Username != "ana" {
		t.Errorf("username = %q, want trimmed", u.Username)
	}
	if u.PasswordHash == "secret" || u.PasswordHash == "" {
		t.Error("password stored in clear")
	}

	if _, err := users.Create(ctx, "ana", "other1"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate create: got %v, want ErrUserExists", err)
	}
	if _, err := users.Create(ctx, "bob", "abc"); err == nil {
		t.Error("short password accepted")
	}

	if _, err := users.Authenticate(ctx, "ana", "secret"); err != nil {
		t.Errorf("authenticate: %v", err)
	}
	if _, err := users.Authenticate(ctx, "ana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := users.Authenticate(ctx, "ghost", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestUsers_ListAndAvatar(t *testing.T) {
	s := openTestStore(t)
	users := s.Users()
	ctx := context.Background()

	for _, name := range []string{"zoe", "ana"} {
		if _, err := users.Create(ctx, name, "secret"); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if err := users.SetAvatar(ctx, "zoe", "🦊"); err != nil {
		t.Fatalf("set avatar: %v", err)
	}
	if err := users.SetAvatar(ctx, "ghost", "🦊"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("avatar for missing user: got %v", err)
	}

	list, err := users.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Username != "ana" || list[1].Avatar != "🦊" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestUsers_RenameMovesHistory(t *testing.T) {
	s := openTestStore(t)
	users := s.Users()
	ctx := context.Background()

	for _, name := range []string{"ana", "bob"} {
		if _, err := users.Create(ctx, name, "secret"); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if err := s.Scores().Save(ctx, "ana", record("s1", 2, 2, time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := users.Rename(ctx, "ana", "bob"); !errors.Is(err, ErrUserExists) {
		t.Errorf("rename onto existing: got %v", err)
	}
	if err := users.Rename(ctx, "ghost", "casper"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("rename missing: got %v", err)
	}
	if err := users.Rename(ctx, "ana", "anna"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if _, err := users.Get(ctx, "ana"); !errors.Is(err, ErrUserNotFound) {
		t.Error("old name still present")
	}
	if _, err := users.Authenticate(ctx, "anna", "secret"); err != nil {
		t.Errorf("login with new name: %v", err)
	}
	got, _ := s.Scores().ListByUser(ctx, "anna")
	if len(got) != 1 || got[0].UserID != "anna" {
		t.Errorf("history not moved: %+v", got)
	}
}

func TestUsers_DeleteRemovesHistory(t *testing.T) {
	s := openTestStore(t)
	users := s.Users()
	ctx := context.Background()

	if _, err := users.Create(ctx, "ana", "secret"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Scores().Save(ctx, "ana", record("s1", 1, 2, time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := users.Delete(ctx, "ana"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := users.Delete(ctx, "ana"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete: got %v", err)
	}
	got, _ := s.Scores().ListByUser(ctx, "ana")
	if len(got) != 0 {
		t.Errorf("history kept after delete: %d records", len(got))
	}
}

func TestEvents_QuizAndLLMShareSequence(t *testing.T) {
	s := openTestStore(t)
	events := s.Events()
	ctx := context.Background()

	err := events.AppendQuizEvent(ctx, quiz.Event{SessionID: "s1", UserID: "ana", Action: quiz.ActionStart, Selected: quiz.NoSelection})
	if err != nil {
		t.Fatalf("append quiz: %v", err)
	}
	err = events.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "anthropic", Model: "m", Purpose: "catalog-draft", InputTokens: 10, Success: true})
	if err != nil {
		t.Fatalf("append llm: %v", err)
	}
	err = events.AppendQuizEvent(ctx, quiz.Event{SessionID: "s1", UserID: "ana", Action: quiz.ActionAnswer, Topic: "Loops", Selected: 2, Correct: true, Score: 1, Combo: 1})
	if err != nil {
		t.Fatalf("append quiz: %v", err)
	}

	qs, err := events.QueryQuizEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query quiz: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d quiz events, want 2", len(qs))
	}
	if qs[0].Sequence != 3 || qs[1].Sequence != 1 {
		t.Errorf("sequences = %d,%d, want 3,1", qs[0].Sequence, qs[1].Sequence)
	}
	if qs[0].Action != quiz.ActionAnswer || !qs[0].Correct || qs[0].Selected != 2 || qs[0].Topic != "Loops" {
		t.Errorf("unexpected event: %+v", qs[0])
	}
	if qs[1].Selected != quiz.NoSelection {
		t.Errorf("selected = %d, want %d", qs[1].Selected, quiz.NoSelection)
	}

	ls, err := events.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query llm: %v", err)
	}
	if len(ls) != 1 || ls[0].Sequence != 2 || ls[0].Provider != "anthropic" || !ls[0].Success {
		t.Errorf("unexpected llm events: %+v", ls)
	}
}

func TestEvents_QueryOpts(t *testing.T) {
	s := openTestStore(t)
	events := s.Events()
	ctx := context.Background()

	for i := range 5 {
		if err := events.AppendQuizEvent(ctx, quiz.Event{SessionID: "s", Action: quiz.ActionAnswer, QuestionIndex: i}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := events.QueryQuizEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].QuestionIndex != 4 {
		t.Errorf("limit: got %d events, first index %d", len(got), got[0].QuestionIndex)
	}

	got, _ = events.QueryQuizEvents(ctx, QueryOpts{After: 1, Before: 5})
	if len(got) != 3 {
		t.Errorf("after/before: got %d events, want 3", len(got))
	}

	got, _ = events.QueryQuizEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if len(got) != 0 {
		t.Errorf("from future: got %d events, want 0", len(got))
	}
}

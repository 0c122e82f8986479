// Package play is the quiz screen. It drives a quiz.Session and renders
// its snapshots.
package play

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/router"
	"github.com/abhisek/codequiz/internal/screen"
	"github.com/abhisek/codequiz/internal/ui/layout"
)

// HistoryOpener builds the history screen for the signed in player. It is
// injected to keep the screen packages free of import cycles.
type HistoryOpener func() screen.Screen

// Screen plays one quiz session at a time.
type Screen struct {
	env     screen.Env
	session *quiz.Session
	history HistoryOpener

	// cursor belongs to the question cursorID; a new question resets it.
	cursor   int
	cursorID string
	showHint bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.Closer          = (*Screen)(nil)
)

// New creates the quiz screen. history may be nil for guests.
func New(env screen.Env, history HistoryOpener) *Screen {
	deps := quiz.Deps{
		Source:    env.Questions,
		Scores:    env.Scores,
		Haptics:   env.Haptics,
		Scheduler: env.Scheduler,
		Events:    env.Events,
		UserID:    env.User,
	}
	s := quiz.NewSession(deps, env.Quiz)
	if env.Logger != nil {
		s.WithLogger(env.Logger)
	}
	return &Screen{env: env, session: s, history: history}
}

// Session exposes the underlying session.
func (s *Screen) Session() *quiz.Session { return s.session }

func (s *Screen) Init() tea.Cmd {
	s.session.Start(0)
	return nil
}

func (s *Screen) Title() string { return "Quiz" }

// Close stops the session timers when the screen leaves the stack.
func (s *Screen) Close() { s.session.Close() }

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.session.Snapshot().Phase {
	case quiz.PhaseInProgress:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Pick"},
			{Key: "?", Description: "Hint"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case quiz.PhaseAnswered:
		return []layout.KeyHint{{Key: "Esc", Description: "Quit quiz"}}
	case quiz.PhaseCompleted:
		hints := []layout.KeyHint{{Key: "N", Description: "New quiz"}}
		if s.history != nil {
			hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	st := s.session.Snapshot()
	key := kmsg.String()

	switch st.Phase {
	case quiz.PhaseInProgress:
		s.syncCursor(st)
		switch key {
		case "1", "2", "3", "4":
			s.session.SelectAnswer(int(key[0] - '1'))
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = min(s.cursor+1, len(st.Current.Options)-1)
		case "enter", "space":
			s.session.SelectAnswer(s.cursor)
		case "?":
			s.showHint = !s.showHint
		}
	case quiz.PhaseCompleted:
		switch key {
		case "n":
			s.showHint = false
			s.session.Restart()
		case "h":
			if s.history != nil {
				return s, router.Replace(s.history())
			}
		}
	}
	return s, nil
}

func (s *Screen) syncCursor(st quiz.State) {
	if st.Current != nil && st.Current.ID != s.cursorID {
		s.cursorID = st.Current.ID
		s.cursor = 0
		s.showHint = false
	}
}

func (s *Screen) View(width, height int) string {
	st := s.session.Snapshot()
	switch {
	case st.Phase == quiz.PhaseCompleted:
		return renderResults(st, s.history != nil, width, height)
	case st.Current == nil:
		return renderLoading(width, height)
	}

	cursor, hint := s.cursor, s.showHint
	if st.Current.ID != s.cursorID {
		cursor, hint = 0, false
	}
	return renderQuestion(st, s.env.Quiz.QuestionTime, cursor, hint, width, height)
}

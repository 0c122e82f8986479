// Package home is the main menu shown after signing in.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/router"
	"github.com/abhisek/codequiz/internal/screen"
	"github.com/abhisek/codequiz/internal/screens/history"
	"github.com/abhisek/codequiz/internal/screens/play"
	"github.com/abhisek/codequiz/internal/ui/components"
	"github.com/abhisek/codequiz/internal/ui/theme"
)

type statsMsg struct {
	summary history.Summary
	latest  int
	err     error
}

// StartQuizMsg opens a quiz as if START QUIZ was picked.
type StartQuizMsg struct{}

// Screen is the home menu.
type Screen struct {
	env     screen.Env
	menu    components.Menu
	summary history.Summary
	mood    Mood
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the home menu for env.User. History is disabled for guests.
func New(env screen.Env) *Screen {
	h := &Screen{env: env, mood: moodFor(env.User, 0, false)}
	guest := env.User == "" || env.Scores == nil

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "▶ START QUIZ", Action: h.startQuiz},
		{Label: "📊 HISTORY", Disabled: guest, Action: func() tea.Cmd {
			return router.Push(history.New(h.env.Scores, h.env.User))
		}},
		{Label: "↩ SIGN OUT", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.SignedOutMsg{} }
		}},
		{Label: "✕ EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *Screen) startQuiz() tea.Cmd {
	return router.Push(play.New(h.env, h.historyOpener()))
}

func (h *Screen) historyOpener() play.HistoryOpener {
	if h.env.User == "" || h.env.Scores == nil {
		return nil
	}
	return func() screen.Screen { return history.New(h.env.Scores, h.env.User) }
}

// Init loads the stats shown above the menu.
func (h *Screen) Init() tea.Cmd {
	if h.env.User == "" || h.env.Scores == nil {
		return nil
	}
	scores, user := h.env.Scores, h.env.User
	return func() tea.Msg {
		recs, err := scores.ListByUser(context.Background(), user)
		if err != nil {
			return statsMsg{err: err}
		}
		msg := statsMsg{summary: history.Summarize(recs)}
		if len(recs) > 0 {
			msg.latest = recs[0].Percentage
		}
		return msg
	}
}

func (h *Screen) Title() string { return "Home" }

func (h *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(StartQuizMsg); ok {
		return h, h.startQuiz()
	}
	if m, ok := msg.(statsMsg); ok {
		if m.err != nil {
			h.errMsg = m.err.Error()
			return h, nil
		}
		h.summary = m.summary
		h.mood = moodFor(h.env.User, m.latest, m.summary.Games > 0)
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	greeting := "Welcome, guest!"
	if h.env.User != "" {
		greeting = fmt.Sprintf("Welcome back, %s!", h.env.User)
	}

	sections := []string{
		theme.Title.Render("💻 Code Quiz") + "\n" + theme.Subtitle.Render(greeting),
	}
	if height >= 28 {
		sections = append(sections, renderMascot(h.mood))
	}
	sections = append(sections,
		components.Card(h.statsLine(), cw),
		components.HighlightCard(strings.TrimRight(h.menu.View(), "\n"), cw),
	)
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return components.Centered(content, width, height)
}

func (h *Screen) statsLine() string {
	topics := 0
	questions := 0
	if h.env.Catalog != nil {
		topics = len(h.env.Catalog.Topics)
		questions = h.env.Catalog.Size()
	}
	bank := theme.Label.Render("Topics ") + theme.Stat.Render(fmt.Sprint(topics)) + "   " +
		theme.Label.Render("Questions ") + theme.Stat.Render(fmt.Sprint(questions)) + "   " +
		theme.Label.Render("Per quiz ") + theme.Stat.Render(fmt.Sprint(h.questionCount()))

	switch {
	case h.errMsg != "":
		return bank + "\n" + theme.ErrorText.Render("Could not load scores: "+h.errMsg)
	case h.env.User == "":
		return bank + "\n" + theme.Hint.Render("Guest scores are not saved")
	case h.summary.Games == 0:
		return bank + "\n" + theme.Hint.Render("No games yet, start your first quiz!")
	}
	return bank + "\n" +
		theme.Label.Render("Games ") + theme.Stat.Render(fmt.Sprint(h.summary.Games)) + "   " +
		theme.Label.Render("Best ") + theme.Stat.Render(fmt.Sprintf("%d%%", h.summary.BestPercent)) + "   " +
		theme.Label.Render("Top combo ") + theme.Stat.Render(fmt.Sprintf("%dx", h.summary.BestMaxCombo))
}

func (h *Screen) questionCount() int {
	if h.env.Quiz.QuestionCount > 0 {
		return h.env.Quiz.QuestionCount
	}
	return quiz.DefaultConfig().QuestionCount
}

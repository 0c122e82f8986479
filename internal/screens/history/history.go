// Package history lists a player's completed quizzes, newest first.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/screen"
	"github.com/abhisek/codequiz/internal/ui/components"
	"github.com/abhisek/codequiz/internal/ui/layout"
	"github.com/abhisek/codequiz/internal/ui/theme"
)

type loadedMsg struct {
	records []quiz.ScoreRecord
	err     error
}

// Screen shows the score history of one player.
type Screen struct {
	scores quiz.ScoreRepo
	user   string

	records  []quiz.ScoreRecord
	selected int
	loaded   bool
	err      error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the history screen for user.
func New(scores quiz.ScoreRepo, user string) *Screen {
	return &Screen{scores: scores, user: user}
}

func (s *Screen) Init() tea.Cmd {
	scores, user := s.scores, s.user
	return func() tea.Msg {
		recs, err := scores.ListByUser(context.Background(), user)
		return loadedMsg{records: recs, err: err}
	}
}

func (s *Screen) Title() string { return "History" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.records, s.err, s.loaded = msg.records, msg.err, true
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.selected = max(s.selected-1, 0)
		case "down", "j":
			s.selected = min(s.selected+1, max(len(s.records)-1, 0))
		}
	}
	return s, nil
}

// Summary aggregates a player's records.
type Summary struct {
	Games        int
	BestScore    int
	BestPercent  int
	AvgPercent   int
	BestMaxCombo int
}

// Summarize computes totals over recs.
func Summarize(recs []quiz.ScoreRecord) Summary {
	var sum Summary
	total := 0
	for _, r := range recs {
		sum.Games++
		sum.BestScore = max(sum.BestScore, r.Score)
		sum.BestPercent = max(sum.BestPercent, r.Percentage)
		sum.BestMaxCombo = max(sum.BestMaxCombo, r.MaxCombo)
		total += r.Percentage
	}
	if sum.Games > 0 {
		sum.AvgPercent = (total*2 + sum.Games) / (2 * sum.Games)
	}
	return sum
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	switch {
	case s.err != nil:
		return components.Centered(theme.ErrorText.Render("Could not load history: "+s.err.Error()), width, height)
	case !s.loaded:
		return components.Centered(theme.Hint.Render("Loading history..."), width, height)
	case len(s.records) == 0:
		return components.Centered(
			theme.Title.Render("History of "+s.user)+"\n\n"+theme.Hint.Render("No games played yet!"),
			width, height)
	}

	sum := Summarize(s.records)
	header := theme.Title.Render("History of "+s.user) + "\n\n" +
		theme.Label.Render("Games ") + theme.Stat.Render(fmt.Sprint(sum.Games)) + "   " +
		theme.Label.Render("Best ") + theme.Stat.Render(fmt.Sprintf("%d%%", sum.BestPercent)) + "   " +
		theme.Label.Render("Average ") + theme.Stat.Render(fmt.Sprintf("%d%%", sum.AvgPercent)) + "   " +
		theme.Label.Render("Top combo ") + theme.Stat.Render(fmt.Sprintf("%dx", sum.BestMaxCombo))

	// Rows that fit below the header and card borders.
	rows := max(height-lipgloss.Height(header)-8, 3)
	start := min(max(s.selected-rows/2, 0), max(len(s.records)-rows, 0))
	end := min(start+rows, len(s.records))

	var b strings.Builder
	for i := start; i < end; i++ {
		r := s.records[i]
		line := fmt.Sprintf("%s   Score %2d/%-2d  %3d%%   Max combo %dx",
			r.CompletedAt.Local().Format("Jan 02 2006 15:04"), r.Score, r.Total, r.Percentage, r.MaxCombo)
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return components.Centered(header+"\n\n"+components.Card(b.String(), cw), width, height)
}

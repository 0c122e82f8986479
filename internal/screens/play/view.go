package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/ui/components"
	"github.com/abhisek/codequiz/internal/ui/theme"
)

func renderLoading(width, height int) string {
	msg := theme.Title.Render("🛠  Building your quiz...") + "\n\n" +
		theme.Subtitle.Render("Picking fresh questions 🚀")
	return components.Centered(msg, width, height)
}

func renderQuestion(st quiz.State, questionTime, cursor int, showHint bool, width, height int) string {
	cw := components.ContentWidth(width)
	q := st.Current

	stats := theme.Stat.Render(fmt.Sprintf("⭐ %d", st.Score)) + "   " +
		theme.Stat.Render(fmt.Sprintf("🔥 %dx", st.Combo))
	progress := components.NewProgressBar(fmt.Sprintf("%d/%d", st.Index+1, st.Total),
		float64(st.Index+1)/float64(max(st.Total, 1)), cw/2)
	top := lipgloss.JoinHorizontal(lipgloss.Center, stats, strings.Repeat(" ", 4), progress.View())

	timer := components.Countdown(st.Remaining, questionTime, cw)

	opts := components.NewOptions(q.Options, q.Answer)
	opts.Cursor = cursor
	if st.Phase == quiz.PhaseAnswered {
		opts.Revealed = true
		opts.Chosen = st.Selected
	}

	var b strings.Builder
	b.WriteString(theme.Label.Render(q.Topic))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 6).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(opts.View())

	switch {
	case st.Phase == quiz.PhaseAnswered && st.LastCorrect:
		b.WriteString("\n" + theme.Correct.Render("✅ Correct!"))
		if st.Combo > 1 {
			b.WriteString(theme.Stat.Render(fmt.Sprintf("  Combo %dx!", st.Combo)))
		}
	case st.Phase == quiz.PhaseAnswered:
		b.WriteString("\n" + theme.Incorrect.Render("❌ Not quite. The answer is: "+q.CorrectText()))
		if q.Hint != "" {
			b.WriteString("\n" + theme.Hint.Render("💡 "+q.Hint))
		}
	case showHint && q.Hint != "":
		b.WriteString("\n" + theme.Hint.Render("💡 "+q.Hint))
	}

	content := top + "\n\n" + timer.View() + "\n\n" + components.HighlightCard(b.String(), cw)
	return components.Centered(content, width, height)
}

func renderResults(st quiz.State, canShowHistory bool, width, height int) string {
	cw := components.ContentWidth(width)
	rec := st.Record
	if rec == nil {
		return renderLoading(width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("🎉 Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Score: %d/%d", rec.Score, rec.Total)))
	b.WriteString("  ")
	b.WriteString(theme.Stat.Render(fmt.Sprintf("(%d%%)", rec.Percentage)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Max combo: %dx", rec.MaxCombo)))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render(verdict(rec.Percentage)))
	b.WriteString("\n\n")

	switch {
	case rec.UserID == "":
		b.WriteString(theme.Hint.Render("Playing as guest, score not saved"))
	case st.Saving:
		b.WriteString(theme.Hint.Render("Saving score..."))
	case st.SaveErr != nil:
		b.WriteString(theme.ErrorText.Render("⚠ Could not save score: " + st.SaveErr.Error()))
	default:
		b.WriteString(theme.Correct.Render("✓ Score saved"))
	}

	b.WriteString("\n\n")
	actions := "🔄 N  New quiz"
	if canShowHistory {
		actions += "    📊 H  History"
	}
	actions += "    🏠 Esc  Home"
	b.WriteString(theme.Label.Render(actions))

	return components.Centered(components.HighlightCard(b.String(), cw), width, height)
}

func verdict(percentage int) string {
	switch {
	case percentage == 100:
		return "Perfect run! 🏆"
	case percentage >= 80:
		return "Great job, you really know this! 🚀"
	case percentage >= 50:
		return "Nice work, keep practicing! 💪"
	default:
		return "Every expert was once a beginner. Try again! 🌱"
	}
}

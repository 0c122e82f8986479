package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codequiz/internal/ui/theme"
)

// ProgressBar is a horizontal bar with an optional label and trailing text.
type ProgressBar struct {
	Label   string
	Percent float64
	Suffix  string
	Width   int
	Fill    lipgloss.Style
}

// NewProgressBar creates a bar filled in the secondary colour.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
		Fill:    lipgloss.NewStyle().Background(theme.Secondary),
	}
}

// Countdown returns a bar for remaining of total seconds, coloured by
// urgency.
func Countdown(remaining, total, width int) ProgressBar {
	p := 0.0
	if total > 0 {
		p = float64(remaining) / float64(total)
	}
	bar := NewProgressBar("⏱", p, width)
	bar.Suffix = fmt.Sprintf("%2ds", remaining)
	bar.Fill = lipgloss.NewStyle().Background(theme.TimerColor(remaining, total).GetForeground())
	return bar
}

func (p ProgressBar) View() string {
	var head string
	if p.Label != "" {
		head = theme.Body.Render(p.Label) + "  "
	}
	var tail string
	if p.Suffix != "" {
		tail = "  " + theme.Label.Render(p.Suffix)
	}

	barWidth := max(p.Width-lipgloss.Width(head)-lipgloss.Width(tail), 4)
	filled := min(max(int(float64(barWidth)*p.Percent+0.5), 0), barWidth)

	return head +
		p.Fill.Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		tail
}

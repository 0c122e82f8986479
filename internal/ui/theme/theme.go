// Package theme holds the codequiz colour palette and shared styles.
package theme

import "charm.land/lipgloss/v2"

// Palette
var (
	Primary   = lipgloss.Color("#6366F1") // indigo
	Secondary = lipgloss.Color("#06B6D4") // cyan
	Accent    = lipgloss.Color("#FACC15") // yellow, combo and score
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#EF4444")
	Warning   = lipgloss.Color("#F97316")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0B1020")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Stat = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Faded = lipgloss.NewStyle().Foreground(TextDim)

	ErrorText = lipgloss.NewStyle().Foreground(Error)
)

// CriticalSeconds is where the countdown turns red.
const CriticalSeconds = 6

// TimerColor returns the countdown style for remaining of total seconds.
func TimerColor(remaining, total int) lipgloss.Style {
	switch {
	case remaining < CriticalSeconds:
		return lipgloss.NewStyle().Foreground(Error).Bold(true)
	case remaining*2 < total:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(Secondary)
	}
}

package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codequiz/internal/ui/theme"
)

// Mood picks the mascot variant from the player's recent results.
type Mood int

const (
	MoodIdle Mood = iota
	MoodProud     // last quiz was perfect
	MoodGuest     // nobody signed in
)

const mascotIdle = `┌───────┐
│ ◉   ◉ │
│   ▽   │
│ </>   │
└───────┘`

const mascotProud = `┌───────┐
│ ★   ★ │
│   ▿   │
│ </> ! │
└─╥═══╥─┘
  ╚═══╝`

const mascotGuest = `┌───────┐
│ ◉   ◉ │
│   ─   │
│  ???  │
└───────┘`

// moodFor returns MoodProud when the latest percentage is 100.
func moodFor(user string, latestPercent int, hasGames bool) Mood {
	switch {
	case user == "":
		return MoodGuest
	case hasGames && latestPercent == 100:
		return MoodProud
	default:
		return MoodIdle
	}
}

func renderMascot(m Mood) string {
	art, color := mascotIdle, theme.Primary
	switch m {
	case MoodProud:
		art, color = mascotProud, theme.Accent
	case MoodGuest:
		art, color = mascotGuest, theme.TextDim
	}
	return lipgloss.NewStyle().Foreground(color).Render(art)
}

package login

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codequiz/internal/ui/theme"
)

const bannerArt = `
  ___  ___  ___  ___    ___  _   _ ___ ____
 / __|/ _ \|   \| __|  / _ \| | | |_ _|_  /
| (__| (_) | |) | _|  | (_) | |_| || | / /
 \___|\___/|___/|___|  \__\_\\___/|___/___|`

const bannerCompact = "C O D E Q U I Z"

// renderBanner falls back to plain letters below 48 columns.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

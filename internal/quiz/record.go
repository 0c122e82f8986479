package quiz

import "time"

// ScoreRecord is the summary of one completed session.
type ScoreRecord struct {
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	MaxCombo    int       `json:"max_combo"`
	Percentage  int       `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}

// Percentage returns score/total as a whole percentage, rounding halves up.
// A zero total yields 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (2 * total)
}

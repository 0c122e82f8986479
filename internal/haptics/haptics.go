// Package haptics provides the feedback signals played when a question is
// answered or runs out of time.
package haptics

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// Pattern is a named feedback signal.
type Pattern struct {
	Name     string
	Duration time.Duration
}

var (
	// Correct plays after a right answer.
	Correct = Pattern{Name: "correct", Duration: 100 * time.Millisecond}

	// Wrong plays after a wrong answer.
	Wrong = Pattern{Name: "wrong", Duration: 400 * time.Millisecond}

	// Timeout plays when the countdown expires.
	Timeout = Pattern{Name: "timeout", Duration: 200 * time.Millisecond}
)

// Vibrator plays feedback patterns. Implementations must not block for long.
type Vibrator interface {
	Vibrate(p Pattern)
}

// Nop discards every pattern.
type Nop struct{}

func (Nop) Vibrate(Pattern) {}

// Bell rings the terminal bell for wrong answers and timeouts.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell that writes to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Vibrate(p Pattern) {
	if p.Name == Correct.Name {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.w.Write([]byte{'\a'})
}

// Logged decorates a Vibrator with debug logging.
type Logged struct {
	Inner  Vibrator
	Logger *slog.Logger
}

func (l Logged) Vibrate(p Pattern) {
	if l.Logger != nil {
		l.Logger.Debug("haptic feedback", "pattern", p.Name, "duration", p.Duration)
	}
	if l.Inner != nil {
		l.Inner.Vibrate(p)
	}
}

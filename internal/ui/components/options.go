package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/codequiz/internal/ui/theme"
)

// Options renders the numbered answer options of a question. Before an
// answer is revealed the cursor row is highlighted; afterwards the correct
// option is green and a wrong choice red.
type Options struct {
	Items    []string
	Cursor   int
	Answer   int
	Chosen   int
	Revealed bool
}

// NewOptions starts with the cursor on the first option and nothing chosen.
func NewOptions(items []string, answer int) Options {
	return Options{Items: items, Answer: answer, Chosen: -1}
}

// Move shifts the cursor by delta, clamped to the option range.
func (o *Options) Move(delta int) {
	o.Cursor = min(max(o.Cursor+delta, 0), len(o.Items)-1)
}

func (o Options) View() string {
	var b strings.Builder
	for i, opt := range o.Items {
		prefix := "  "
		if !o.Revealed && i == o.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case o.Revealed && i == o.Answer:
			line = theme.Correct.Render(line + "  ✓")
		case o.Revealed && i == o.Chosen:
			line = theme.Incorrect.Render(line + "  ✗")
		case o.Revealed:
			line = theme.Faded.Render(line)
		case i == o.Cursor:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

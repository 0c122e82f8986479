package questiongen

// Variation identifies how a generated question was derived from its template.
type Variation int

const (
	// Original is the template as written.
	Original Variation = iota

	// Shuffled has its options reordered and the prompt marked with ShuffleMarker.
	Shuffled

	// Alternate replaces the template with a literal alternate phrasing of
	// the same topic.
	Alternate
)

// ShuffleMarker is appended to the prompt of shuffled questions.
const ShuffleMarker = " 🎲"

func (v Variation) String() string {
	switch v {
	case Original:
		return "original"
	case Shuffled:
		return "shuffled"
	case Alternate:
		return "alternate"
	default:
		return "unknown"
	}
}

// Question is a generated question ready for display.
type Question struct {
	// ID is unique per generated question, even for repeats of one template.
	ID string

	// Topic is the name of the topic the template belongs to.
	Topic string

	Prompt  string
	Options []string

	// Answer indexes the correct entry of Options.
	Answer int

	Hint string

	Variation Variation

	// SourcePrompt is the prompt of the template this question came from.
	// It is the key recorded in the used set.
	SourcePrompt string
}

// CorrectText returns the text of the correct option.
func (q Question) CorrectText() string {
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return ""
	}
	return q.Options[q.Answer]
}

// IsCorrect reports whether index selects the correct option.
func (q Question) IsCorrect(index int) bool {
	return index == q.Answer
}

package authoring

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice questions for a beginner programming quiz aimed at children and new learners.

Rules:
- Each question tests one basic idea of the given topic in plain, friendly language.
- Start every prompt with a single fitting emoji followed by a space.
- Give exactly 4 short options. Exactly one is correct; the others are plausible beginner misconceptions.
- "answer" is the zero-based index of the correct option.
- The hint nudges toward the answer without giving it away.
- Never repeat or rephrase a question from the "existing questions" list.`

// buildUserMessage asks for count templates on topic, listing up to
// maxExisting of the prompts already in the catalog.
func buildUserMessage(topic string, count int, existing []string, maxExisting int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Questions wanted: %d\n", count)
	b.WriteString("\nExisting questions:\n")
	b.WriteString(buildExistingList(existing, maxExisting))
	return b.String()
}

// buildExistingList numbers the most recent max prompts, or returns "None".
func buildExistingList(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}
	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

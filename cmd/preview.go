package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/catalog"
	"github.com/abhisek/codequiz/internal/questiongen"
	"github.com/abhisek/codequiz/internal/quiz"
)

var catalogPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Answer a topic's questions in plain text (no database)",
	Long: `Generate and interactively answer questions for one topic.

This is a stateless tool for authors: no timer, no accounts, no saved scores.
Useful for checking how drafted questions read once shuffled.`,
	RunE: runPreview,
}

func init() {
	catalogPreviewCmd.Flags().String("topic", "", "Topic name (required)")
	catalogPreviewCmd.Flags().Int("count", 5, "Number of questions")
	_ = catalogPreviewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")

	cfg, _, err := setupCLI(cmd)
	if err != nil {
		return err
	}
	c, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	t, ok := c.Topic(name)
	if !ok {
		return fmt.Errorf("no topic named %q (have: %s)", name, strings.Join(c.TopicNames(), ", "))
	}

	gen, err := questiongen.New(&catalog.Catalog{Version: c.Version, Topics: []catalog.Topic{*t}})
	if err != nil {
		return err
	}
	questions := gen.GenerateUnique(count)

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Topic: %s (%d questions)\n\n", t.Name, len(questions))

	var correct int
	for i, q := range questions {
		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, len(questions))
		fmt.Fprintln(out, q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !in.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil || n < 1 || n > len(q.Options) {
			fmt.Fprintf(out, "(skipped) Answer: %s\n\n", q.CorrectText())
			continue
		}

		if q.IsCorrect(n - 1) {
			correct++
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", q.CorrectText())
			if q.Hint != "" {
				fmt.Fprintf(out, "Hint: %s\n", q.Hint)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct (%d%%) ──\n",
		correct, len(questions), quiz.Percentage(correct, len(questions)))
	return nil
}

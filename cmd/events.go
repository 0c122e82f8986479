package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/llm"
	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the quiz and LLM event log",
}

var eventsQuizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "List recent quiz events",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		session, _ := cmd.Flags().GetString("session")

		opts, err := queryOpts(cmd)
		if err != nil {
			return err
		}
		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		events, err := d.store.Events().QueryQuizEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-6s  %-19s  %-12s  %-8s  %3s  %-14s  %-3s  %5s  %5s\n",
			"Seq", "Timestamp", "User", "Action", "Q", "Topic", "OK", "Score", "Combo")
		fmt.Fprintln(out, strings.Repeat("─", 90))

		shown := 0
		for _, e := range events {
			if user != "" && e.UserID != user {
				continue
			}
			if session != "" && e.SessionID != session {
				continue
			}
			who := e.UserID
			if who == "" {
				who = "(guest)"
			}
			ok := ""
			if e.Action == quiz.ActionAnswer || e.Action == quiz.ActionTimeout {
				ok = "✗"
				if e.Correct {
					ok = "✓"
				}
			}
			fmt.Fprintf(out, "%-6d  %-19s  %-12s  %-8s  %3d  %-14s  %-3s  %5d  %5d\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(who, 12), e.Action, e.QuestionIndex+1,
				truncate(e.Topic, 14), ok, e.Score, e.Combo)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No quiz events found.")
		}
		return nil
	},
}

var eventsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, _ := cmd.Flags().GetString("purpose")

		opts, err := queryOpts(cmd)
		if err != nil {
			return err
		}
		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		events, err := d.store.Events().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗ " + truncate(e.ErrorMessage, 40)
			}
			fmt.Fprintf(out, "%-6d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 14),
				truncate(e.Model, 28),
				e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
		}
		return nil
	},
}

var eventsUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := queryOpts(cmd)
		if err != nil {
			return err
		}
		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		events, err := d.store.Events().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintln(out, "Estimated Cost (USD)")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 72))

		var total float64
		var unknown []string
		for _, u := range usageByModel(events) {
			cost, ok := llm.LookupCost(u.model)
			if !ok {
				unknown = append(unknown, u.model)
				fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %9s\n",
					truncate(u.model, 32), u.calls, u.in, u.out, "?")
				continue
			}
			c := cost.Cost(u.in, u.out)
			total += c
			fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %9s\n",
				truncate(u.model, 32), u.calls, u.in, u.out, formatCost(c))
		}

		fmt.Fprintln(out, strings.Repeat("─", 72))
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
		if len(unknown) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

type modelUsage struct {
	model string
	calls int
	in    int
	out   int
}

// usageByModel sums token counts per model, busiest model first.
func usageByModel(events []store.LLMRequestEvent) []modelUsage {
	byModel := make(map[string]*modelUsage)
	for _, e := range events {
		u, ok := byModel[e.Model]
		if !ok {
			u = &modelUsage{model: e.Model}
			byModel[e.Model] = u
		}
		u.calls++
		u.in += e.InputTokens
		u.out += e.OutputTokens
	}
	out := make([]modelUsage, 0, len(byModel))
	for _, u := range byModel {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].calls != out[j].calls {
			return out[i].calls > out[j].calls
		}
		return out[i].model < out[j].model
	})
	return out
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// queryOpts reads --limit and --since.
func queryOpts(cmd *cobra.Command) (store.QueryOpts, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")
	opts := store.QueryOpts{Limit: limit}
	if since < 0 {
		return opts, fmt.Errorf("--since must be positive")
	}
	if since > 0 {
		opts.From = time.Now().Add(-since)
	}
	return opts, nil
}

func init() {
	for _, c := range []*cobra.Command{eventsQuizCmd, eventsLLMCmd, eventsUsageCmd} {
		c.Flags().Duration("since", 0, "Only events newer than this (e.g. 24h)")
		eventsCmd.AddCommand(c)
	}
	eventsQuizCmd.Flags().IntP("limit", "n", 50, "Number of events to show")
	eventsQuizCmd.Flags().String("user", "", "Only events of this player")
	eventsQuizCmd.Flags().String("session", "", "Only events of this session")

	eventsLLMCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsLLMCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. catalog-draft)")

	eventsUsageCmd.Flags().IntP("limit", "n", 0, "Only the most recent N requests (0 = all)")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/screens/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a player's quiz history",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		if _, err := d.store.Users().Get(ctx, user); err != nil {
			return fmt.Errorf("%s: %w", user, err)
		}
		recs, err := d.scores.ListByUser(ctx, user)
		if err != nil {
			return fmt.Errorf("list scores: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintf(out, "%s has not finished a quiz yet.\n", user)
			return nil
		}

		sum := history.Summarize(recs)
		if limit > 0 && len(recs) > limit {
			recs = recs[:limit]
		}

		fmt.Fprintf(out, "%-19s  %7s  %7s  %5s  %s\n", "Completed", "Score", "Percent", "Combo", "Session")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, r := range recs {
			fmt.Fprintf(out, "%-19s  %3d/%-3d  %6d%%  %5d  %s\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				r.Score, r.Total, r.Percentage, r.MaxCombo, r.SessionID)
		}
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintf(out, "%d quizzes · best %d%% · average %d%% · best combo %d\n",
			sum.Games, sum.BestPercent, sum.AvgPercent, sum.BestMaxCombo)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("user", "", "Player whose history to show (required)")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show (0 = all)")
	_ = historyCmd.MarkFlagRequired("user")
}

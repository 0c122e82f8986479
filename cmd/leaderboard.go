package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/config"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show each player's best result (redis score backend)",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.redis == nil {
			return fmt.Errorf("the leaderboard needs --scores %s", config.BackendRedis)
		}
		entries, err := d.redis.Top(cmd.Context(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No scores yet.")
			return nil
		}
		fmt.Fprintf(out, "%4s  %-24s  %s\n", "Rank", "Player", "Best")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, e := range entries {
			fmt.Fprintf(out, "%4d  %-24s  %3d%%\n", e.Rank, truncate(e.Username, 24), e.Percentage)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", 10, "Number of players to show")
}

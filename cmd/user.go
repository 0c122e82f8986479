package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage player accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a player account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("CODEQUIZ_PASSWORD")
		}

		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		u, err := d.store.Users().Create(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if avatar, _ := cmd.Flags().GetString("avatar"); avatar != "" {
			if err := d.store.Users().SetAvatar(cmd.Context(), u.Username, avatar); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", u.Username)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List player accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		users, err := d.store.Users().List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No players yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-24s  %-6s  %6s  %s\n", "ID", "Username", "Avatar", "Games", "Created")
		fmt.Fprintln(out, strings.Repeat("─", 70))
		for _, u := range users {
			recs, err := d.scores.ListByUser(ctx, u.Username)
			if err != nil {
				return fmt.Errorf("list scores for %s: %w", u.Username, err)
			}
			fmt.Fprintf(out, "%-5d  %-24s  %-6s  %6d  %s\n",
				u.ID, truncate(u.Username, 24), u.Avatar, len(recs),
				u.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var userRenameCmd = &cobra.Command{
	Use:   "rename <from> <to>",
	Short: "Rename a player, keeping their history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		if err := d.store.Users().Rename(ctx, args[0], args[1]); err != nil {
			return err
		}
		if d.redis != nil {
			if err := d.redis.Rename(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("renamed account but not redis scores: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", args[0], args[1])
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a player and their history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		if err := d.store.Users().Delete(ctx, args[0]); err != nil {
			return err
		}
		if d.redis != nil {
			if err := d.redis.DeleteUser(ctx, args[0]); err != nil {
				return fmt.Errorf("deleted account but not redis scores: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	userAddCmd.Flags().String("password", "", "Account password (defaults to CODEQUIZ_PASSWORD)")
	userAddCmd.Flags().String("avatar", "", "Emoji shown next to the name")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userRenameCmd)
	userCmd.AddCommand(userDeleteCmd)
}

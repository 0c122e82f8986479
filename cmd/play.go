package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/app"
	"github.com/abhisek/codequiz/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz straight away",
	Long: `Start a quiz without the login form.

With --user the account is checked against --password (or CODEQUIZ_PASSWORD)
and completed quizzes are saved to that player's history. Without --user the
quiz is played as a guest and nothing is saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		if user != "" {
			if err := checkPassword(cmd, user); err != nil {
				return err
			}
		}
		return runApp(cmd, app.Options{SignedIn: true, StartQuiz: true})
	},
}

func init() {
	playCmd.Flags().String("user", "", "Player to sign in as")
	playCmd.Flags().String("password", "", "Password for --user (defaults to CODEQUIZ_PASSWORD)")
}

// checkPassword authenticates user before the TUI takes over the terminal.
func checkPassword(cmd *cobra.Command, user string) error {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("CODEQUIZ_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("--password or CODEQUIZ_PASSWORD is required with --user")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := resolveDBPath(cfg)
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if _, err := st.Users().Authenticate(cmd.Context(), user, password); err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return fmt.Errorf("wrong username or password for %q", user)
		}
		return err
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/app"
	"github.com/abhisek/codequiz/internal/config"
	"github.com/abhisek/codequiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "codequiz",
	Short: "Timed programming quiz for the terminal",
	Long: `codequiz asks short multiple-choice questions about programming basics
against a countdown, tracks combos, and keeps each player's score history.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides CODEQUIZ_DB)")
	pf.String("scores", "", "Score backend: sqlite or redis (overrides CODEQUIZ_SCORES)")
	pf.String("catalog", "", "Question catalog JSON file (overrides CODEQUIZ_CATALOG)")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides CODEQUIZ_LOG_LEVEL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings from the environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.ConfigFromEnv()
	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString("scores"); v != "" {
		cfg.ScoreBackend = v
	}
	if v, _ := flags.GetString("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG location.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath == "" {
		return store.DefaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return "", fmt.Errorf("create database dir: %w", err)
	}
	return cfg.DBPath, nil
}

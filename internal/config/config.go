// Package config holds application-level settings resolved from defaults,
// CODEQUIZ_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abhisek/codequiz/internal/logger"
)

// Score backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all application settings.
type Config struct {
	// DBPath is the SQLite file. Empty means store.DefaultDBPath.
	DBPath string

	// ScoreBackend selects where score history lives: "sqlite" or "redis".
	// Accounts and events always live in SQLite.
	ScoreBackend string

	Redis RedisConfig

	// CatalogPath is a JSON catalog file. Empty means the built-in catalog.
	CatalogPath string

	// QuestionCount is the number of questions per quiz.
	QuestionCount int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFile receives TUI logs. Empty means logger.DefaultPath.
	LogFile string

	// Bell rings the terminal bell on wrong answers and timeouts.
	Bell bool
}

// RedisConfig holds the Redis score backend connection settings.
type RedisConfig struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ScoreBackend: BackendSQLite,
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			Prefix:      "codequiz",
			DialTimeout: 5 * time.Second,
		},
		QuestionCount: 10,
		LogLevel:      "info",
		Bell:          true,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.DBPath = getEnv("CODEQUIZ_DB", cfg.DBPath)
	cfg.ScoreBackend = getEnv("CODEQUIZ_SCORES", cfg.ScoreBackend)
	cfg.CatalogPath = getEnv("CODEQUIZ_CATALOG", cfg.CatalogPath)
	cfg.QuestionCount = getEnvInt("CODEQUIZ_QUESTIONS", cfg.QuestionCount)
	cfg.LogLevel = getEnv("CODEQUIZ_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("CODEQUIZ_LOG_FILE", cfg.LogFile)
	cfg.Bell = getEnvBool("CODEQUIZ_BELL", cfg.Bell)

	cfg.Redis.Addr = getEnv("CODEQUIZ_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Username = getEnv("CODEQUIZ_REDIS_USERNAME", cfg.Redis.Username)
	cfg.Redis.Password = getEnv("CODEQUIZ_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("CODEQUIZ_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = getEnv("CODEQUIZ_REDIS_PREFIX", cfg.Redis.Prefix)

	return cfg
}

// Validate checks the settings and reports every problem found.
func (c Config) Validate() error {
	var errs []error
	switch c.ScoreBackend {
	case BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("CODEQUIZ_REDIS_ADDR is required for the redis score backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown score backend: %q", c.ScoreBackend))
	}
	if c.QuestionCount < 1 {
		errs = append(errs, fmt.Errorf("question count must be at least 1, got %d", c.QuestionCount))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

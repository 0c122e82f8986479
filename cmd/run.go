package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/app"
	"github.com/abhisek/codequiz/internal/catalog"
	"github.com/abhisek/codequiz/internal/config"
	"github.com/abhisek/codequiz/internal/haptics"
	"github.com/abhisek/codequiz/internal/kvstore"
	"github.com/abhisek/codequiz/internal/logger"
	"github.com/abhisek/codequiz/internal/questiongen"
	"github.com/abhisek/codequiz/internal/quiz"
	"github.com/abhisek/codequiz/internal/screen"
	"github.com/abhisek/codequiz/internal/store"
)

// deps are the services shared by the TUI and the CLI subcommands.
type deps struct {
	cfg    config.Config
	log    *slog.Logger
	store  *store.Store
	scores quiz.ScoreRepo

	// redis is set when scores live in Redis.
	redis *kvstore.ScoreRepo
}

// openDeps opens the SQLite store and, for the redis backend, the Redis
// score repository.
func openDeps(ctx context.Context, cfg config.Config, log *slog.Logger) (*deps, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	d := &deps{cfg: cfg, log: log, store: st, scores: st.Scores()}
	if cfg.ScoreBackend == config.BackendRedis {
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Redis.DialTimeout)
		defer cancel()
		r, err := kvstore.Dial(dialCtx, kvstore.Options{
			Addr:        cfg.Redis.Addr,
			Username:    cfg.Redis.Username,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			Prefix:      cfg.Redis.Prefix,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			st.Close()
			return nil, err
		}
		log.Debug("redis score backend connected", "addr", cfg.Redis.Addr)
		d.redis = r
		d.scores = r
	}
	return d, nil
}

func (d *deps) Close() error {
	var errs []error
	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}
	errs = append(errs, d.store.Close())
	return errors.Join(errs...)
}

// setupCLI resolves config and installs a stderr text logger.
func setupCLI(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.Init(logger.Options{Level: level, Format: logger.FormatText, Output: os.Stderr})
	return cfg, log, nil
}

// openCLI is setupCLI followed by openDeps.
func openCLI(cmd *cobra.Command) (*deps, error) {
	cfg, log, err := setupCLI(cmd)
	if err != nil {
		return nil, err
	}
	return openDeps(cmd.Context(), cfg, log)
}

// loadCatalog reads the configured catalog file or the built-in catalog.
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// runApp opens the store, builds dependencies, and launches the TUI. The TUI
// owns the terminal, so logs go to a JSON file.
func runApp(cmd *cobra.Command, opts app.Options) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath := cfg.LogFile
	if logPath == "" {
		if logPath, err = logger.DefaultPath(); err != nil {
			return err
		}
	}
	var out io.Writer = io.Discard
	if f, err := logger.OpenFile(logPath); err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
	} else {
		defer f.Close()
		out = f
	}
	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.Init(logger.Options{Level: level, Format: logger.FormatJSON, Output: out})

	d, err := openDeps(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	env, err := d.screenEnv()
	if err != nil {
		return err
	}
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		env.User = user
	}

	log.Info("starting", "version", version, "scores", cfg.ScoreBackend, "questions", cfg.QuestionCount)
	return app.Run(cmd.Context(), env, opts)
}

// screenEnv assembles the services the screens need.
func (d *deps) screenEnv() (screen.Env, error) {
	c, err := loadCatalog(d.cfg)
	if err != nil {
		return screen.Env{}, err
	}
	gen, err := questiongen.New(c)
	if err != nil {
		return screen.Env{}, fmt.Errorf("question generator: %w", err)
	}

	var vib haptics.Vibrator = haptics.Nop{}
	if d.cfg.Bell {
		vib = haptics.NewBell(os.Stdout)
	}

	qc := quiz.DefaultConfig()
	qc.QuestionCount = d.cfg.QuestionCount

	return screen.Env{
		Accounts:  d.store.Users(),
		Scores:    d.scores,
		Events:    d.store.Events(),
		Catalog:   c,
		Questions: gen,
		Quiz:      qc,
		Haptics:   haptics.Logged{Inner: vib, Logger: d.log},
		Logger:    d.log,
	}, nil
}

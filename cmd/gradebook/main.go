// Package main is the entry point of the interactive student grade book.
//
// The roster lives in memory for the whole run and is written back to the
// configured store after every change:
// - Domain: Record and Roster, no external dependencies
// - Application: command and query handlers over one Session
// - Infrastructure: JSON file, PostgreSQL or Redis roster stores, xlsx workbooks
// - Interface: the numbered terminal menu
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application layer
	"github.com/nilai-hub/student-grades/internal/application/command"
	"github.com/nilai-hub/student-grades/internal/application/query"
	"github.com/nilai-hub/student-grades/internal/application/session"

	// Domain
	"github.com/nilai-hub/student-grades/internal/domain/student"

	// Infrastructure layer
	"github.com/nilai-hub/student-grades/internal/infrastructure/persistence/jsonfile"
	"github.com/nilai-hub/student-grades/internal/infrastructure/persistence/postgres"
	"github.com/nilai-hub/student-grades/internal/infrastructure/persistence/redis"

	// Interface layer
	"github.com/nilai-hub/student-grades/internal/interface/cli"

	// Packages
	"github.com/nilai-hub/student-grades/config"
	"github.com/nilai-hub/student-grades/pkg/logger"
	"github.com/nilai-hub/student-grades/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info("starting gradebook",
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
		logger.Backend(string(cfg.Storage.Backend)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ROSTER STORE
	// ─────────────────────────────────────────────────────────────────────────
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open roster store: %w", err)
	}

	sess := session.New(store, log)
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("failed to close roster store", logger.Err(err))
		}
	}()

	// A failed load still opens the menu with an empty roster.
	report, loadErr := sess.Load(ctx)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HANDLERS AND MENU
	// ─────────────────────────────────────────────────────────────────────────
	app := cli.New(cli.Config{
		Commands: command.NewHandlers(sess, log),
		Queries:  query.NewHandlers(sess, cfg.CLI.TopStudents, log),
		Input:    os.Stdin,
		Output:   cli.NewTerminalPresenter(os.Stdout, cfg.CLI.NoColor),
		Logger:   log,
		TopN:     cfg.CLI.TopStudents,
	})

	if err := app.Run(ctx, report, loadErr); err != nil {
		return err
	}

	log.Info("gradebook stopped", logger.Count("students", sess.Roster().StudentCount()))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SETUP
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger writes JSON lines to LOG_FILE so the menu keeps stdout.
func setupLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	level := logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		level = logger.LevelDebug
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}

	if cfg.Observability.LogFile != "" {
		f, err := logger.OpenFile(cfg.Observability.LogFile)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	opts := logger.DefaultOptions()
	opts.Output = out
	opts.Level = level
	opts.AddCaller = cfg.IsDevelopment()

	return logger.New(opts), closeFn, nil
}

// openStore builds the roster store selected by STORAGE_BACKEND.
// Remote backends are dialed with backoff; the file backend never fails here.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (student.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, log)
	case config.BackendRedis:
		return openRedis(ctx, cfg, log)
	default:
		return jsonfile.New(cfg.Storage.DataFile, log), nil
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (student.Store, error) {
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = cfg.Database.MaxConns
	pgCfg.QueryTimeout = cfg.Database.QueryTimeout

	log.Info("connecting to database...")
	r := retry.ConnectRetrier(cfg.Storage.ConnectAttempts, logRetry(log, "postgres"))
	conn, err := retry.DoWithData(ctx, r, func(ctx context.Context) (*postgres.Connection, error) {
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Storage.ConnectTimeout)
		defer cancel()
		return postgres.NewConnection(dialCtx, pgCfg)
	})
	if err != nil {
		return nil, err
	}

	applied, err := postgres.NewMigrator(conn).Migrate(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database ready", logger.Count("migrations_applied", applied))

	return postgres.NewRosterStore(conn, cfg.Database.QueryTimeout, log), nil
}

func openRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (student.Store, error) {
	redisCfg := redis.DefaultConfig()
	redisCfg.Addr = cfg.Redis.Addr
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.Key = cfg.Redis.Key
	redisCfg.DialTimeout = cfg.Redis.DialTimeout

	log.Info("connecting to Redis...", logger.String("addr", redisCfg.Addr))
	r := retry.ConnectRetrier(cfg.Storage.ConnectAttempts, logRetry(log, "redis"))
	cache, err := retry.DoWithData(ctx, r, func(ctx context.Context) (*redis.Cache, error) {
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Storage.ConnectTimeout)
		defer cancel()
		return redis.NewCache(dialCtx, redisCfg)
	})
	if err != nil {
		return nil, err
	}

	return redis.NewRosterStore(cache, redisCfg.Key, log), nil
}

func logRetry(log *logger.Logger, backend string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		log.Warn("store connection failed, retrying",
			logger.Backend(backend),
			logger.Attempt(attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}
}

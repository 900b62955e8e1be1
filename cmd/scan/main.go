// Package main runs one scanner pass. It is invoked per tick by an
// external scheduler; exit code 0 means the run completed (zero candidates
// included), non-zero means a mandatory input was missing or unparseable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"squeeze-radar/internal/config"
	"squeeze-radar/internal/confluence"
	"squeeze-radar/internal/history"
	"squeeze-radar/internal/observability"
	"squeeze-radar/internal/runner"
	"squeeze-radar/internal/snapshot"
	"squeeze-radar/internal/state"
	"squeeze-radar/internal/state/migrations"
	"squeeze-radar/internal/state/postgres"
	"squeeze-radar/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (defaults apply when empty)")
	snapshotDir := flag.String("snapshots", "", "Override snapshot directory")
	statePath := flag.String("state", "", "Override state file path (file backend)")
	outputDir := flag.String("out", "", "Override output directory")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *snapshotDir != "" {
		cfg.Snapshots.Dir = *snapshotDir
	}
	if *statePath != "" {
		cfg.State.Backend = "file"
		cfg.State.Path = *statePath
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	// The scheduler may kill slow ticks; propagate the signal as cancellation.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("cancelling run")
		cancel()
	}()

	stateStore, closeState, err := buildStateStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("state store unavailable")
		os.Exit(1)
	}
	defer closeState()

	var historyStore history.Store
	if cfg.History.Enabled {
		conn, err := history.NewConn(ctx, cfg.History.ClickhouseDSN)
		if err != nil {
			log.Warn().Err(err).Msg("alert history unavailable, continuing without it")
		} else {
			defer conn.Close()
			if err := conn.Migrate(ctx); err != nil {
				log.Warn().Err(err).Msg("alert history migration failed, continuing without it")
			} else {
				historyStore = history.NewClickhouseStore(conn)
			}
		}
	}

	metrics := observability.NewMetrics("")

	run := runner.New(runner.Options{
		Loader:     snapshot.NewLoader(cfg.Snapshots.Dir, log),
		Engine:     confluence.NewEngine(log),
		StateStore: stateStore,
		History:    historyStore,
		Metrics:    metrics,
		OutputDir:  cfg.Output.Dir,
		Cooldown:   cfg.Engine.Cooldown,
		Log:        log,
	})

	report, err := run.Run(ctx)

	if cfg.Metrics.PushgatewayURL != "" {
		if pushErr := metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); pushErr != nil {
			log.Warn().Err(pushErr).Msg("metrics push failed")
		}
	}

	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	fmt.Printf("Run completed: %d new alerts, %d candidates\n",
		len(report.Alerts), len(report.AllCandidates))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildStateStore creates the configured cooldown backend and a cleanup
// function for its connections.
func buildStateStore(ctx context.Context, cfg *config.Config) (state.Store, func(), error) {
	switch cfg.State.Backend {
	case "file":
		return state.NewFileStore(cfg.State.Path), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.State.Redis.Addr,
			Password: cfg.State.Redis.Password,
			DB:       cfg.State.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return state.NewRedisStore(client, cfg.State.Redis.Key), func() { client.Close() }, nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.State.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
}

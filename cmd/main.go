package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/okian/skillrank/internal/adapters/sink/csvfile"
	"github.com/okian/skillrank/internal/adapters/sink/redisboard"
	"github.com/okian/skillrank/internal/adapters/sqlstore"
	app "github.com/okian/skillrank/internal/app"
	"github.com/okian/skillrank/internal/config"
	"github.com/okian/skillrank/pkg/logger"
	"github.com/okian/skillrank/pkg/metrics"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Stdout)
	stop()
	if err != nil {
		os.Stderr.WriteString("skillrank: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// run loads configuration, replays the full history and writes the reports.
func run(ctx context.Context, out io.Writer) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitWithWriter(out, cfg.LogFormat); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN, sqlstore.WithSetsOrder(cfg.DBSetsOrder))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "closing database failed", logger.Error(err))
		}
	}()

	runID := uuid.NewString()
	sinks := []app.Sink{csvfile.New(cfg.OutputPath)}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() {
			_ = client.Close()
		}()
		sinks = append(sinks, redisboard.New(client, cfg.RedisKey, redisboard.WithRunID(runID)))
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithGateway(store),
		app.WithSinks(sinks...),
		app.WithRatingConfig(cfg.Rating()),
		app.WithProgressEvery(cfg.ProgressEvery),
		app.WithRunID(runID),
	)

	log.Info(ctx, "starting replay",
		logger.String("run_id", runID),
		logger.String("driver", cfg.DBDriver),
		logger.String("output", cfg.OutputPath),
	)

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "metrics export failed", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}

	log.Info(ctx, "run complete",
		logger.String("run_id", res.RunID),
		logger.Int("competitors", res.Competitors),
		logger.Int("matches", res.Replay.Applied),
		logger.Int("dropped", res.Dropped),
		logger.Duration("replay", res.Replay.Duration),
	)
	return nil
}

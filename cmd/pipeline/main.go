package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"t3-analytics/internal/config"
	"t3-analytics/internal/lake"
	"t3-analytics/internal/observability"
	"t3-analytics/internal/warehouse"
)

const runTimeout = 10 * time.Minute

func main() {
	daemon := flag.Bool("daemon", false, "run the incremental pipeline on a cron schedule")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	if *daemon {
		runDaemon(cfg, logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := runFull(ctx, cfg, logger); err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}
}

// runFull extracts the whole historical window, rebuilds the staging CSVs
// and overwrites the lake, dimensions included.
func runFull(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	start := time.Now()
	logger.Info("starting full pipeline run", "dsn", cfg.Warehouse.DSN, "lake_path", cfg.Lake.Path)

	extractor, err := warehouse.Open(cfg.Warehouse.DSN)
	if err != nil {
		return err
	}
	defer extractor.Close()

	var cutoff time.Time
	if cfg.Warehouse.HistoricalCutoff != "" {
		cutoff, err = time.Parse(time.DateTime, cfg.Warehouse.HistoricalCutoff)
		if err != nil {
			return err
		}
	}

	trucks, err := extractor.Trucks(ctx)
	if err != nil {
		return err
	}
	methods, err := extractor.PaymentMethods(ctx)
	if err != nil {
		return err
	}
	raw, err := extractor.Transactions(ctx, cutoff)
	if err != nil {
		return err
	}

	cleaned := warehouse.CleanTransactions(raw)
	logger.Info("extraction complete",
		"raw_rows", len(raw),
		"clean_rows", len(cleaned),
		"trucks", len(trucks),
		"payment_methods", len(methods),
	)

	if err := warehouse.WriteStagingCSVs(cfg.Warehouse.StagingDir, cleaned, trucks, methods); err != nil {
		return err
	}

	writer := lake.NewWriter(cfg.Lake.Path)
	if err := writer.WriteDimensions(ctx, trucks, methods); err != nil {
		return err
	}
	if err := writer.WriteTransactions(ctx, cleaned, lake.Overwrite); err != nil {
		return err
	}

	checkpoint := warehouse.NewCheckpoint(cfg.Lake.CheckpointFile)
	if last := warehouse.MaxTimestamp(cleaned); !last.IsZero() {
		if err := checkpoint.Advance(last); err != nil {
			return err
		}
	}

	logger.Info("full pipeline run complete", "duration", time.Since(start))
	return nil
}

// runIncremental appends everything newer than the checkpoint to the lake.
func runIncremental(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	start := time.Now()

	checkpoint := warehouse.NewCheckpoint(cfg.Lake.CheckpointFile)
	since, err := checkpoint.Last()
	if err != nil {
		return err
	}
	logger.Info("starting incremental pipeline run", "since", since)

	extractor, err := warehouse.Open(cfg.Warehouse.DSN)
	if err != nil {
		return err
	}
	defer extractor.Close()

	raw, err := extractor.TransactionsAfter(ctx, since)
	if err != nil {
		return err
	}

	cleaned := warehouse.CleanTransactions(raw)
	if len(cleaned) == 0 {
		logger.Info("no new transactions", "duration", time.Since(start))
		return nil
	}

	writer := lake.NewWriter(cfg.Lake.Path)
	if err := writer.WriteTransactions(ctx, cleaned, lake.Append); err != nil {
		return err
	}

	if err := checkpoint.Advance(warehouse.MaxTimestamp(cleaned)); err != nil {
		return err
	}

	logger.Info("incremental pipeline run complete",
		"new_rows", len(cleaned),
		"duration", time.Since(start),
	)
	return nil
}

func runDaemon(cfg *config.Config, logger *slog.Logger) {
	logger.Info("starting pipeline daemon", "cron", cfg.Scheduler.CronSpec)

	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.Scheduler.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := runIncremental(ctx, cfg, logger); err != nil {
			logger.Error("incremental run failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("invalid cron spec", "spec", cfg.Scheduler.CronSpec, "error", err)
		os.Exit(1)
	}

	scheduler.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown

	logger.Info("shutdown signal received", "signal", sig)
	<-scheduler.Stop().Done()
	logger.Info("pipeline daemon stopped")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"t3-analytics/internal/config"
	"t3-analytics/internal/lake"
	"t3-analytics/internal/metrics"
	"t3-analytics/internal/observability"
	"t3-analytics/internal/report"
)

const runTimeout = 5 * time.Minute

func main() {
	dateFlag := flag.String("date", "", "report date as YYYY-MM-DD, defaults to yesterday")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	date := time.Now().AddDate(0, 0, -1)
	if *dateFlag != "" {
		date, err = time.Parse(time.DateOnly, *dateFlag)
		if err != nil {
			logger.Error("invalid date", "date", *dateFlag, "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := run(ctx, cfg, logger, date); err != nil {
		logger.Error("report run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, date time.Time) error {
	dateLabel := date.Format(time.DateOnly)
	logger.Info("building daily report", "date", dateLabel, "lake_path", cfg.Lake.Path)

	querier := lake.NewQuerier(cfg.Lake.Path)
	txs, err := querier.TransactionsForDate(ctx, date)
	if err != nil {
		return err
	}

	data, err := report.Build(txs, date)
	if errors.Is(err, metrics.ErrEmptyTable) {
		logger.Warn("no transactions for report date, skipping", "date", dateLabel)
		return nil
	}
	if err != nil {
		return err
	}

	html, err := report.Render(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(cfg.Report.OutputDir, report.Filename(dateLabel))
	if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
		return err
	}
	logger.Info("report written", "path", outPath, "transactions", len(txs))

	if !cfg.Report.MailerConfigured() {
		logger.Info("SMTP not configured, skipping email delivery")
		return nil
	}

	mailer := report.NewMailer(cfg.Report)
	subject := fmt.Sprintf("T3 Daily Report %s", dateLabel)
	if err := mailer.Send(ctx, subject, html); err != nil {
		return fmt.Errorf("send report email: %w", err)
	}
	logger.Info("report emailed", "recipients", len(cfg.Report.Recipients))
	return nil
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"t3-analytics/internal/config"
	"t3-analytics/internal/lake"
	"t3-analytics/internal/middleware"
	"t3-analytics/internal/observability"
	"t3-analytics/internal/server"
	"t3-analytics/internal/services"
	"t3-analytics/internal/ui/templates"
)

const (
	renderTimeout   = 10 * time.Second
	initialLoadWait = 60 * time.Second
	cacheMaxAge     = "public, max-age=300"
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting dashboard",
		"addr", cfg.Address(),
		"lake_path", cfg.Lake.Path,
	)

	querier := lake.NewQuerier(cfg.Lake.Path)
	analytics := services.NewAnalytics(querier, logger)

	ctx, cancel := context.WithTimeout(context.Background(), initialLoadWait)
	defer cancel()

	start := time.Now()
	if err := analytics.Refresh(ctx); err != nil {
		logger.Error("initial lake load failed", "error", err)
		os.Exit(1)
	}
	logger.Info("lake data loaded", "duration", time.Since(start))

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(analytics, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("dashboard stopped gracefully")
}

package server

import (
	"log/slog"
	"net/http"

	"t3-analytics/internal/handlers"
	"t3-analytics/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("POST /admin/refresh", s.apiHandlers.HandleRefresh)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/truck-revenue", s.apiHandlers.HandleTruckRevenue)
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/cumulative-revenue", s.apiHandlers.HandleCumulativeRevenue)
	s.mux.HandleFunc("GET /api/hourly-averages", s.apiHandlers.HandleHourlyAverages)
	s.mux.HandleFunc("GET /api/payment-methods", s.apiHandlers.HandlePaymentMethods)
	s.mux.HandleFunc("GET /api/price-segments", s.apiHandlers.HandlePriceSegments)
	s.mux.HandleFunc("GET /api/velocity", s.apiHandlers.HandleVelocity)
	s.mux.HandleFunc("GET /api/underperformers", s.apiHandlers.HandleUnderperformers)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/cumulative-revenue", s.sseHandlers.HandleCumulativeRevenue)
	s.mux.HandleFunc("GET /sse/hourly-averages", s.sseHandlers.HandleHourlyAverages)
	s.mux.HandleFunc("GET /sse/payment-methods", s.sseHandlers.HandlePaymentMethods)
	s.mux.HandleFunc("GET /sse/price-segments", s.sseHandlers.HandlePriceSegments)
	s.mux.HandleFunc("GET /sse/velocity", s.sseHandlers.HandleVelocity)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"t3-analytics/internal/errors"
	"t3-analytics/internal/metrics"
	"t3-analytics/internal/models"
	"t3-analytics/internal/observability"
	"t3-analytics/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// truckFilter parses the optional ?trucks=a,b query parameter. A nil result
// means no filtering.
func truckFilter(r *http.Request) map[string]bool {
	raw := r.URL.Query().Get("trucks")
	if raw == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = true
		}
	}
	return set
}

// filterByTruck keeps rows whose truck name is in the set. Every per-truck
// view keeps the truck name queryable, so subsetting is plain membership.
func filterByTruck[T any](rows []T, set map[string]bool, truck func(T) string) []T {
	if set == nil {
		return rows
	}
	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if set[truck(row)] {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func writeCached(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleTruckRevenue(w http.ResponseWriter, r *http.Request) {
	data := filterByTruck(h.analytics.TruckRevenue(), truckFilter(r),
		func(row models.TruckRevenue) string { return row.TruckName })
	writeCached(w, data)
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, ok := h.analytics.KPIs()
	if !ok {
		requestID := observability.GetRequestID(r.Context())
		errors.WriteError(w, h.logger, errors.NotFound("no transaction data loaded"), requestID)
		return
	}
	writeCached(w, kpis)
}

func (h *APIHandlers) HandleCumulativeRevenue(w http.ResponseWriter, r *http.Request) {
	data := filterByTruck(h.analytics.CumulativeRevenue(), truckFilter(r),
		func(row models.CumulativePoint) string { return row.TruckName })
	writeCached(w, data)
}

func (h *APIHandlers) HandleHourlyAverages(w http.ResponseWriter, r *http.Request) {
	data := filterByTruck(h.analytics.HourlyAverages(), truckFilter(r),
		func(row models.HourlyAverage) string { return row.TruckName })
	writeCached(w, data)
}

func (h *APIHandlers) HandlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	data := filterByTruck(h.analytics.PaymentMethods(), truckFilter(r),
		func(row models.PaymentMethodCount) string { return row.TruckName })
	writeCached(w, data)
}

func (h *APIHandlers) HandlePriceSegments(w http.ResponseWriter, r *http.Request) {
	writeCached(w, h.analytics.PriceSegments())
}

func (h *APIHandlers) HandleVelocity(w http.ResponseWriter, r *http.Request) {
	data := filterByTruck(h.analytics.Velocity(), truckFilter(r),
		func(row models.TruckVelocity) string { return row.TruckName })
	writeCached(w, data)
}

func (h *APIHandlers) HandleUnderperformers(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	percentile := metrics.DefaultUnderperformerPercentile
	if raw := r.URL.Query().Get("percentile"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "percentile must be a number"), requestID)
			return
		}
		percentile = parsed
	}

	data, err := h.analytics.Underperformers(percentile)
	if err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, err.Error()), requestID)
		return
	}
	writeCached(w, data)
}

func (h *APIHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	if err := h.analytics.Refresh(r.Context()); err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "refresh failed"), requestID)
		return
	}
	errors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}
	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

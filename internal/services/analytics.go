package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"t3-analytics/internal/metrics"
	"t3-analytics/internal/models"
)

// defaultRefreshTTL matches the dashboard's upstream query cache window.
const defaultRefreshTTL = 5 * time.Minute

// TransactionSource supplies a fresh snapshot of the combined record table,
// typically the data-lake querier.
type TransactionSource interface {
	Transactions(ctx context.Context) ([]models.Transaction, error)
}

// PrecomputedData holds every derived view for one snapshot of the record
// table. Views are recomputed together so concurrent readers always see a
// consistent set.
type PrecomputedData struct {
	TruckRevenue    []models.TruckRevenue       `json:"truck_revenue"`
	KPIs            models.KPISummary           `json:"kpis"`
	HasKPIs         bool                        `json:"has_kpis"`
	Cumulative      []models.CumulativePoint    `json:"cumulative_revenue"`
	HourlyAverages  []models.HourlyAverage      `json:"hourly_averages"`
	PaymentMethods  []models.PaymentMethodCount `json:"payment_methods"`
	PriceSegments   []models.PriceSegmentRow    `json:"price_segments"`
	Velocity        []models.TruckVelocity      `json:"velocity"`
	Underperformers []models.TruckPerformance   `json:"underperformers"`
	RecordCount     int64                       `json:"record_count"`
	LastRefreshed   time.Time                   `json:"last_refreshed"`
}

type Analytics struct {
	mu          sync.RWMutex
	precomputed *PrecomputedData
	snapshot    []models.Transaction
	source      TransactionSource
	refreshTTL  time.Duration
	logger      *slog.Logger
}

func NewAnalytics(source TransactionSource, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		precomputed: &PrecomputedData{},
		source:      source,
		refreshTTL:  defaultRefreshTTL,
		logger:      logger,
	}
}

// SetData replaces the record table snapshot and recomputes every view.
func (a *Analytics) SetData(txs []models.Transaction) {
	pre := computeViews(txs)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot = txs
	a.precomputed = pre
}

// Refresh pulls a new snapshot from the source unconditionally.
func (a *Analytics) Refresh(ctx context.Context) error {
	if a.source == nil {
		return fmt.Errorf("analytics: no transaction source configured")
	}

	start := time.Now()
	txs, err := a.source.Transactions(ctx)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}

	a.SetData(txs)
	a.logger.Info("analytics snapshot refreshed",
		"records", len(txs),
		"duration", time.Since(start))
	return nil
}

// EnsureFresh refreshes only when the current snapshot is older than the TTL.
func (a *Analytics) EnsureFresh(ctx context.Context) error {
	a.mu.RLock()
	fresh := time.Since(a.precomputed.LastRefreshed) < a.refreshTTL
	a.mu.RUnlock()

	if fresh {
		return nil
	}
	return a.Refresh(ctx)
}

func computeViews(txs []models.Transaction) *PrecomputedData {
	pre := &PrecomputedData{
		Cumulative:     metrics.CumulativeRevenueSeries(txs),
		HourlyAverages: metrics.AverageTransactionByHour(txs),
		PaymentMethods: metrics.PaymentMethodDistribution(txs),
		PriceSegments:  metrics.PriceSegmentation(txs),
		Velocity:       metrics.TransactionVelocity(txs),
		RecordCount:    int64(len(txs)),
		LastRefreshed:  time.Now(),
	}

	totals := metrics.TotalRevenueByTruck(txs)
	pre.TruckRevenue = make([]models.TruckRevenue, 0, len(totals))
	for name, revenue := range totals {
		pre.TruckRevenue = append(pre.TruckRevenue, models.TruckRevenue{TruckName: name, TotalRevenue: revenue})
	}
	sortTruckRevenue(pre.TruckRevenue)

	// The empty-table errors are expected here: the KPI block is simply
	// flagged absent until data arrives.
	best, errBest := metrics.BestPerforming(txs)
	worst, errWorst := metrics.WorstPerforming(txs)
	avg, errAvg := metrics.AverageTruckRevenue(txs)
	if errBest == nil && errWorst == nil && errAvg == nil {
		pre.KPIs = models.KPISummary{
			BestTruck:         best,
			WorstTruck:        worst,
			AverageRevenue:    avg,
			BestVsAveragePct:  metrics.PercentageDifference(best.TotalRevenue, avg),
			WorstVsAveragePct: metrics.PercentageDifference(worst.TotalRevenue, avg),
		}
		pre.HasKPIs = true
	}

	// Precomputed with the default threshold; custom thresholds recompute
	// from the snapshot on demand.
	if rows, err := metrics.UnderperformingTrucks(txs, metrics.DefaultUnderperformerPercentile); err == nil {
		pre.Underperformers = rows
	}

	return pre
}

func sortTruckRevenue(rows []models.TruckRevenue) {
	slices.SortFunc(rows, func(a, b models.TruckRevenue) int {
		if a.TotalRevenue != b.TotalRevenue {
			if a.TotalRevenue > b.TotalRevenue {
				return -1
			}
			return 1
		}
		return strings.Compare(a.TruckName, b.TruckName)
	})
}

// Accessors return the precomputed slices directly; views are rebuilt, never
// mutated in place, so sharing them with readers is safe.

func (a *Analytics) TruckRevenue() []models.TruckRevenue {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.TruckRevenue
}

func (a *Analytics) KPIs() (models.KPISummary, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.KPIs, a.precomputed.HasKPIs
}

func (a *Analytics) CumulativeRevenue() []models.CumulativePoint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Cumulative
}

func (a *Analytics) HourlyAverages() []models.HourlyAverage {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.HourlyAverages
}

func (a *Analytics) PaymentMethods() []models.PaymentMethodCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.PaymentMethods
}

func (a *Analytics) PriceSegments() []models.PriceSegmentRow {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.PriceSegments
}

func (a *Analytics) Velocity() []models.TruckVelocity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.precomputed.Velocity
}

// Underperformers returns the precomputed default-threshold view when
// percentile is the default, and recomputes from the snapshot otherwise.
func (a *Analytics) Underperformers(percentile float64) ([]models.TruckPerformance, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if percentile == metrics.DefaultUnderperformerPercentile {
		return a.precomputed.Underperformers, nil
	}
	return metrics.UnderperformingTrucks(a.snapshot, percentile)
}

// Stats backs the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":   a.precomputed.RecordCount,
		"last_refreshed": a.precomputed.LastRefreshed,
		"trucks":         len(a.precomputed.TruckRevenue),
		"series_points":  len(a.precomputed.Cumulative),
	}
}

// Package metrics is the pure aggregation core. Every function takes a
// snapshot of the combined transaction table and returns a freshly built
// derived view; the input is never mutated and no state is retained between
// calls.
package metrics

import (
	"errors"

	"t3-analytics/internal/models"
)

// ErrEmptyTable is returned by aggregations that need at least one record.
var ErrEmptyTable = errors.New("metrics: empty transaction table")

// TotalRevenueByTruck sums Total per truck. Trucks with no records are
// absent from the map; there are never zero-valued entries.
func TotalRevenueByTruck(txs []models.Transaction) map[string]float64 {
	totals := make(map[string]float64, 8)
	for _, tx := range txs {
		totals[tx.TruckName] += tx.Total
	}
	return totals
}

// BestPerforming returns the truck with the highest total revenue. Ties are
// broken by the lexicographically smallest truck name so repeated runs over
// the same table always agree.
func BestPerforming(txs []models.Transaction) (models.TruckRevenue, error) {
	return selectByRevenue(txs, func(candidate, current models.TruckRevenue) bool {
		if candidate.TotalRevenue != current.TotalRevenue {
			return candidate.TotalRevenue > current.TotalRevenue
		}
		return candidate.TruckName < current.TruckName
	})
}

// WorstPerforming returns the truck with the lowest total revenue, with the
// same lexicographic tie-break as BestPerforming.
func WorstPerforming(txs []models.Transaction) (models.TruckRevenue, error) {
	return selectByRevenue(txs, func(candidate, current models.TruckRevenue) bool {
		if candidate.TotalRevenue != current.TotalRevenue {
			return candidate.TotalRevenue < current.TotalRevenue
		}
		return candidate.TruckName < current.TruckName
	})
}

func selectByRevenue(txs []models.Transaction, better func(candidate, current models.TruckRevenue) bool) (models.TruckRevenue, error) {
	totals := TotalRevenueByTruck(txs)
	if len(totals) == 0 {
		return models.TruckRevenue{}, ErrEmptyTable
	}

	var selected models.TruckRevenue
	first := true
	for name, revenue := range totals {
		candidate := models.TruckRevenue{TruckName: name, TotalRevenue: revenue}
		if first || better(candidate, selected) {
			selected = candidate
			first = false
		}
	}
	return selected, nil
}

// AverageTruckRevenue is the unweighted mean of the per-truck totals: each
// truck counts once regardless of how many transactions it has.
func AverageTruckRevenue(txs []models.Transaction) (float64, error) {
	totals := TotalRevenueByTruck(txs)
	if len(totals) == 0 {
		return 0, ErrEmptyTable
	}

	var sum float64
	for _, revenue := range totals {
		sum += revenue
	}
	return sum / float64(len(totals)), nil
}

// PercentageDifference reports how far value sits from reference, as a
// percentage of reference. A zero reference returns exactly 0.0 by contract;
// callers must not add their own zero guard.
func PercentageDifference(value, reference float64) float64 {
	if reference == 0 {
		return 0.0
	}
	return ((value - reference) / reference) * 100
}

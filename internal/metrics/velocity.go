package metrics

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"t3-analytics/internal/models"
)

// DefaultUnderperformerPercentile is the threshold used by the daily report.
const DefaultUnderperformerPercentile = 25.0

// InvalidPercentileError reports a threshold outside [0, 100]. The value is
// never clamped.
type InvalidPercentileError struct {
	Percentile float64
}

func (e *InvalidPercentileError) Error() string {
	return fmt.Sprintf("metrics: percentile %v outside [0, 100]", e.Percentile)
}

// TransactionVelocity measures how efficiently each truck converts open hours
// into revenue. Counts and revenue are first totalled per (truck,
// hour-of-day) bucket, then averaged across the buckets the truck was
// actually observed in; the averages are per-bucket, not per-transaction.
// Revenue per transaction is the ratio of the two means (0 if the count mean
// is 0). Sorted by average revenue per hour descending, name ascending on
// ties.
func TransactionVelocity(txs []models.Transaction) []models.TruckVelocity {
	type truckHour struct {
		truck string
		hour  int
	}
	type bucket struct {
		count   int
		revenue float64
	}

	buckets := make(map[truckHour]*bucket)
	for _, tx := range txs {
		key := truckHour{truck: tx.TruckName, hour: tx.Timestamp.Hour()}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.revenue += tx.Total
	}

	type truckTotals struct {
		hours   int
		count   int
		revenue float64
	}
	perTruck := make(map[string]*truckTotals)
	for key, b := range buckets {
		t := perTruck[key.truck]
		if t == nil {
			t = &truckTotals{}
			perTruck[key.truck] = t
		}
		t.hours++
		t.count += b.count
		t.revenue += b.revenue
	}

	rows := make([]models.TruckVelocity, 0, len(perTruck))
	for name, t := range perTruck {
		avgCount := float64(t.count) / float64(t.hours)
		avgRevenue := t.revenue / float64(t.hours)
		var perTx float64
		if avgCount > 0 {
			perTx = avgRevenue / avgCount
		}
		rows = append(rows, models.TruckVelocity{
			TruckName:              name,
			AvgTransactionsPerHour: avgCount,
			AvgRevenuePerHour:      avgRevenue,
			RevenuePerTransaction:  perTx,
		})
	}

	slices.SortFunc(rows, func(a, b models.TruckVelocity) int {
		if a.AvgRevenuePerHour != b.AvgRevenuePerHour {
			if a.AvgRevenuePerHour > b.AvgRevenuePerHour {
				return -1
			}
			return 1
		}
		return strings.Compare(a.TruckName, b.TruckName)
	})
	return rows
}

// UnderperformingTrucks lists trucks whose total revenue falls strictly below
// the given percentile of the per-truck revenue distribution (not the
// per-transaction one), ascending by revenue. thresholdPercentile must lie in
// [0, 100].
func UnderperformingTrucks(txs []models.Transaction, thresholdPercentile float64) ([]models.TruckPerformance, error) {
	if thresholdPercentile < 0 || thresholdPercentile > 100 {
		return nil, &InvalidPercentileError{Percentile: thresholdPercentile}
	}

	type truckStats struct {
		revenue float64
		count   int
	}
	perTruck := make(map[string]*truckStats)
	for _, tx := range txs {
		t := perTruck[tx.TruckName]
		if t == nil {
			t = &truckStats{}
			perTruck[tx.TruckName] = t
		}
		t.revenue += tx.Total
		t.count++
	}
	if len(perTruck) == 0 {
		return []models.TruckPerformance{}, nil
	}

	revenues := make([]float64, 0, len(perTruck))
	for _, t := range perTruck {
		revenues = append(revenues, t.revenue)
	}
	threshold := percentile(revenues, thresholdPercentile)

	rows := make([]models.TruckPerformance, 0)
	for name, t := range perTruck {
		if t.revenue >= threshold {
			continue
		}
		rows = append(rows, models.TruckPerformance{
			TruckName:             name,
			TotalRevenue:          t.revenue,
			TransactionCount:      t.count,
			RevenuePerTransaction: t.revenue / float64(t.count),
		})
	}

	slices.SortFunc(rows, func(a, b models.TruckPerformance) int {
		if a.TotalRevenue != b.TotalRevenue {
			if a.TotalRevenue < b.TotalRevenue {
				return -1
			}
			return 1
		}
		return strings.Compare(a.TruckName, b.TruckName)
	})
	return rows, nil
}

// percentile interpolates linearly between closest ranks, so the 0th
// percentile is the minimum and the 100th the maximum. values must be
// non-empty and p within [0, 100]; callers validate both.
func percentile(values []float64, p float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

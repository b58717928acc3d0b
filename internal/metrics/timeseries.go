package metrics

import (
	"slices"
	"strings"

	"t3-analytics/internal/models"
)

// dateLayout keeps cumulative-series dates sortable as plain strings.
const dateLayout = "2006-01-02"

// CumulativeRevenueSeries builds the per-truck running revenue total over
// calendar days. Daily totals are summed per (truck, date), ordered by date,
// and prefix-summed independently for each truck: the running total restarts
// at zero for every truck's own first day. Timestamps are taken as already
// being in the reporting timezone.
func CumulativeRevenueSeries(txs []models.Transaction) []models.CumulativePoint {
	type truckDate struct {
		truck string
		date  string
	}

	daily := make(map[truckDate]float64)
	for _, tx := range txs {
		key := truckDate{truck: tx.TruckName, date: tx.Timestamp.Format(dateLayout)}
		daily[key] += tx.Total
	}

	points := make([]models.CumulativePoint, 0, len(daily))
	for key, total := range daily {
		points = append(points, models.CumulativePoint{
			TruckName:       key.truck,
			Date:            key.date,
			CumulativeTotal: total,
		})
	}

	slices.SortFunc(points, func(a, b models.CumulativePoint) int {
		if c := strings.Compare(a.TruckName, b.TruckName); c != 0 {
			return c
		}
		return strings.Compare(a.Date, b.Date)
	})

	// Prefix-sum within each truck's date-ordered run.
	var running float64
	var current string
	for i := range points {
		if points[i].TruckName != current {
			current = points[i].TruckName
			running = 0
		}
		running += points[i].CumulativeTotal
		points[i].CumulativeTotal = running
	}
	return points
}

// AverageTransactionByHour averages transaction amounts per (truck,
// hour-of-day). Hours with no transactions for a truck are absent from the
// result. Sorted by truck name, then hour ascending.
func AverageTransactionByHour(txs []models.Transaction) []models.HourlyAverage {
	type truckHour struct {
		truck string
		hour  int
	}
	type bucket struct {
		sum   float64
		count int
	}

	buckets := make(map[truckHour]*bucket)
	for _, tx := range txs {
		key := truckHour{truck: tx.TruckName, hour: tx.Timestamp.Hour()}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += tx.Total
		b.count++
	}

	averages := make([]models.HourlyAverage, 0, len(buckets))
	for key, b := range buckets {
		averages = append(averages, models.HourlyAverage{
			TruckName:     key.truck,
			HourOfDay:     key.hour,
			AverageAmount: b.sum / float64(b.count),
		})
	}

	slices.SortFunc(averages, func(a, b models.HourlyAverage) int {
		if c := strings.Compare(a.TruckName, b.TruckName); c != 0 {
			return c
		}
		return a.HourOfDay - b.HourOfDay
	})
	return averages
}

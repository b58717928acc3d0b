package metrics

import (
	"slices"
	"strings"

	"t3-analytics/internal/models"
)

// Price segment labels, ordered cheapest first.
const (
	SegmentLow    = "Low"
	SegmentMedium = "Medium"
	SegmentHigh   = "High"
)

const (
	lowSegmentMax    = 5.0
	mediumSegmentMax = 10.0
)

var segmentOrder = [3]string{SegmentLow, SegmentMedium, SegmentHigh}

// PriceSegment classifies one transaction amount. Boundaries belong to the
// lower segment: exactly 5.0 is Low, exactly 10.0 is Medium.
func PriceSegment(amount float64) string {
	switch {
	case amount <= lowSegmentMax:
		return SegmentLow
	case amount <= mediumSegmentMax:
		return SegmentMedium
	default:
		return SegmentHigh
	}
}

// PaymentMethodDistribution counts transactions per (truck, payment method).
// Unobserved combinations produce no rows. Sorted by truck, then method.
func PaymentMethodDistribution(txs []models.Transaction) []models.PaymentMethodCount {
	type truckMethod struct {
		truck  string
		method string
	}

	counts := make(map[truckMethod]int)
	for _, tx := range txs {
		counts[truckMethod{truck: tx.TruckName, method: tx.PaymentMethod}]++
	}

	rows := make([]models.PaymentMethodCount, 0, len(counts))
	for key, n := range counts {
		rows = append(rows, models.PaymentMethodCount{
			TruckName:     key.truck,
			PaymentMethod: key.method,
			Count:         n,
		})
	}

	slices.SortFunc(rows, func(a, b models.PaymentMethodCount) int {
		if c := strings.Compare(a.TruckName, b.TruckName); c != 0 {
			return c
		}
		return strings.Compare(a.PaymentMethod, b.PaymentMethod)
	})
	return rows
}

// PriceSegmentation buckets every transaction into Low/Medium/High and
// reports count, revenue and each segment's share of the grand totals. The
// result always has exactly three rows in Low, Medium, High order; empty
// segments appear with zero counts so downstream max-by-value lookups stay
// well defined. Shares are 0 when the table itself is empty.
func PriceSegmentation(txs []models.Transaction) []models.PriceSegmentRow {
	counts := make(map[string]int, 3)
	revenue := make(map[string]float64, 3)
	for _, tx := range txs {
		segment := PriceSegment(tx.Total)
		counts[segment]++
		revenue[segment] += tx.Total
	}

	var totalCount int
	var totalRevenue float64
	for _, segment := range segmentOrder {
		totalCount += counts[segment]
		totalRevenue += revenue[segment]
	}

	rows := make([]models.PriceSegmentRow, 0, 3)
	for _, segment := range segmentOrder {
		row := models.PriceSegmentRow{
			Segment: segment,
			Count:   counts[segment],
			Revenue: revenue[segment],
		}
		if totalCount > 0 {
			row.PctOfTransactions = float64(row.Count) / float64(totalCount) * 100
		}
		if totalRevenue > 0 {
			row.PctOfRevenue = row.Revenue / totalRevenue * 100
		}
		rows = append(rows, row)
	}
	return rows
}

// Package report builds the daily business-intelligence report from one
// day's slice of the record table and renders it as email-compatible HTML.
package report

import (
	"fmt"
	"time"

	"t3-analytics/internal/metrics"
	"t3-analytics/internal/models"
)

// Data is everything one rendered report needs.
type Data struct {
	Date            string
	TotalRevenue    float64
	BestTruck       models.TruckRevenue
	WorstTruck      models.TruckRevenue
	MostDemanded    models.PriceSegmentRow
	DominantSegment models.PriceSegmentRow
	PriceSegments   []models.PriceSegmentRow
	Underperformers []models.TruckPerformance
	Velocity        []models.TruckVelocity
	GeneratedYear   int
}

// Build assembles the report metrics for the given reporting date. An empty
// table is an error: a report with no transactions has nothing to say and
// the caller should know the day's data is missing.
func Build(txs []models.Transaction, date time.Time) (Data, error) {
	best, err := metrics.BestPerforming(txs)
	if err != nil {
		return Data{}, fmt.Errorf("build report for %s: %w", date.Format("2006-01-02"), err)
	}
	worst, err := metrics.WorstPerforming(txs)
	if err != nil {
		return Data{}, fmt.Errorf("build report for %s: %w", date.Format("2006-01-02"), err)
	}

	var total float64
	for _, tx := range txs {
		total += tx.Total
	}

	segments := metrics.PriceSegmentation(txs)
	underperformers, err := metrics.UnderperformingTrucks(txs, metrics.DefaultUnderperformerPercentile)
	if err != nil {
		return Data{}, fmt.Errorf("build report for %s: %w", date.Format("2006-01-02"), err)
	}

	return Data{
		Date:            date.Format("2006-01-02"),
		TotalRevenue:    total,
		BestTruck:       best,
		WorstTruck:      worst,
		MostDemanded:    maxByCount(segments),
		DominantSegment: maxByRevenueShare(segments),
		PriceSegments:   segments,
		Underperformers: underperformers,
		Velocity:        metrics.TransactionVelocity(txs),
		GeneratedYear:   time.Now().Year(),
	}, nil
}

// Segmentation always yields its three rows, so both max lookups are well
// defined; ties keep the cheaper segment.
func maxByCount(rows []models.PriceSegmentRow) models.PriceSegmentRow {
	selected := rows[0]
	for _, row := range rows[1:] {
		if row.Count > selected.Count {
			selected = row
		}
	}
	return selected
}

func maxByRevenueShare(rows []models.PriceSegmentRow) models.PriceSegmentRow {
	selected := rows[0]
	for _, row := range rows[1:] {
		if row.PctOfRevenue > selected.PctOfRevenue {
			selected = row
		}
	}
	return selected
}

package metrics

import (
	"errors"
	"math"
	"testing"
	"time"

	"t3-analytics/internal/models"
)

func tx(truck string, total float64, at time.Time) models.Transaction {
	return models.Transaction{
		TruckName:     truck,
		PaymentMethod: "card",
		Total:         total,
		Timestamp:     at,
	}
}

func sameDayTable() []models.Transaction {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	return []models.Transaction{
		tx("A", 3, day),
		tx("A", 12, day),
		tx("B", 6, day),
		tx("B", 6, day),
		tx("B", 6, day),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTotalRevenueByTruck(t *testing.T) {
	totals := TotalRevenueByTruck(sameDayTable())

	if len(totals) != 2 {
		t.Fatalf("expected 2 trucks, got %d", len(totals))
	}
	if totals["A"] != 15 {
		t.Errorf("truck A total = %v, want 15", totals["A"])
	}
	if totals["B"] != 18 {
		t.Errorf("truck B total = %v, want 18", totals["B"])
	}
}

func TestTotalRevenueByTruck_Conservation(t *testing.T) {
	table := sameDayTable()

	var recordSum float64
	for _, tx := range table {
		recordSum += tx.Total
	}

	var truckSum float64
	for _, revenue := range TotalRevenueByTruck(table) {
		truckSum += revenue
	}

	if !almostEqual(recordSum, truckSum) {
		t.Errorf("per-truck totals sum to %v, records sum to %v", truckSum, recordSum)
	}
}

func TestTotalRevenueByTruck_Empty(t *testing.T) {
	totals := TotalRevenueByTruck(nil)
	if len(totals) != 0 {
		t.Errorf("expected empty map, got %v", totals)
	}
}

func TestBestAndWorstPerforming(t *testing.T) {
	table := sameDayTable()

	best, err := BestPerforming(table)
	if err != nil {
		t.Fatalf("BestPerforming: %v", err)
	}
	if best.TruckName != "B" || best.TotalRevenue != 18 {
		t.Errorf("best = %+v, want B/18", best)
	}

	worst, err := WorstPerforming(table)
	if err != nil {
		t.Fatalf("WorstPerforming: %v", err)
	}
	if worst.TruckName != "A" || worst.TotalRevenue != 15 {
		t.Errorf("worst = %+v, want A/15", worst)
	}
}

func TestBestPerforming_TieBreaksLexicographically(t *testing.T) {
	day := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	table := []models.Transaction{
		tx("zeta", 10, day),
		tx("alpha", 10, day),
		tx("mid", 4, day),
	}

	best, err := BestPerforming(table)
	if err != nil {
		t.Fatal(err)
	}
	if best.TruckName != "alpha" {
		t.Errorf("tied best = %q, want alpha", best.TruckName)
	}

	worstTable := []models.Transaction{
		tx("zeta", 2, day),
		tx("alpha", 2, day),
		tx("mid", 9, day),
	}
	worst, err := WorstPerforming(worstTable)
	if err != nil {
		t.Fatal(err)
	}
	if worst.TruckName != "alpha" {
		t.Errorf("tied worst = %q, want alpha", worst.TruckName)
	}
}

func TestAverageTruckRevenue(t *testing.T) {
	avg, err := AverageTruckRevenue(sameDayTable())
	if err != nil {
		t.Fatalf("AverageTruckRevenue: %v", err)
	}
	if !almostEqual(avg, 16.5) {
		t.Errorf("average = %v, want 16.5", avg)
	}
}

func TestEmptyTableAggregations(t *testing.T) {
	if _, err := BestPerforming(nil); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("BestPerforming on empty table: err = %v, want ErrEmptyTable", err)
	}
	if _, err := WorstPerforming(nil); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("WorstPerforming on empty table: err = %v, want ErrEmptyTable", err)
	}
	if _, err := AverageTruckRevenue(nil); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("AverageTruckRevenue on empty table: err = %v, want ErrEmptyTable", err)
	}
}

func TestPercentageDifference(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		reference float64
		want      float64
	}{
		{"worst vs average", 15, 16.5, -9.090909090909092},
		{"above reference", 20, 10, 100},
		{"below reference", 5, 10, -50},
		{"equal", 7, 7, 0},
		{"zero reference guard", 42, 0, 0},
		{"zero reference with zero value", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentageDifference(tt.value, tt.reference)
			if !almostEqual(got, tt.want) {
				t.Errorf("PercentageDifference(%v, %v) = %v, want %v", tt.value, tt.reference, got, tt.want)
			}
		})
	}
}

func TestAggregationsDoNotMutateInput(t *testing.T) {
	table := sameDayTable()
	snapshot := make([]models.Transaction, len(table))
	copy(snapshot, table)

	TotalRevenueByTruck(table)
	_, _ = BestPerforming(table)
	_, _ = AverageTruckRevenue(table)
	CumulativeRevenueSeries(table)
	AverageTransactionByHour(table)
	PaymentMethodDistribution(table)
	PriceSegmentation(table)
	TransactionVelocity(table)
	_, _ = UnderperformingTrucks(table, DefaultUnderperformerPercentile)

	for i := range table {
		if table[i] != snapshot[i] {
			t.Fatalf("record %d mutated: %+v != %+v", i, table[i], snapshot[i])
		}
	}
}

package metrics

import (
	"testing"
	"time"

	"t3-analytics/internal/models"
)

func TestPaymentMethodDistribution(t *testing.T) {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	table := []models.Transaction{
		{TruckName: "A", PaymentMethod: "card", Total: 5, Timestamp: day},
		{TruckName: "A", PaymentMethod: "card", Total: 6, Timestamp: day},
		{TruckName: "A", PaymentMethod: "cash", Total: 2, Timestamp: day},
		{TruckName: "B", PaymentMethod: "cash", Total: 4, Timestamp: day},
	}

	rows := PaymentMethodDistribution(table)

	want := []models.PaymentMethodCount{
		{TruckName: "A", PaymentMethod: "card", Count: 2},
		{TruckName: "A", PaymentMethod: "cash", Count: 1},
		{TruckName: "B", PaymentMethod: "cash", Count: 1},
	}

	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

// No synthetic zero rows: truck B never paid by card, so no (B, card) row.
func TestPaymentMethodDistribution_NoZeroRows(t *testing.T) {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	table := []models.Transaction{
		{TruckName: "A", PaymentMethod: "card", Total: 5, Timestamp: day},
		{TruckName: "B", PaymentMethod: "cash", Total: 4, Timestamp: day},
	}

	for _, row := range PaymentMethodDistribution(table) {
		if row.Count == 0 {
			t.Errorf("unexpected zero row %+v", row)
		}
	}
}

func TestPriceSegment_Boundaries(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0.01, SegmentLow},
		{5.0, SegmentLow},
		{5.01, SegmentMedium},
		{10.0, SegmentMedium},
		{10.01, SegmentHigh},
		{99, SegmentHigh},
	}

	for _, tt := range tests {
		if got := PriceSegment(tt.amount); got != tt.want {
			t.Errorf("PriceSegment(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestPriceSegmentation(t *testing.T) {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	table := []models.Transaction{
		tx("A", 3, day),    // Low
		tx("A", 5, day),    // Low (inclusive boundary)
		tx("B", 8, day),    // Medium
		tx("B", 12.5, day), // High
	}

	rows := PriceSegmentation(table)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want exactly 3", len(rows))
	}
	if rows[0].Segment != SegmentLow || rows[1].Segment != SegmentMedium || rows[2].Segment != SegmentHigh {
		t.Fatalf("segment order = %q, %q, %q", rows[0].Segment, rows[1].Segment, rows[2].Segment)
	}

	if rows[0].Count != 2 || rows[0].Revenue != 8 {
		t.Errorf("Low = %+v, want count 2 revenue 8", rows[0])
	}
	if rows[1].Count != 1 || rows[1].Revenue != 8 {
		t.Errorf("Medium = %+v, want count 1 revenue 8", rows[1])
	}
	if rows[2].Count != 1 || rows[2].Revenue != 12.5 {
		t.Errorf("High = %+v, want count 1 revenue 12.5", rows[2])
	}

	if !almostEqual(rows[0].PctOfTransactions, 50) {
		t.Errorf("Low pct of transactions = %v, want 50", rows[0].PctOfTransactions)
	}
	if !almostEqual(rows[2].PctOfRevenue, 12.5/28.5*100) {
		t.Errorf("High pct of revenue = %v", rows[2].PctOfRevenue)
	}
}

// Counts and revenues across the three rows must reconcile with the table,
// and percentage shares must sum to 100 for a non-empty table.
func TestPriceSegmentation_Totals(t *testing.T) {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	table := []models.Transaction{
		tx("A", 1.5, day),
		tx("A", 7, day),
		tx("B", 11, day),
		tx("B", 2, day),
		tx("C", 20, day),
	}

	rows := PriceSegmentation(table)

	var count int
	var revenue, pctTx, pctRev float64
	for _, row := range rows {
		count += row.Count
		revenue += row.Revenue
		pctTx += row.PctOfTransactions
		pctRev += row.PctOfRevenue
	}

	if count != len(table) {
		t.Errorf("segment counts sum to %d, table has %d records", count, len(table))
	}
	if !almostEqual(revenue, 41.5) {
		t.Errorf("segment revenues sum to %v, want 41.5", revenue)
	}
	if !almostEqual(pctTx, 100) || !almostEqual(pctRev, 100) {
		t.Errorf("shares sum to %v%% / %v%%, want 100/100", pctTx, pctRev)
	}
}

// Empty segments still appear, with zero counts and shares.
func TestPriceSegmentation_EmptySegmentsPresent(t *testing.T) {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	rows := PriceSegmentation([]models.Transaction{tx("A", 50, day)})

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].Count != 0 || rows[1].Count != 0 || rows[2].Count != 1 {
		t.Errorf("counts = %d, %d, %d; want 0, 0, 1", rows[0].Count, rows[1].Count, rows[2].Count)
	}
}

func TestPriceSegmentation_EmptyTable(t *testing.T) {
	rows := PriceSegmentation(nil)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 even for an empty table", len(rows))
	}
	for _, row := range rows {
		if row.Count != 0 || row.Revenue != 0 || row.PctOfTransactions != 0 || row.PctOfRevenue != 0 {
			t.Errorf("non-zero row for empty table: %+v", row)
		}
	}
}

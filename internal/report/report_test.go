package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"t3-analytics/internal/metrics"
	"t3-analytics/internal/models"
)

func dayTable() []models.Transaction {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	return []models.Transaction{
		{TransactionID: 1, TruckName: "Burrito Madness", PaymentMethod: "card", Total: 4.5, Timestamp: day},
		{TransactionID: 2, TruckName: "Burrito Madness", PaymentMethod: "card", Total: 8, Timestamp: day.Add(time.Hour)},
		{TransactionID: 3, TruckName: "Kings of Kebabs", PaymentMethod: "cash", Total: 12, Timestamp: day},
		{TransactionID: 4, TruckName: "Cupcakes by Michelle", PaymentMethod: "card", Total: 2, Timestamp: day},
		{TransactionID: 5, TruckName: "Hartmann's Jellied Eels", PaymentMethod: "cash", Total: 3, Timestamp: day},
	}
}

func TestBuild(t *testing.T) {
	date := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	data, err := Build(dayTable(), date)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if data.Date != "2025-10-20" {
		t.Errorf("date = %q", data.Date)
	}
	if data.TotalRevenue != 29.5 {
		t.Errorf("total revenue = %v, want 29.5", data.TotalRevenue)
	}
	if data.BestTruck.TruckName != "Burrito Madness" {
		t.Errorf("best truck = %q", data.BestTruck.TruckName)
	}
	if data.WorstTruck.TruckName != "Cupcakes by Michelle" {
		t.Errorf("worst truck = %q", data.WorstTruck.TruckName)
	}
	if data.MostDemanded.Segment != metrics.SegmentLow {
		t.Errorf("most demanded segment = %q, want Low", data.MostDemanded.Segment)
	}
	if len(data.PriceSegments) != 3 {
		t.Errorf("price segments = %d rows, want 3", len(data.PriceSegments))
	}
	if len(data.Velocity) != 4 {
		t.Errorf("velocity = %d rows, want 4", len(data.Velocity))
	}
}

func TestBuild_EmptyTable(t *testing.T) {
	_, err := Build(nil, time.Now())
	if !errors.Is(err, metrics.ErrEmptyTable) {
		t.Errorf("Build on empty table: err = %v, want ErrEmptyTable", err)
	}
}

func TestRender(t *testing.T) {
	data, err := Build(dayTable(), time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	html, err := Render(data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"Report Date: 2025-10-20",
		"Executive Summary",
		"Burrito Madness",
		"Cupcakes by Michelle",
		"Cost Reduction Opportunities",
		"Profit Optimization Strategies",
		"Price Point Demand Analysis",
		"&pound;29.50",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestRender_NoUnderperformers(t *testing.T) {
	day := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	// Equal totals: the strict percentile comparison flags nobody.
	table := []models.Transaction{
		{TransactionID: 1, TruckName: "A", PaymentMethod: "card", Total: 10, Timestamp: day},
		{TransactionID: 2, TruckName: "B", PaymentMethod: "card", Total: 10, Timestamp: day},
	}

	data, err := Build(table, day)
	if err != nil {
		t.Fatal(err)
	}
	html, err := Render(data)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(html, "No underperforming trucks identified") {
		t.Error("report should show the empty-underperformers message")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("2025-10-20"); got != "t3_daily_report_2025-10-20.html" {
		t.Errorf("Filename = %q", got)
	}
}

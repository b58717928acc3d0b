package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"t3-analytics/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	logger := quietLogger()

	handlers := NewSSEHandlers(analytics, logger)

	if handlers == nil {
		t.Error("NewSSEHandlers() returned nil")
	}

	if handlers.analytics != analytics {
		t.Error("NewSSEHandlers() should set analytics field")
	}

	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_renderVelocityTable(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewSSEHandlers(analytics, quietLogger())

	testData := []models.TruckVelocity{
		{
			TruckName:              "Burrito Madness",
			AvgTransactionsPerHour: 1.5,
			AvgRevenuePerHour:      15.0,
			RevenuePerTransaction:  10.0,
		},
		{
			TruckName:              "Cupcakes by Michelle",
			AvgTransactionsPerHour: 1.0,
			AvgRevenuePerHour:      4.25,
			RevenuePerTransaction:  4.25,
		},
	}

	html, err := handlers.renderVelocityTable(testData)
	if err != nil {
		t.Fatalf("renderVelocityTable() failed: %v", err)
	}

	expectedContent := []string{
		"<table class=\"modern-table\">",
		"<thead>",
		"<th>Truck</th>",
		"<th>Avg Transactions/Hour</th>",
		"<th>Avg Revenue/Hour</th>",
		"<th>Revenue/Transaction</th>",
		"Burrito Madness",
		"15.00",
		"Cupcakes by Michelle",
		"4.25",
	}

	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestSSEHandlers_renderVelocityTable_LargeDataset(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewSSEHandlers(analytics, quietLogger())

	// Larger than maxTableRows so the output gets truncated.
	testData := make([]models.TruckVelocity, 75)
	for i := 0; i < 75; i++ {
		testData[i] = models.TruckVelocity{
			TruckName:              fmt.Sprintf("Truck %d", i),
			AvgTransactionsPerHour: float64(i),
			AvgRevenuePerHour:      float64(i * 10),
			RevenuePerTransaction:  10,
		}
	}

	html, err := handlers.renderVelocityTable(testData)
	if err != nil {
		t.Fatalf("renderVelocityTable() failed: %v", err)
	}

	rowCount := strings.Count(html, "<tr>") - 1 // header row
	if rowCount > maxTableRows {
		t.Errorf("expected max %d rows, got %d", maxTableRows, rowCount)
	}
}

func TestSSEHandlers_HandleVelocity(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewSSEHandlers(analytics, quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/velocity", nil)
	w := httptest.NewRecorder()

	handlers.HandleVelocity(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}

	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected cache-control 'no-cache', got %q", cc)
	}

	body := w.Body.String()
	if body == "" {
		t.Error("expected non-empty SSE response")
	}

	if !strings.Contains(body, "velocity-content") {
		t.Error("expected SSE response to patch the velocity panel")
	}

	if !strings.Contains(body, "Burrito Madness") {
		t.Error("expected SSE response to include truck rows")
	}
}

func TestSSEHandlers_SignalEndpoints(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewSSEHandlers(analytics, quietLogger())

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		path       string
		wantSignal string
	}{
		{"cumulative-revenue", handlers.HandleCumulativeRevenue, "/sse/cumulative-revenue", "cumulativeData"},
		{"hourly-averages", handlers.HandleHourlyAverages, "/sse/hourly-averages", "hourlyData"},
		{"payment-methods", handlers.HandlePaymentMethods, "/sse/payment-methods", "paymentData"},
		{"price-segments", handlers.HandlePriceSegments, "/sse/price-segments", "segmentData"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
				t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
			}

			body := w.Body.String()
			if !strings.Contains(body, tt.wantSignal) {
				t.Errorf("expected SSE response to carry signal %q", tt.wantSignal)
			}
		})
	}
}

func TestSSEHandlers_HandleCumulativeRevenue_Filter(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewSSEHandlers(analytics, quietLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/cumulative-revenue?trucks=Burrito+Madness", nil)
	w := httptest.NewRecorder()

	handlers.HandleCumulativeRevenue(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "Burrito Madness") {
		t.Error("expected filtered truck in SSE response")
	}
	if strings.Contains(body, "Cupcakes by Michelle") {
		t.Error("filtered-out truck should not appear in SSE response")
	}
}

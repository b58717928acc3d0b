package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"t3-analytics/internal/models"
	"t3-analytics/internal/services"
)

const maxTableRows = 50

var velocityTableTemplate = template.Must(template.New("velocityTable").Parse(`
<div id="velocity-content">
<table class="modern-table">
<thead><tr><th>Truck</th><th>Avg Transactions/Hour</th><th>Avg Revenue/Hour</th><th>Revenue/Transaction</th></tr></thead>
<tbody>
{{range $i, $row := .Data}}{{if lt $i $.MaxRows}}<tr>
<td>{{.TruckName}}</td>
<td>{{printf "%.2f" .AvgTransactionsPerHour}}</td>
<td><strong>&pound;{{printf "%.2f" .AvgRevenuePerHour}}</strong></td>
<td>&pound;{{printf "%.2f" .RevenuePerTransaction}}</td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type templateData struct {
	Data    any
	MaxRows int
}

func (h *SSEHandlers) renderVelocityTable(rows []models.TruckVelocity) (string, error) {
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}

	var buf strings.Builder
	err := velocityTableTemplate.Execute(&buf, templateData{Data: rows, MaxRows: maxTableRows})
	return buf.String(), err
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCumulativeRevenue(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	data := filterByTruck(h.analytics.CumulativeRevenue(), truckFilter(r),
		func(row models.CumulativePoint) string { return row.TruckName })
	jsonData, err := json.Marshal(map[string]any{
		"cumulativeData": data,
	})
	if err != nil {
		h.logger.Error("marshal cumulative data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="cumulative-content">Cumulative revenue chart data loaded</div>`)
	flush(w)
}

func (h *SSEHandlers) HandleHourlyAverages(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	data := filterByTruck(h.analytics.HourlyAverages(), truckFilter(r),
		func(row models.HourlyAverage) string { return row.TruckName })
	jsonData, err := json.Marshal(map[string]any{
		"hourlyData": data,
	})
	if err != nil {
		h.logger.Error("marshal hourly data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="hourly-content">Hourly averages chart data loaded</div>`)
	flush(w)
}

func (h *SSEHandlers) HandlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	data := filterByTruck(h.analytics.PaymentMethods(), truckFilter(r),
		func(row models.PaymentMethodCount) string { return row.TruckName })
	jsonData, err := json.Marshal(map[string]any{
		"paymentData": data,
	})
	if err != nil {
		h.logger.Error("marshal payment data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="payment-content">Payment distribution chart data loaded</div>`)
	flush(w)
}

func (h *SSEHandlers) HandlePriceSegments(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"segmentData": h.analytics.PriceSegments(),
	})
	if err != nil {
		h.logger.Error("marshal segment data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="segment-content">Price segmentation chart data loaded</div>`)
	flush(w)
}

func (h *SSEHandlers) HandleVelocity(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	rows := filterByTruck(h.analytics.Velocity(), truckFilter(r),
		func(row models.TruckVelocity) string { return row.TruckName })
	html, err := h.renderVelocityTable(rows)
	if err != nil {
		h.logger.Error("render velocity table", "error", err)
		return
	}
	sse.PatchElements(html)
	flush(w)
}

// HandleRefreshAll re-queries the lake when the snapshot has gone stale and
// repatches every dashboard panel in one stream.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	if err := h.analytics.EnsureFresh(r.Context()); err != nil {
		h.logger.Error("refresh analytics snapshot", "error", err)
		sse.PatchElements(`<div id="refresh-status">Refresh failed, showing the previous snapshot</div>`)
		flush(w)
		return
	}

	html, err := h.renderVelocityTable(h.analytics.Velocity())
	if err != nil {
		h.logger.Error("render velocity table", "error", err)
		return
	}
	sse.PatchElements(html)

	signals := map[string]any{
		"cumulativeData": h.analytics.CumulativeRevenue(),
		"hourlyData":     h.analytics.HourlyAverages(),
		"paymentData":    h.analytics.PaymentMethods(),
		"segmentData":    h.analytics.PriceSegments(),
	}
	if kpis, ok := h.analytics.KPIs(); ok {
		signals["kpiData"] = kpis
	}
	allSignals, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(allSignals)
	flush(w)
}

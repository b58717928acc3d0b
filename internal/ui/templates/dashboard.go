package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the single-page analytics dashboard. Panels load their
// data through the /sse endpoints with datastar and charts draw client-side
// with Chart.js from the patched signals.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>T3 Food Truck Analytics</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
:root { --bg: #f4f5f7; --card: #ffffff; --accent: #2563eb; --text: #1f2937; }
* { box-sizing: border-box; margin: 0; }
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--text); padding: 24px; }
h1 { font-size: 1.6rem; margin-bottom: 4px; }
.subtitle { color: #6b7280; margin-bottom: 24px; }
.grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 20px; }
.card { background: var(--card); border-radius: 10px; padding: 20px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.card h2 { font-size: 1.05rem; margin-bottom: 12px; }
.kpi-row { display: flex; gap: 16px; flex-wrap: wrap; margin-bottom: 24px; }
.kpi { background: var(--card); border-radius: 10px; padding: 16px 24px; min-width: 200px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.kpi .label { color: #6b7280; font-size: .8rem; text-transform: uppercase; }
.kpi .value { font-size: 1.4rem; font-weight: 600; margin-top: 4px; }
.modern-table { width: 100%; border-collapse: collapse; font-size: .9rem; }
.modern-table th { text-align: left; padding: 8px; border-bottom: 2px solid #e5e7eb; color: #6b7280; }
.modern-table td { padding: 8px; border-bottom: 1px solid #f3f4f6; }
button { background: var(--accent); color: #fff; border: 0; border-radius: 6px; padding: 8px 16px; cursor: pointer; }
</style>
</head>
<body data-signals="{cumulativeData: [], hourlyData: [], paymentData: [], segmentData: [], kpiData: {}}">

<h1>T3 Food Truck Analytics</h1>
<p class="subtitle">Revenue, demand and efficiency across the fleet</p>

<div class="kpi-row" data-on-load="@get('/sse/refresh-all')">
	<div class="kpi">
		<div class="label">Best Truck</div>
		<div class="value" data-text="$kpiData.best_truck ? $kpiData.best_truck.truck_name : '...'"></div>
	</div>
	<div class="kpi">
		<div class="label">Worst Truck</div>
		<div class="value" data-text="$kpiData.worst_truck ? $kpiData.worst_truck.truck_name : '...'"></div>
	</div>
	<div class="kpi">
		<div class="label">Average Revenue per Truck</div>
		<div class="value" data-text="$kpiData.average_revenue ? '£' + $kpiData.average_revenue.toFixed(2) : '...'"></div>
	</div>
	<div style="align-self: center;">
		<button data-on-click="@get('/sse/refresh-all')">Refresh</button>
		<div id="refresh-status"></div>
	</div>
</div>

<div class="grid">
	<div class="card" data-on-load="@get('/sse/cumulative-revenue')">
		<h2>Cumulative Revenue by Truck</h2>
		<canvas id="cumulative-chart" height="220"></canvas>
		<div id="cumulative-content"></div>
	</div>

	<div class="card" data-on-load="@get('/sse/hourly-averages')">
		<h2>Average Transaction by Hour</h2>
		<canvas id="hourly-chart" height="220"></canvas>
		<div id="hourly-content"></div>
	</div>

	<div class="card" data-on-load="@get('/sse/payment-methods')">
		<h2>Payment Method Distribution</h2>
		<canvas id="payment-chart" height="220"></canvas>
		<div id="payment-content"></div>
	</div>

	<div class="card" data-on-load="@get('/sse/price-segments')">
		<h2>Price Segmentation</h2>
		<canvas id="segment-chart" height="220"></canvas>
		<div id="segment-content"></div>
	</div>

	<div class="card" data-on-load="@get('/sse/velocity')">
		<h2>Transaction Velocity</h2>
		<div id="velocity-content">Loading...</div>
	</div>
</div>

<div style="display:none" data-effect="renderCumulative($cumulativeData)"></div>
<div style="display:none" data-effect="renderHourly($hourlyData)"></div>
<div style="display:none" data-effect="renderPayments($paymentData)"></div>
<div style="display:none" data-effect="renderSegments($segmentData)"></div>

<script>
const charts = {};

function upsertChart(id, type, data, options) {
	const el = document.getElementById(id);
	if (!el) return;
	if (charts[id]) {
		charts[id].data = data;
		charts[id].update();
		return;
	}
	charts[id] = new Chart(el, { type, data, options: options || {} });
}

function byTruck(rows, xKey, yKey) {
	const groups = {};
	for (const row of rows) {
		(groups[row.truck_name] ||= []).push({ x: row[xKey], y: row[yKey] });
	}
	return Object.entries(groups).map(([name, data]) => ({ label: name, data, tension: 0.2 }));
}

function renderCumulative(rows) {
	if (!rows || !rows.length) return;
	upsertChart('cumulative-chart', 'line', { datasets: byTruck(rows, 'date', 'cumulative_total') });
}

function renderHourly(rows) {
	if (!rows || !rows.length) return;
	upsertChart('hourly-chart', 'line', { datasets: byTruck(rows, 'hour_of_day', 'average_transaction_amount') });
}

function renderPayments(rows) {
	if (!rows || !rows.length) return;
	const totals = {};
	for (const row of rows) totals[row.payment_method] = (totals[row.payment_method] || 0) + row.count;
	upsertChart('payment-chart', 'doughnut', {
		labels: Object.keys(totals),
		datasets: [{ data: Object.values(totals) }],
	});
}

function renderSegments(rows) {
	if (!rows || !rows.length) return;
	upsertChart('segment-chart', 'bar', {
		labels: rows.map(r => r.price_segment),
		datasets: [{ label: 'Revenue', data: rows.map(r => r.revenue) }],
	});
}
</script>
</body>
</html>`

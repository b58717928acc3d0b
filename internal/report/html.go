package report

import (
	"fmt"
	"html/template"
	"strings"
)

// Inline styles throughout: email clients ignore stylesheets.
var reportTemplate = template.Must(template.New("dailyReport").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f5f5f5;">
<table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f5f5f5;">
<tr><td align="center" style="padding: 20px;">
<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">

<tr>
<td style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center;">
<h1 style="color: #ffffff; margin: 0; font-size: 24px;">T3 Food Truck Daily Report</h1>
<p style="color: #ffffff; margin: 10px 0 0 0; opacity: 0.9;">Report Date: {{.Date}}</p>
</td>
</tr>

<tr>
<td style="padding: 25px;">
<h2 style="color: #667eea; border-bottom: 3px solid #667eea; padding-bottom: 10px; margin-top: 0;">Executive Summary</h2>
<table width="100%" cellpadding="10" cellspacing="0">
<tr>
<td width="50%" style="background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 15px; vertical-align: top;">
<div style="font-size: 12px; color: #666; margin-bottom: 5px;">Total Daily Revenue</div>
<div style="font-size: 24px; font-weight: bold; color: #333;">&pound;{{printf "%.2f" .TotalRevenue}}</div>
</td>
<td width="50%" style="background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 15px; vertical-align: top;">
<div style="font-size: 12px; color: #666; margin-bottom: 5px;">Most In-Demand Price Point</div>
<div style="font-size: 20px; font-weight: bold; color: #333;">{{.MostDemanded.Segment}}</div>
<div style="font-size: 11px; color: #888; margin-top: 5px;">{{printf "%.1f" .MostDemanded.PctOfTransactions}}% of transactions</div>
</td>
</tr>
<tr>
<td width="50%" style="background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 15px; vertical-align: top;">
<div style="font-size: 12px; color: #666; margin-bottom: 5px;">Best Performing Truck</div>
<div style="font-size: 20px; font-weight: bold; color: #28a745;">{{.BestTruck.TruckName}}</div>
<div style="font-size: 11px; color: #888; margin-top: 5px;">&pound;{{printf "%.2f" .BestTruck.TotalRevenue}}</div>
</td>
<td width="50%" style="background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 15px; vertical-align: top;">
<div style="font-size: 12px; color: #666; margin-bottom: 5px;">Worst Performing Truck</div>
<div style="font-size: 20px; font-weight: bold; color: #dc3545;">{{.WorstTruck.TruckName}}</div>
<div style="font-size: 11px; color: #888; margin-top: 5px;">&pound;{{printf "%.2f" .WorstTruck.TotalRevenue}}</div>
</td>
</tr>
</table>
</td>
</tr>

<tr>
<td style="padding: 25px; padding-top: 0;">
<h2 style="color: #667eea; border-bottom: 3px solid #667eea; padding-bottom: 10px;">Cost Reduction Opportunities</h2>
<h3 style="color: #764ba2; margin-top: 20px;">Underperforming Trucks (Bottom 25%)</h3>
{{if .Underperformers}}
<table width="100%" cellpadding="10" cellspacing="0" style="border-collapse: collapse; margin: 15px 0;">
<tr style="background-color: #667eea;">
<th style="color: white; padding: 12px; text-align: left; font-weight: 600;">Truck Name</th>
<th style="color: white; padding: 12px; text-align: left; font-weight: 600;">Daily Revenue</th>
</tr>
{{range .Underperformers}}<tr style="border-bottom: 1px solid #e0e0e0;">
<td style="padding: 12px;">{{.TruckName}}</td>
<td style="padding: 12px;">&pound;{{printf "%.2f" .TotalRevenue}}</td>
</tr>
{{end}}</table>
<div style="background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 15px 0; border-radius: 4px;">
<strong>INSIGHT:</strong> These trucks may need menu optimization, repositioning, or operational review
</div>
{{else}}
<p style="color: #28a745; font-weight: bold;">No underperforming trucks identified</p>
{{end}}
</td>
</tr>

<tr>
<td style="padding: 25px; padding-top: 0;">
<h2 style="color: #667eea; border-bottom: 3px solid #667eea; padding-bottom: 10px;">Profit Optimization Strategies</h2>
<h3 style="color: #764ba2; margin-top: 20px;">Truck Efficiency - Revenue per Hour</h3>
<table width="100%" cellpadding="10" cellspacing="0" style="border-collapse: collapse; margin: 15px 0;">
<tr style="background-color: #667eea;">
<th style="color: white; padding: 12px; text-align: left; font-weight: 600;">Truck Name</th>
<th style="color: white; padding: 12px; text-align: left; font-weight: 600;">Avg Revenue per Hour</th>
</tr>
{{range .Velocity}}<tr style="border-bottom: 1px solid #e0e0e0;">
<td style="padding: 12px;">{{.TruckName}}</td>
<td style="padding: 12px;">&pound;{{printf "%.2f" .AvgRevenuePerHour}}/hour</td>
</tr>
{{end}}</table>
<div style="background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 15px 0; border-radius: 4px;">
<strong>INSIGHT:</strong> Lower revenue/hour trucks may benefit from menu simplification or repositioning for faster service
</div>
</td>
</tr>

<tr>
<td style="padding: 25px; padding-top: 0;">
<h2 style="color: #667eea; border-bottom: 3px solid #667eea; padding-bottom: 10px;">Demand &amp; Market Analysis</h2>
<h3 style="color: #764ba2; margin-top: 20px;">Price Point Demand Analysis</h3>
<table width="100%" cellpadding="10" cellspacing="0" style="border-collapse: collapse; margin: 15px 0;">
<tr style="background-color: #667eea;">
<th style="color: white; padding: 12px; text-align: left; font-weight: 600;">Price Segment</th>
<th style="color: white; padding: 12px; text-align: left; font-weight: 600;">Revenue</th>
<th style="color: white; padding: 12px; text-align: left; font-weight: 600;">% of Total Revenue</th>
</tr>
{{range .PriceSegments}}<tr style="border-bottom: 1px solid #e0e0e0;">
<td style="padding: 12px;">{{.Segment}}</td>
<td style="padding: 12px;">&pound;{{printf "%.2f" .Revenue}}</td>
<td style="padding: 12px;">{{printf "%.1f" .PctOfRevenue}}%</td>
</tr>
{{end}}</table>
<div style="background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 15px 0; border-radius: 4px;">
<strong>INSIGHT:</strong> {{.DominantSegment.Segment}} segment drives {{printf "%.1f" .DominantSegment.PctOfRevenue}}% of revenue
</div>
</td>
</tr>

<tr>
<td style="text-align: center; padding: 20px; color: #666; font-size: 12px; background-color: #f8f9fa;">
<p style="margin: 0;">Generated automatically by T3 Food Truck Analytics System</p>
<p style="margin: 5px 0 0 0;">&copy; {{.GeneratedYear}} T3 Food Trucks | Business Intelligence Report</p>
</td>
</tr>

</table>
</td></tr>
</table>
</body>
</html>
`))

// Render produces the emailable HTML for the report data.
func Render(data Data) (string, error) {
	var buf strings.Builder
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// Filename is the canonical name for a saved report.
func Filename(date string) string {
	return fmt.Sprintf("t3_daily_report_%s.html", date)
}

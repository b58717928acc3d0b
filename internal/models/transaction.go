package models

import "time"

// Transaction is one row of the combined record table: a single sale joined
// with the truck and payment-method dimensions. Total is in major currency
// units; the warehouse stores integer pence and the lake query divides by 100.
type Transaction struct {
	TransactionID int64
	TruckName     string
	PaymentMethod string
	Total         float64
	Timestamp     time.Time
	HasCardReader bool
	FSARating     int
}

type TruckRevenue struct {
	TruckName    string  `json:"truck_name"`
	TotalRevenue float64 `json:"total_revenue"`
}

type CumulativePoint struct {
	TruckName       string  `json:"truck_name"`
	Date            string  `json:"date"`
	CumulativeTotal float64 `json:"cumulative_total"`
}

type HourlyAverage struct {
	TruckName     string  `json:"truck_name"`
	HourOfDay     int     `json:"hour_of_day"`
	AverageAmount float64 `json:"average_transaction_amount"`
}

type PaymentMethodCount struct {
	TruckName     string `json:"truck_name"`
	PaymentMethod string `json:"payment_method"`
	Count         int    `json:"count"`
}

type PriceSegmentRow struct {
	Segment           string  `json:"price_segment"`
	Count             int     `json:"count"`
	Revenue           float64 `json:"revenue"`
	PctOfTransactions float64 `json:"percentage_of_transactions"`
	PctOfRevenue      float64 `json:"percentage_of_revenue"`
}

type TruckVelocity struct {
	TruckName              string  `json:"truck_name"`
	AvgTransactionsPerHour float64 `json:"avg_transactions_per_hour"`
	AvgRevenuePerHour      float64 `json:"avg_revenue_per_hour"`
	RevenuePerTransaction  float64 `json:"revenue_per_transaction"`
}

type TruckPerformance struct {
	TruckName             string  `json:"truck_name"`
	TotalRevenue          float64 `json:"total_revenue"`
	TransactionCount      int     `json:"transaction_count"`
	RevenuePerTransaction float64 `json:"revenue_per_transaction"`
}

// KPISummary feeds the dashboard's headline metric cards.
type KPISummary struct {
	BestTruck         TruckRevenue `json:"best_truck"`
	WorstTruck        TruckRevenue `json:"worst_truck"`
	AverageRevenue    float64      `json:"average_revenue"`
	BestVsAveragePct  float64      `json:"best_vs_average_pct"`
	WorstVsAveragePct float64      `json:"worst_vs_average_pct"`
}

// Package warehouse reads the transactional database the trucks report into
// and prepares cleaned rows for the data lake.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// FactTransaction mirrors fact_transaction. Total is in integer pence; the
// lake query converts to pounds.
type FactTransaction struct {
	TransactionID   int64
	TruckID         int
	PaymentMethodID int
	Total           int64
	At              time.Time
}

// Truck mirrors dim_truck.
type Truck struct {
	TruckID       int
	TruckName     string
	HasCardReader bool
	FSARating     int
}

// PaymentMethod mirrors dim_payment_method.
type PaymentMethod struct {
	PaymentMethodID int
	PaymentMethod   string
}

type Extractor struct {
	db *sql.DB
}

// Open connects to the warehouse database.
func Open(dsn string) (*Extractor, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	return &Extractor{db: db}, nil
}

func (e *Extractor) Close() error {
	return e.db.Close()
}

func (e *Extractor) PaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT payment_method_id, payment_method FROM dim_payment_method ORDER BY payment_method_id`)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.PaymentMethodID, &m.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (e *Extractor) Trucks(ctx context.Context) ([]Truck, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT truck_id, truck_name, has_card_reader, fsa_rating FROM dim_truck ORDER BY truck_id`)
	if err != nil {
		return nil, fmt.Errorf("query trucks: %w", err)
	}
	defer rows.Close()

	var trucks []Truck
	for rows.Next() {
		var t Truck
		if err := rows.Scan(&t.TruckID, &t.TruckName, &t.HasCardReader, &t.FSARating); err != nil {
			return nil, fmt.Errorf("scan truck: %w", err)
		}
		trucks = append(trucks, t)
	}
	return trucks, rows.Err()
}

// Transactions returns the full fact table up to the optional cutoff
// timestamp (the historical backfill query).
func (e *Extractor) Transactions(ctx context.Context, cutoff time.Time) ([]FactTransaction, error) {
	query := `SELECT transaction_id, truck_id, payment_method_id, total, "at" FROM fact_transaction`
	args := []any{}
	if !cutoff.IsZero() {
		query += ` WHERE "at" <= ?`
		args = append(args, cutoff)
	}
	query += ` ORDER BY "at"`

	return e.queryTransactions(ctx, query, args...)
}

// TransactionsAfter returns fact rows newer than the checkpoint timestamp
// (the incremental pipeline query).
func (e *Extractor) TransactionsAfter(ctx context.Context, since time.Time) ([]FactTransaction, error) {
	return e.queryTransactions(ctx,
		`SELECT transaction_id, truck_id, payment_method_id, total, "at" FROM fact_transaction WHERE "at" > ? ORDER BY "at"`,
		since)
}

func (e *Extractor) queryTransactions(ctx context.Context, query string, args ...any) ([]FactTransaction, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []FactTransaction
	for rows.Next() {
		var tx FactTransaction
		if err := rows.Scan(&tx.TransactionID, &tx.TruckID, &tx.PaymentMethodID, &tx.Total, &tx.At); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

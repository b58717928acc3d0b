package lake

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"t3-analytics/internal/models"
)

// Querier runs SQL over the parquet lake and materializes the combined
// record table: facts joined with both dimensions, totals converted from
// pence to pounds. It implements services.TransactionSource.
type Querier struct {
	root string
}

func NewQuerier(root string) *Querier {
	return &Querier{root: root}
}

const combinedSelect = `
	SELECT
		ft.transaction_id,
		dt.truck_name,
		dpm.payment_method,
		ft.total / 100.0 AS total_pounds,
		ft."at",
		dt.has_card_reader,
		dt.fsa_rating
	FROM read_parquet(%s, hive_partitioning = true) AS ft
	JOIN read_parquet(%s) AS dpm
		ON ft.payment_method_id = dpm.payment_method_id
	JOIN read_parquet(%s) AS dt
		ON ft.truck_id = dt.truck_id`

// Transactions returns the full combined record table.
func (q *Querier) Transactions(ctx context.Context) ([]models.Transaction, error) {
	return q.query(ctx, q.combinedSQL()+` ORDER BY ft."at"`)
}

// TransactionsForDate returns the records for one calendar day, the report's
// yesterday slice.
func (q *Querier) TransactionsForDate(ctx context.Context, date time.Time) ([]models.Transaction, error) {
	sql := q.combinedSQL() + ` WHERE CAST(ft."at" AS DATE) = ? ORDER BY ft."at"`
	return q.query(ctx, sql, date.Format("2006-01-02"))
}

func (q *Querier) combinedSQL() string {
	txGlob := filepath.Join(q.root, transactionTableDir, "**", "*.parquet")
	paymentGlob := filepath.Join(q.root, paymentTableDir, "*.parquet")
	truckGlob := filepath.Join(q.root, truckTableDir, "*.parquet")
	return fmt.Sprintf(combinedSelect, sqlString(txGlob), sqlString(paymentGlob), sqlString(truckGlob))
}

func (q *Querier) query(ctx context.Context, sql string, args ...any) ([]models.Transaction, error) {
	conn, err := openMemoryDB()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query lake: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.TransactionID,
			&tx.TruckName,
			&tx.PaymentMethod,
			&tx.Total,
			&tx.Timestamp,
			&tx.HasCardReader,
			&tx.FSARating,
		); err != nil {
			return nil, fmt.Errorf("scan lake row: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lake rows: %w", err)
	}
	return txs, nil
}

// Package lake lands cleaned warehouse rows in a hive-partitioned parquet
// data lake and serves SQL queries over it. DuckDB is both the parquet writer
// and the query engine.
package lake

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"t3-analytics/internal/warehouse"
)

// Lake table directories, mirroring the warehouse table names.
const (
	transactionTableDir = "transaction_table"
	truckTableDir       = "truck_table"
	paymentTableDir     = "payment_table"
)

// WriteMode selects between a full rebuild and an incremental append of the
// transaction table.
type WriteMode int

const (
	Overwrite WriteMode = iota
	Append
)

type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// WriteTransactions lands the fact rows as parquet partitioned by
// year/month/day of the transaction timestamp.
func (w *Writer) WriteTransactions(ctx context.Context, txs []warehouse.FactTransaction, mode WriteMode) error {
	if len(txs) == 0 {
		return nil
	}

	conn, err := openMemoryDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE staged (
			transaction_id BIGINT,
			truck_id INTEGER,
			payment_method_id INTEGER,
			total BIGINT,
			"at" TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}

	stmt, err := conn.PrepareContext(ctx, `INSERT INTO staged VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx, tx.TransactionID, tx.TruckID, tx.PaymentMethodID, tx.Total, tx.At); err != nil {
			return fmt.Errorf("insert transaction %d: %w", tx.TransactionID, err)
		}
	}

	dir := filepath.Join(w.root, transactionTableDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create lake dir: %w", err)
	}

	copyOpts := "OVERWRITE_OR_IGNORE"
	if mode == Append {
		copyOpts = "APPEND"
	}

	// Partition columns are derived from the timestamp, the same layout the
	// dashboard queries expect (hive partitioning).
	copySQL := fmt.Sprintf(`
		COPY (
			SELECT *,
				year("at") AS year,
				month("at") AS month,
				day("at") AS day
			FROM staged
		) TO %s (FORMAT PARQUET, PARTITION_BY (year, month, day), %s)`,
		sqlString(dir), copyOpts)

	if _, err := conn.ExecContext(ctx, copySQL); err != nil {
		return fmt.Errorf("copy transactions to lake: %w", err)
	}
	return nil
}

// WriteDimensions lands the truck and payment-method tables as single
// unpartitioned parquet files, replacing any previous copy.
func (w *Writer) WriteDimensions(ctx context.Context, trucks []warehouse.Truck, methods []warehouse.PaymentMethod) error {
	conn, err := openMemoryDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE trucks (
			truck_id INTEGER,
			truck_name VARCHAR,
			has_card_reader BOOLEAN,
			fsa_rating INTEGER
		)`); err != nil {
		return fmt.Errorf("create trucks table: %w", err)
	}
	truckStmt, err := conn.PrepareContext(ctx, `INSERT INTO trucks VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare truck insert: %w", err)
	}
	defer truckStmt.Close()
	for _, t := range trucks {
		if _, err := truckStmt.ExecContext(ctx, t.TruckID, t.TruckName, t.HasCardReader, t.FSARating); err != nil {
			return fmt.Errorf("insert truck %d: %w", t.TruckID, err)
		}
	}

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE methods (
			payment_method_id INTEGER,
			payment_method VARCHAR
		)`); err != nil {
		return fmt.Errorf("create methods table: %w", err)
	}
	methodStmt, err := conn.PrepareContext(ctx, `INSERT INTO methods VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare method insert: %w", err)
	}
	defer methodStmt.Close()
	for _, m := range methods {
		if _, err := methodStmt.ExecContext(ctx, m.PaymentMethodID, m.PaymentMethod); err != nil {
			return fmt.Errorf("insert payment method %d: %w", m.PaymentMethodID, err)
		}
	}

	for dir, table := range map[string]string{
		truckTableDir:   "trucks",
		paymentTableDir: "methods",
	} {
		target := filepath.Join(w.root, dir)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("create lake dir: %w", err)
		}
		file := filepath.Join(target, dir+".parquet")
		copySQL := fmt.Sprintf(`COPY %s TO %s (FORMAT PARQUET)`, table, sqlString(file))
		if _, err := conn.ExecContext(ctx, copySQL); err != nil {
			return fmt.Errorf("copy %s to lake: %w", table, err)
		}
	}
	return nil
}

func openMemoryDB() (*sql.DB, error) {
	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return conn, nil
}

// sqlString quotes a path as a SQL string literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

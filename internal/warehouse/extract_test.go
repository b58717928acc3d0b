package warehouse

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

// newTestWarehouse creates a throwaway duckdb file with the warehouse schema
// and a handful of rows.
func newTestWarehouse(t *testing.T) *Extractor {
	t.Helper()

	path := filepath.Join(t.TempDir(), "warehouse.duckdb")

	db, err := sql.Open("duckdb", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}

	stmts := []string{
		`CREATE TABLE dim_truck (truck_id INTEGER, truck_name VARCHAR, has_card_reader BOOLEAN, fsa_rating INTEGER)`,
		`CREATE TABLE dim_payment_method (payment_method_id INTEGER, payment_method VARCHAR)`,
		`CREATE TABLE fact_transaction (transaction_id BIGINT, truck_id INTEGER, payment_method_id INTEGER, total BIGINT, "at" TIMESTAMP)`,
		`INSERT INTO dim_truck VALUES (1, 'Burrito Madness', true, 4), (2, 'Cupcakes by Michelle', true, 5)`,
		`INSERT INTO dim_payment_method VALUES (1, 'Cash'), (2, 'Card')`,
		`INSERT INTO fact_transaction VALUES
			(1, 1, 2, 1250, '2024-03-04 11:15:00'),
			(2, 1, 1, 800, '2024-03-04 12:40:00'),
			(3, 2, 2, 425, '2024-03-05 09:45:00')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("fixture statement failed: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close fixture db: %v", err)
	}

	extractor, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { extractor.Close() })
	return extractor
}

func TestExtractor_Dimensions(t *testing.T) {
	extractor := newTestWarehouse(t)
	ctx := context.Background()

	trucks, err := extractor.Trucks(ctx)
	if err != nil {
		t.Fatalf("Trucks() failed: %v", err)
	}
	if len(trucks) != 2 {
		t.Fatalf("expected 2 trucks, got %d", len(trucks))
	}
	if trucks[0].TruckName != "Burrito Madness" || !trucks[0].HasCardReader || trucks[0].FSARating != 4 {
		t.Errorf("unexpected first truck: %+v", trucks[0])
	}

	methods, err := extractor.PaymentMethods(ctx)
	if err != nil {
		t.Fatalf("PaymentMethods() failed: %v", err)
	}
	if len(methods) != 2 {
		t.Fatalf("expected 2 payment methods, got %d", len(methods))
	}
	if methods[1].PaymentMethod != "Card" {
		t.Errorf("expected 'Card' second, got %q", methods[1].PaymentMethod)
	}
}

func TestExtractor_Transactions(t *testing.T) {
	extractor := newTestWarehouse(t)
	ctx := context.Background()

	all, err := extractor.Transactions(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Transactions() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(all))
	}
	if all[0].TransactionID != 1 || all[0].Total != 1250 {
		t.Errorf("unexpected first transaction: %+v", all[0])
	}

	cutoff := time.Date(2024, 3, 4, 23, 59, 59, 0, time.UTC)
	capped, err := extractor.Transactions(ctx, cutoff)
	if err != nil {
		t.Fatalf("Transactions(cutoff) failed: %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("expected 2 transactions before cutoff, got %d", len(capped))
	}
}

func TestExtractor_TransactionsAfter(t *testing.T) {
	extractor := newTestWarehouse(t)

	since := time.Date(2024, 3, 4, 12, 40, 0, 0, time.UTC)
	newer, err := extractor.TransactionsAfter(context.Background(), since)
	if err != nil {
		t.Fatalf("TransactionsAfter() failed: %v", err)
	}
	if len(newer) != 1 {
		t.Fatalf("expected 1 transaction after checkpoint, got %d", len(newer))
	}
	if newer[0].TransactionID != 3 {
		t.Errorf("expected transaction 3, got %d", newer[0].TransactionID)
	}
}

package warehouse

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	stagingBatchSize  = 10000
	stagingMaxWorkers = 10
	stagingTimeLayout = "2006-01-02 15:04:05"
)

// Staging file names inside the staging directory.
const (
	TransactionsFile   = "transaction_data.csv"
	TrucksFile         = "truck_data.csv"
	PaymentMethodsFile = "payment_data.csv"
)

// WriteStagingCSVs persists the extracted tables to the staging directory so
// a failed lake upload can be retried without re-querying the warehouse.
func WriteStagingCSVs(dir string, txs []FactTransaction, trucks []Truck, methods []PaymentMethod) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	if err := writeCSV(filepath.Join(dir, TransactionsFile),
		"transaction_id,truck_id,payment_method_id,total,at",
		len(txs), func(i int) string {
			tx := txs[i]
			return fmt.Sprintf("%d,%d,%d,%d,%s",
				tx.TransactionID, tx.TruckID, tx.PaymentMethodID, tx.Total,
				tx.At.Format(stagingTimeLayout))
		}); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, TrucksFile),
		"truck_id,truck_name,has_card_reader,fsa_rating",
		len(trucks), func(i int) string {
			t := trucks[i]
			return fmt.Sprintf("%d,%s,%t,%d", t.TruckID, t.TruckName, t.HasCardReader, t.FSARating)
		}); err != nil {
		return err
	}

	return writeCSV(filepath.Join(dir, PaymentMethodsFile),
		"payment_method_id,payment_method",
		len(methods), func(i int) string {
			m := methods[i]
			return fmt.Sprintf("%d,%s", m.PaymentMethodID, m.PaymentMethod)
		})
}

func writeCSV(path, header string, n int, line func(i int) string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, header)
	for i := 0; i < n; i++ {
		fmt.Fprintln(w, line(i))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadTransactionsCSV streams a staged transaction file back in, parsing
// batches with a bounded worker pool. A malformed row fails the whole read;
// silently dropping it would corrupt every aggregate downstream.
func ReadTransactionsCSV(ctx context.Context, path string) ([]FactTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open staging file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty staging file %s", path)
	}

	var all []FactTransaction
	batch := make([]string, 0, stagingBatchSize)

	flush := func() error {
		parsed, err := parseBatch(ctx, batch)
		if err != nil {
			return err
		}
		all = append(all, parsed...)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		batch = append(batch, scanner.Text())
		if len(batch) >= stagingBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan staging file: %w", err)
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	return all, nil
}

func parseBatch(ctx context.Context, lines []string) ([]FactTransaction, error) {
	parsed := make([]FactTransaction, len(lines))

	var wg errgroup.Group
	wg.SetLimit(stagingMaxWorkers)

	for i, line := range lines {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			tx, err := parseTransactionRow(line)
			if err != nil {
				return fmt.Errorf("line %q: %w", line, err)
			}
			parsed[i] = tx
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func parseTransactionRow(line string) (FactTransaction, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return FactTransaction{}, fmt.Errorf("expected 5 columns, got %d", len(fields))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return FactTransaction{}, fmt.Errorf("transaction_id: %w", err)
	}
	truckID, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return FactTransaction{}, fmt.Errorf("truck_id: %w", err)
	}
	methodID, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return FactTransaction{}, fmt.Errorf("payment_method_id: %w", err)
	}
	total, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return FactTransaction{}, fmt.Errorf("total: %w", err)
	}
	at, err := time.Parse(stagingTimeLayout, strings.TrimSpace(fields[4]))
	if err != nil {
		return FactTransaction{}, fmt.Errorf("at: %w", err)
	}

	return FactTransaction{
		TransactionID:   id,
		TruckID:         truckID,
		PaymentMethodID: methodID,
		Total:           total,
		At:              at,
	}, nil
}

package warehouse

// Validity ranges enforced on extracted fact rows. Totals must be positive,
// truck ids sit in the fixed fleet range, payment method ids in the fixed
// card/cash set.
const (
	minTruckID = 1
	maxTruckID = 6
)

var validPaymentMethodIDs = map[int]bool{1: true, 2: true}

// CleanTransactions drops rows that fail the validity rules and de-duplicates
// on transaction id, keeping the first occurrence. Order is preserved.
func CleanTransactions(txs []FactTransaction) []FactTransaction {
	seen := make(map[int64]bool, len(txs))
	cleaned := make([]FactTransaction, 0, len(txs))

	for _, tx := range txs {
		if tx.Total <= 0 {
			continue
		}
		if tx.TruckID < minTruckID || tx.TruckID > maxTruckID {
			continue
		}
		if !validPaymentMethodIDs[tx.PaymentMethodID] {
			continue
		}
		if tx.At.IsZero() {
			continue
		}
		if seen[tx.TransactionID] {
			continue
		}
		seen[tx.TransactionID] = true
		cleaned = append(cleaned, tx)
	}
	return cleaned
}

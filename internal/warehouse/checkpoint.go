package warehouse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Checkpoint tracks the timestamp of the newest transaction already landed
// in the lake, so the periodic pipeline only ships new rows.
type Checkpoint struct {
	path string
}

func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Last returns the stored timestamp, or the zero time when no checkpoint
// exists yet (first run ships everything).
func (c *Checkpoint) Last() (time.Time, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read checkpoint: %w", err)
	}

	ts, err := time.Parse(stagingTimeLayout, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse checkpoint %q: %w", strings.TrimSpace(string(data)), err)
	}
	return ts, nil
}

// Advance records a new high-water mark. Writes are atomic via rename so a
// crash never leaves a truncated checkpoint.
func (c *Checkpoint) Advance(ts time.Time) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(ts.Format(stagingTimeLayout)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}

// MaxTimestamp returns the newest `at` in the batch, for advancing the
// checkpoint after a successful upload.
func MaxTimestamp(txs []FactTransaction) time.Time {
	var max time.Time
	for _, tx := range txs {
		if tx.At.After(max) {
			max = tx.At
		}
	}
	return max
}

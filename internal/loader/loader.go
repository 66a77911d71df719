package loader

import (
	"context"
	"fmt"

	"github.com/Rana718/ontoseed/internal/database"
	"github.com/Rana718/ontoseed/internal/types"
)

const DefaultBatchSize = 100

// PersistenceError is any write failure other than an existing identifier.
// It aborts the load; rows written by earlier batches stay committed.
type PersistenceError struct {
	Table   string
	FirstID string
	LastID  string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to write %s %s..%s: %v", e.Table, e.FirstID, e.LastID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Report counts rows written and rows skipped because their identifier
// was already present. A skipped transaction whose stored row differs from
// the generated one is also counted in TransactionsMismatched, and its lines
// are not written at all (LinesMismatched).
type Report struct {
	TransactionsInserted   int64
	TransactionsSkipped    int64
	TransactionsMismatched int64
	LinesInserted          int64
	LinesSkipped           int64
	LinesMismatched        int64
	Batches                int
}

type Loader struct {
	writer    database.TransactionWriter
	batchSize int

	// OnBatch, if set, is called after each committed batch.
	OnBatch func(table string, done, total int)
}

func New(writer database.TransactionWriter, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Loader{writer: writer, batchSize: batchSize}
}

// Load writes the payment methods, then every transaction, then every line.
// Re-loading the same transactions is a no-op. Lines are only attached to a
// transaction row this run inserted or one that matches the generated header,
// so an identifier already used by a different transaction keeps its lines.
func (l *Loader) Load(ctx context.Context, txs []types.Transaction) (*Report, error) {
	report := &Report{}

	if _, err := l.writer.InsertPaymentMethods(ctx, types.PaymentMethods); err != nil {
		return report, &PersistenceError{
			Table:   "payment_methods",
			FirstID: string(types.PaymentMethods[0]),
			LastID:  string(types.PaymentMethods[len(types.PaymentMethods)-1]),
			Err:     err,
		}
	}

	mismatched := make(map[string]bool)
	for start := 0; start < len(txs); start += l.batchSize {
		batch := txs[start:min(start+l.batchSize, len(txs))]
		n, err := l.writer.InsertTransactions(ctx, batch)
		if err == nil && n < int64(len(batch)) {
			err = l.markMismatched(ctx, batch, mismatched)
		}
		if err != nil {
			return report, &PersistenceError{
				Table:   "transactions",
				FirstID: batch[0].ID,
				LastID:  batch[len(batch)-1].ID,
				Err:     err,
			}
		}
		report.TransactionsInserted += n
		report.TransactionsSkipped += int64(len(batch)) - n
		report.Batches++
		l.progress("transactions", start+len(batch), len(txs))
	}
	report.TransactionsMismatched = int64(len(mismatched))

	lines, withheld := flatten(txs, mismatched)
	report.LinesMismatched = int64(withheld)
	for start := 0; start < len(lines); start += l.batchSize {
		batch := lines[start:min(start+l.batchSize, len(lines))]
		n, err := l.writer.InsertTransactionLines(ctx, batch)
		if err != nil {
			return report, &PersistenceError{
				Table:   "transaction_items",
				FirstID: batch[0].ID,
				LastID:  batch[len(batch)-1].ID,
				Err:     err,
			}
		}
		report.LinesInserted += n
		report.LinesSkipped += int64(len(batch)) - n
		report.Batches++
		l.progress("transaction_items", start+len(batch), len(lines))
	}

	return report, nil
}

func (l *Loader) progress(table string, done, total int) {
	if l.OnBatch != nil {
		l.OnBatch(table, done, total)
	}
}

// markMismatched reads back the stored rows of batch and records every
// transaction whose identifier holds a different transaction.
func (l *Loader) markMismatched(ctx context.Context, batch []types.Transaction, mismatched map[string]bool) error {
	ids := make([]string, len(batch))
	for i, tx := range batch {
		ids[i] = tx.ID
	}
	stored, err := l.writer.TransactionHeaders(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]types.TransactionHeader, len(stored))
	for _, h := range stored {
		byID[h.ID] = h
	}
	for _, tx := range batch {
		if h, ok := byID[tx.ID]; ok && !h.Matches(tx) {
			mismatched[tx.ID] = true
		}
	}
	return nil
}

// flatten returns the lines of every transaction not in skip, and the number
// of lines left out.
func flatten(txs []types.Transaction, skip map[string]bool) ([]types.TransactionLine, int) {
	n := 0
	for _, tx := range txs {
		n += len(tx.Lines)
	}
	lines := make([]types.TransactionLine, 0, n)
	for _, tx := range txs {
		if skip[tx.ID] {
			continue
		}
		lines = append(lines, tx.Lines...)
	}
	return lines, n - len(lines)
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Rana718/ontoseed/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memWriter is an insert-if-absent store keyed by identifier.
type memWriter struct {
	methods map[types.PaymentMethod]bool
	txs     map[string]types.TransactionHeader
	lines    map[string]bool
	lineRows []types.TransactionLine
	calls   []string

	failOn string
	err    error
}

func newMemWriter() *memWriter {
	return &memWriter{
		methods: map[types.PaymentMethod]bool{},
		txs:     map[string]types.TransactionHeader{},
		lines:   map[string]bool{},
	}
}

func (w *memWriter) InsertPaymentMethods(ctx context.Context, rows []types.PaymentMethod) (int64, error) {
	w.calls = append(w.calls, "payment_methods")
	var n int64
	for _, m := range rows {
		if !w.methods[m] {
			w.methods[m] = true
			n++
		}
	}
	return n, nil
}

func (w *memWriter) InsertTransactions(ctx context.Context, rows []types.Transaction) (int64, error) {
	w.calls = append(w.calls, "transactions")
	if w.failOn == "transactions" {
		return 0, w.err
	}
	var n int64
	for _, tx := range rows {
		if _, ok := w.txs[tx.ID]; !ok {
			w.txs[tx.ID] = tx.Header()
			n++
		}
	}
	return n, nil
}

func (w *memWriter) TransactionHeaders(ctx context.Context, ids []string) ([]types.TransactionHeader, error) {
	w.calls = append(w.calls, "read transactions")
	var headers []types.TransactionHeader
	for _, id := range ids {
		if h, ok := w.txs[id]; ok {
			headers = append(headers, h)
		}
	}
	return headers, nil
}

func (w *memWriter) lineSum(txID string) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range w.lineRows {
		if l.TransactionID == txID {
			sum = sum.Add(l.LineTotal)
		}
	}
	return sum
}

func (w *memWriter) InsertTransactionLines(ctx context.Context, rows []types.TransactionLine) (int64, error) {
	w.calls = append(w.calls, "transaction_items")
	if w.failOn == "transaction_items" {
		return 0, w.err
	}
	var n int64
	for _, l := range rows {
		if _, ok := w.txs[l.TransactionID]; !ok {
			return n, fmt.Errorf("transaction %s does not exist", l.TransactionID)
		}
		if !w.lines[l.ID] {
			w.lines[l.ID] = true
			w.lineRows = append(w.lineRows, l)
			n++
		}
	}
	return n, nil
}

func makeTransactions(n, linesEach int) []types.Transaction {
	txs := make([]types.Transaction, n)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range txs {
		id := fmt.Sprintf("BTX%05d", i+1)
		tx := types.Transaction{
			ID: id, StoreID: "BAK001", OccurredAt: at, PaymentMethod: types.PaymentCash,
			StaffID: "BAK001-S01", CurrencyCode: "EUR", DataSource: "bakery",
		}
		tx.TotalAmount = decimal.Zero
		for j := 1; j <= linesEach; j++ {
			tx.Lines = append(tx.Lines, types.TransactionLine{
				ID: fmt.Sprintf("%s_%d", id, j), TransactionID: id, ProductID: "BAK-P001",
				Quantity: 1, UnitPrice: decimal.NewFromInt(2), LineTotal: decimal.NewFromInt(2),
			})
			tx.TotalAmount = tx.TotalAmount.Add(decimal.NewFromInt(2))
		}
		txs[i] = tx
	}
	return txs
}

func TestLoadWritesTransactionsBeforeLines(t *testing.T) {
	w := newMemWriter()
	l := New(w, 4)

	report, err := l.Load(context.Background(), makeTransactions(10, 2))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"payment_methods",
		"transactions", "transactions", "transactions",
		"transaction_items", "transaction_items", "transaction_items", "transaction_items", "transaction_items",
	}, w.calls)
	assert.Equal(t, int64(10), report.TransactionsInserted)
	assert.Equal(t, int64(20), report.LinesInserted)
	assert.Zero(t, report.TransactionsSkipped)
	assert.Equal(t, 8, report.Batches)
}

func TestLoadIsIdempotent(t *testing.T) {
	w := newMemWriter()
	l := New(w, 3)
	txs := makeTransactions(7, 3)

	_, err := l.Load(context.Background(), txs)
	require.NoError(t, err)

	report, err := l.Load(context.Background(), txs)
	require.NoError(t, err)
	assert.Zero(t, report.TransactionsInserted)
	assert.Equal(t, int64(7), report.TransactionsSkipped)
	assert.Zero(t, report.LinesInserted)
	assert.Equal(t, int64(21), report.LinesSkipped)
	assert.Len(t, w.txs, 7)
	assert.Len(t, w.lines, 21)
}

func TestLoadFillsInPartialRun(t *testing.T) {
	w := newMemWriter()
	txs := makeTransactions(6, 1)

	_, err := New(w, 10).Load(context.Background(), txs[:4])
	require.NoError(t, err)

	report, err := New(w, 10).Load(context.Background(), txs)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.TransactionsInserted)
	assert.Equal(t, int64(4), report.TransactionsSkipped)
}

func TestLoadLeavesForeignTransactionsAlone(t *testing.T) {
	w := newMemWriter()
	first := makeTransactions(4, 1)
	_, err := New(w, 10).Load(context.Background(), first)
	require.NoError(t, err)

	// Same identifiers, different baskets: BTX00002 and BTX00004 now carry
	// three lines and a different total.
	second := makeTransactions(5, 1)
	for _, i := range []int{1, 3} {
		second[i] = makeTransactions(i+1, 3)[i]
	}

	report, err := New(w, 10).Load(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.TransactionsInserted)
	assert.Equal(t, int64(4), report.TransactionsSkipped)
	assert.Equal(t, int64(2), report.TransactionsMismatched)
	assert.Equal(t, int64(6), report.LinesMismatched)
	assert.Equal(t, int64(1), report.LinesInserted)
	assert.Equal(t, int64(2), report.LinesSkipped)

	assert.NotContains(t, w.lines, "BTX00002_2")
	assert.NotContains(t, w.lines, "BTX00004_3")
	for id, h := range w.txs {
		assert.True(t, h.TotalAmount.Equal(w.lineSum(id)), id)
	}
}

func TestLoadFillsInLinesOfInterruptedRun(t *testing.T) {
	w := newMemWriter()
	txs := makeTransactions(3, 2)

	_, err := w.InsertTransactions(context.Background(), txs)
	require.NoError(t, err)

	report, err := New(w, 10).Load(context.Background(), txs)
	require.NoError(t, err)
	assert.Zero(t, report.TransactionsMismatched)
	assert.Equal(t, int64(6), report.LinesInserted)
}

func TestLoadSurfacesPersistenceFailure(t *testing.T) {
	cause := errors.New("FOREIGN KEY constraint failed")
	w := newMemWriter()
	w.failOn = "transaction_items"
	w.err = cause

	report, err := New(w, 5).Load(context.Background(), makeTransactions(3, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "transaction_items", perr.Table)
	assert.Equal(t, "BTX00001_1", perr.FirstID)
	assert.Equal(t, "BTX00003_1", perr.LastID)

	// Transactions committed before the failure are kept.
	assert.Equal(t, int64(3), report.TransactionsInserted)
}

func TestLoadReportsProgress(t *testing.T) {
	var seen []string
	l := New(newMemWriter(), 2)
	l.OnBatch = func(table string, done, total int) {
		seen = append(seen, fmt.Sprintf("%s %d/%d", table, done, total))
	}

	_, err := l.Load(context.Background(), makeTransactions(3, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"transactions 2/3", "transactions 3/3",
		"transaction_items 2/3", "transaction_items 3/3",
	}, seen)
}

func TestLoadEmpty(t *testing.T) {
	w := newMemWriter()
	report, err := New(w, 0).Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &Report{}, report)
	assert.Equal(t, []string{"payment_methods"}, w.calls)
}

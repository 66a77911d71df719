package generator

import (
	"fmt"
	"time"

	"github.com/Rana718/ontoseed/internal/types"
	"github.com/shopspring/decimal"
)

// Sequence is the run-scoped transaction counter. It is shared by every store
// in a run and advances by exactly one per assembled transaction.
type Sequence struct {
	last int
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Last returns the most recently issued value, 0 before the first call to Next.
func (s *Sequence) Last() int { return s.last }

const sequenceWidth = 5

type Assembler struct {
	seq      *Sequence
	currency string
}

func NewAssembler(seq *Sequence, currency string) *Assembler {
	return &Assembler{seq: seq, currency: currency}
}

func TransactionID(t types.StoreType, n int) string {
	return fmt.Sprintf("%sTX%0*d", t.Prefix(), sequenceWidth, n)
}

func LineID(transactionID string, position int) string {
	return fmt.Sprintf("%s_%d", transactionID, position)
}

// Assemble turns a composed basket into a transaction and its lines. The
// total is the sum of line totals, rounded on its own.
func (a *Assembler) Assemble(store types.Store, at time.Time, basket Basket) types.Transaction {
	id := TransactionID(store.Type, a.seq.Next())

	tx := types.Transaction{
		ID:            id,
		StoreID:       store.ID,
		OccurredAt:    at,
		PaymentMethod: basket.PaymentMethod,
		StaffID:       basket.StaffID,
		CurrencyCode:  a.currency,
		DataSource:    store.Type.String(),
		Lines:         make([]types.TransactionLine, 0, len(basket.Items)),
	}

	total := decimal.Zero
	for i, item := range basket.Items {
		tx.Lines = append(tx.Lines, types.TransactionLine{
			ID:              LineID(id, i+1),
			TransactionID:   id,
			ProductID:       item.Product.ID,
			Quantity:        item.Quantity,
			UnitPrice:       item.Product.BasePrice,
			DiscountPercent: item.DiscountPercent,
			LineTotal:       item.LineTotal,
		})
		total = total.Add(item.LineTotal)
	}
	tx.TotalAmount = total.Round(2)

	return tx
}

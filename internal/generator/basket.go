package generator

import (
	"fmt"
	"math/rand/v2"

	"github.com/Rana718/ontoseed/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Basket struct {
	StaffID       string
	PaymentMethod types.PaymentMethod
	Items         []BasketItem
}

type BasketItem struct {
	Product         types.Product
	Quantity        int
	DiscountPercent int
	LineTotal       decimal.Decimal
}

// Composer builds baskets: one staff member, one payment method and up to
// four distinct products.
type Composer struct {
	tables *Tables
	rand   *rand.Rand
}

func NewComposer(tables *Tables, r *rand.Rand) *Composer {
	return &Composer{tables: tables, rand: r}
}

// Compose builds one basket for store. Only roster members affiliated with
// the store are eligible, and catalog must already be filtered to the
// store's type.
func (c *Composer) Compose(store types.Store, roster []types.StaffMember, catalog []types.Product) (Basket, error) {
	if len(catalog) == 0 {
		return Basket{}, fmt.Errorf("store %s (%s): %w", store.ID, store.Type, ErrEmptyCatalog)
	}

	eligible := make([]types.StaffMember, 0, len(roster))
	for _, s := range roster {
		if s.StoreID == store.ID {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		return Basket{}, fmt.Errorf("store %s: %w", store.ID, ErrNoStaffAvailable)
	}

	basket := Basket{
		PaymentMethod: c.tables.Payment.Pick(c.rand),
		StaffID:       eligible[c.rand.IntN(len(eligible))].ID,
	}

	n := min(c.tables.ItemCount.Pick(c.rand), len(catalog))
	for _, product := range c.sample(catalog, n) {
		qty := c.tables.Quantity.Pick(c.rand)
		discount := c.discount()
		basket.Items = append(basket.Items, BasketItem{
			Product:         product,
			Quantity:        qty,
			DiscountPercent: discount,
			LineTotal:       LineTotal(product.BasePrice, qty, discount),
		})
	}

	return basket, nil
}

// sample draws n distinct products with a partial Fisher-Yates shuffle.
func (c *Composer) sample(catalog []types.Product, n int) []types.Product {
	idx := make([]int, len(catalog))
	for i := range idx {
		idx[i] = i
	}
	out := make([]types.Product, n)
	for i := 0; i < n; i++ {
		j := i + c.rand.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = catalog[idx[i]]
	}
	return out
}

func (c *Composer) discount() int {
	if len(c.tables.DiscountTiers) == 0 || c.rand.Float64() >= c.tables.DiscountChance {
		return 0
	}
	return c.tables.DiscountTiers[c.rand.IntN(len(c.tables.DiscountTiers))]
}

// LineTotal is unitPrice * (1 - discount/100) * qty rounded to cents.
func LineTotal(unitPrice decimal.Decimal, qty, discountPercent int) decimal.Decimal {
	factor := hundred.Sub(decimal.NewFromInt(int64(discountPercent))).Div(hundred)
	return unitPrice.Mul(factor).Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

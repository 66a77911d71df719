package generator

import (
	"fmt"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/Rana718/ontoseed/internal/types"
)

// Tables holds every weighted lookup used during generation, keyed by store
// type where the distribution depends on it.
type Tables struct {
	Hours          map[types.StoreType]*Weighted[int]
	Payment        *Weighted[types.PaymentMethod]
	ItemCount      *Weighted[int]
	Quantity       *Weighted[int]
	DiscountChance float64
	DiscountTiers  []int
}

func NewTables(g config.Generation) (*Tables, error) {
	t := &Tables{
		Hours:          make(map[types.StoreType]*Weighted[int], len(types.StoreTypes)),
		DiscountChance: g.Discount.Chance,
		DiscountTiers:  append([]int(nil), g.Discount.Tiers...),
	}

	for _, st := range types.StoreTypes {
		profile, ok := g.Hours[st.String()]
		if !ok {
			return nil, fmt.Errorf("no hour profile for %s", st)
		}
		hours, err := NewWeighted(HourChoices(profile))
		if err != nil {
			return nil, fmt.Errorf("hour profile %s: %w", st, err)
		}
		t.Hours[st] = hours
	}

	payment := make([]Choice[types.PaymentMethod], 0, len(types.PaymentMethods))
	for _, m := range types.PaymentMethods {
		payment = append(payment, Choice[types.PaymentMethod]{Value: m, Weight: g.Weights.Payment[string(m)]})
	}
	var err error
	if t.Payment, err = NewWeighted(payment); err != nil {
		return nil, fmt.Errorf("payment weights: %w", err)
	}
	if t.ItemCount, err = NewWeighted(countChoices(g.Weights.ItemCount)); err != nil {
		return nil, fmt.Errorf("item count weights: %w", err)
	}
	if t.Quantity, err = NewWeighted(countChoices(g.Weights.Quantity)); err != nil {
		return nil, fmt.Errorf("quantity weights: %w", err)
	}

	return t, nil
}

// HourChoices expands a profile into 24 hourly weights: zero outside
// [Open, Close], the peak weight inside a peak window, BaseWeight elsewhere.
// Later peaks win where windows overlap.
func HourChoices(p config.HourProfile) []Choice[int] {
	choices := make([]Choice[int], 24)
	for h := range choices {
		choices[h] = Choice[int]{Value: h}
		if h < p.Open || h > p.Close {
			continue
		}
		choices[h].Weight = p.BaseWeight
		for _, peak := range p.Peaks {
			if h >= peak.From && h <= peak.To {
				choices[h].Weight = peak.Weight
			}
		}
	}
	return choices
}

// countChoices maps weights[i] to the count i+1.
func countChoices(weights []float64) []Choice[int] {
	choices := make([]Choice[int], len(weights))
	for i, w := range weights {
		choices[i] = Choice[int]{Value: i + 1, Weight: w}
	}
	return choices
}

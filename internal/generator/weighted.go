package generator

import (
	"fmt"
	"math/rand/v2"
)

// Weighted is a discrete distribution over values of T. Zero-weight entries
// are never picked.
type Weighted[T any] struct {
	values     []T
	cumulative []float64
	total      float64
}

type Choice[T any] struct {
	Value  T
	Weight float64
}

func NewWeighted[T any](choices []Choice[T]) (*Weighted[T], error) {
	w := &Weighted[T]{
		values:     make([]T, 0, len(choices)),
		cumulative: make([]float64, 0, len(choices)),
	}
	for i, c := range choices {
		if c.Weight < 0 {
			return nil, fmt.Errorf("weight %d is negative: %v", i, c.Weight)
		}
		w.total += c.Weight
		w.values = append(w.values, c.Value)
		w.cumulative = append(w.cumulative, w.total)
	}
	if w.total <= 0 {
		return nil, fmt.Errorf("distribution has no positive weight")
	}
	return w, nil
}

func (w *Weighted[T]) Pick(r *rand.Rand) T {
	x := r.Float64() * w.total
	for i, c := range w.cumulative {
		if x < c {
			return w.values[i]
		}
	}
	// x can only reach total through float rounding; return the last positive entry.
	for i := len(w.cumulative) - 1; i > 0; i-- {
		if w.cumulative[i] > w.cumulative[i-1] {
			return w.values[i]
		}
	}
	return w.values[0]
}

// Weight returns the weight attached to the i-th value.
func (w *Weighted[T]) Weight(i int) float64 {
	if i == 0 {
		return w.cumulative[0]
	}
	return w.cumulative[i] - w.cumulative[i-1]
}

func (w *Weighted[T]) Len() int { return len(w.values) }

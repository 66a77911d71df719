package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Rana718/ontoseed/internal/types"
)

// TemporalSampler picks a transaction timestamp within the trailing window of
// Days calendar days ending today.
type TemporalSampler struct {
	hours map[types.StoreType]*Weighted[int]
	days  int
	today time.Time
	rand  *rand.Rand
}

func NewTemporalSampler(tables *Tables, days int, now time.Time, r *rand.Rand) *TemporalSampler {
	y, m, d := now.Date()
	return &TemporalSampler{
		hours: tables.Hours,
		days:  days,
		today: time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		rand:  r,
	}
}

func (s *TemporalSampler) Sample(t types.StoreType) (time.Time, error) {
	hours, ok := s.hours[t]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownStoreType, t)
	}

	day := s.today.AddDate(0, 0, -s.rand.IntN(s.days))
	hour := hours.Pick(s.rand)
	minute := s.rand.IntN(60)
	second := s.rand.IntN(60)

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, day.Location()), nil
}

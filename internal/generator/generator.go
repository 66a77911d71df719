package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/Rana718/ontoseed/internal/types"
)

// Reference is the already-persisted data a run generates against.
type Reference struct {
	Stores   []types.Store
	Staff    map[string][]types.StaffMember // keyed by store id
	Products []types.Product
}

type SkippedStore struct {
	StoreID string
	Reason  error
}

type Result struct {
	Transactions []types.Transaction
	Skipped      []SkippedStore
}

// LineCount returns the number of transaction lines across all transactions.
func (r *Result) LineCount() int {
	n := 0
	for _, tx := range r.Transactions {
		n += len(tx.Lines)
	}
	return n
}

type Generator struct {
	cfg       config.Generation
	sampler   *TemporalSampler
	composer  *Composer
	assembler *Assembler
}

// New builds a generator whose randomness is fully determined by cfg.Seed
// (a zero seed draws from the clock) and whose dates end at now.
func New(cfg config.Generation, now time.Time) (*Generator, error) {
	tables, err := NewTables(cfg)
	if err != nil {
		return nil, err
	}

	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return &Generator{
		cfg:       cfg,
		sampler:   NewTemporalSampler(tables, cfg.Days, now, r),
		composer:  NewComposer(tables, r),
		assembler: NewAssembler(NewSequence(), cfg.Currency),
	}, nil
}

// Generate produces transactions for every eligible store in ref. Stores with
// no staff, no catalog or no recognisable type are skipped and reported.
func (g *Generator) Generate(ref Reference) (*Result, error) {
	catalogs := make(map[types.StoreType][]types.Product, len(types.StoreTypes))
	for _, p := range ref.Products {
		if t, err := types.ParseStoreType(p.DataSource); err == nil {
			catalogs[t] = append(catalogs[t], p)
		}
	}

	res := &Result{}
	for _, store := range ref.Stores {
		if store.Type == types.StoreTypeUnknown {
			store.Type = types.ClassifyStore(store.ID, store.DataSource)
		}
		if store.Type == types.StoreTypeUnknown {
			res.Skipped = append(res.Skipped, SkippedStore{
				StoreID: store.ID,
				Reason:  fmt.Errorf("store %s: %w", store.ID, ErrUnknownStoreType),
			})
			continue
		}

		txs, err := g.generateStore(store, ref.Staff[store.ID], catalogs[store.Type])
		if err != nil {
			if IsSkip(err) {
				res.Skipped = append(res.Skipped, SkippedStore{StoreID: store.ID, Reason: err})
				continue
			}
			return nil, err
		}
		res.Transactions = append(res.Transactions, txs...)
	}

	return res, nil
}

func (g *Generator) generateStore(store types.Store, roster []types.StaffMember, catalog []types.Product) ([]types.Transaction, error) {
	n := g.cfg.VolumeFor(store.Type)
	txs := make([]types.Transaction, 0, n)

	for i := 0; i < n; i++ {
		basket, err := g.composer.Compose(store, roster, catalog)
		if err != nil {
			return nil, err
		}
		at, err := g.sampler.Sample(store.Type)
		if err != nil {
			return nil, err
		}
		txs = append(txs, g.assembler.Assemble(store, at, basket))
	}

	return txs, nil
}

// Sequence exposes the run's transaction counter.
func (g *Generator) Sequence() *Sequence { return g.assembler.seq }

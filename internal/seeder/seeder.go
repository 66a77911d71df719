package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/Rana718/ontoseed/internal/database"
	"github.com/Rana718/ontoseed/internal/database/common"
	"github.com/Rana718/ontoseed/internal/generator"
	"github.com/Rana718/ontoseed/internal/loader"
	"github.com/Rana718/ontoseed/internal/reference"
	"github.com/Rana718/ontoseed/internal/types"
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

type Seeder struct {
	config     *config.Config
	adapter    database.DatabaseAdapter
	catalog    *reference.Catalog
	graph      *DependencyGraph
	seedConfig SeedConfig
	now        func() time.Time
}

// NewSeeder connects to the configured database.
func NewSeeder(cfg *config.Config) (*Seeder, error) {
	adapter, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("failed to get database URL: %w", err)
	}

	if err := adapter.Connect(context.Background(), dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s, err := New(cfg, adapter)
	if err != nil {
		adapter.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already connected adapter. A nil adapter is only usable for
// dry runs that take all reference data from the built-in catalog.
func New(cfg *config.Config, adapter database.DatabaseAdapter) (*Seeder, error) {
	catalog, err := reference.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference catalog: %w", err)
	}

	return &Seeder{
		config:  cfg,
		adapter: adapter,
		catalog: catalog,
		graph:   NewDependencyGraph(),
		now:     time.Now,
	}, nil
}

func (s *Seeder) Close() error {
	if s.adapter == nil {
		return nil
	}
	return s.adapter.Close()
}

func (s *Seeder) Seed(ctx context.Context, seedConfig SeedConfig) (*Report, error) {
	s.seedConfig = seedConfig
	report := &Report{RunID: uuid.NewString(), DryRun: seedConfig.DryRun}

	color.Cyan("🌱 Starting seed run %s", report.RunID)
	if seedConfig.DryRun {
		color.Yellow("⚠️  Dry run: nothing will be written")
	}

	order, err := s.resolveTargets(seedConfig.Tables)
	if err != nil {
		return nil, err
	}
	report.Order = order
	color.Cyan("📋 Seed order: %s", strings.Join(order, " → "))

	selected := make(map[string]bool, len(order))
	for _, name := range order {
		selected[name] = true
	}
	sel := reference.Selection{
		Stores:   selected[TargetStore],
		Staff:    selected[TargetStaff],
		Products: selected[TargetProduct],
	}

	now := s.now()
	seed := uint64(s.config.Generation.Seed)
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	ds, err := reference.Build(s.catalog, rand.New(rand.NewPCG(seed, seed>>1|1)), now, s.config.Generation.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to build reference data: %w", err)
	}

	inMemory := reference.Selection{}
	if seedConfig.DryRun {
		inMemory = sel
	} else {
		if !seedConfig.SkipSchema {
			if err := s.applySchema(ctx); err != nil {
				return nil, err
			}
		}
		if err := s.checkDependencies(ctx); err != nil {
			return nil, err
		}

		counts, err := reference.Bootstrap(ctx, s.adapter, ds, sel)
		if err != nil {
			return nil, err
		}
		report.Reference = counts
		for _, c := range counts {
			color.Green("  ✅ %s: %d inserted, %d already present", c.Table, c.Inserted, int64(c.Rows)-c.Inserted)
		}
	}

	if !selected[TargetTransaction] {
		color.Green("\n✅ Seeding completed successfully!")
		return report, nil
	}

	ref, err := s.readReference(ctx, ds, inMemory)
	if err != nil {
		return nil, err
	}
	report.Stores = len(ref.Stores)

	gen, err := generator.New(s.config.Generation, now)
	if err != nil {
		return nil, fmt.Errorf("invalid generation config: %w", err)
	}

	color.Cyan("🧮 Generating transactions for %d stores over %d days...", len(ref.Stores), s.config.Generation.Days)
	res, err := gen.Generate(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transactions: %w", err)
	}
	report.Generated = len(res.Transactions)
	report.LinesGenerated = res.LineCount()
	report.Skipped = res.Skipped

	for _, skip := range res.Skipped {
		color.Yellow("  ⚠️  Skipped store %s: %v", skip.StoreID, skip.Reason)
	}
	color.Green("📊 Generated %d transactions with %d lines", report.Generated, report.LinesGenerated)

	if seedConfig.Verbose && len(res.Transactions) > 0 {
		color.Cyan("🔍 Sample transaction:")
		spew.Fdump(color.Output, res.Transactions[0])
	}

	if seedConfig.DryRun {
		color.Green("\n✅ Dry run completed")
		return report, nil
	}

	batch := seedConfig.Batch
	if batch <= 0 {
		batch = s.config.Generation.BatchSize
	}
	l := loader.New(s.adapter, batch)
	l.OnBatch = func(table string, done, total int) {
		color.Cyan("  📝 %s %d/%d", table, done, total)
	}

	loaded, err := l.Load(ctx, res.Transactions)
	report.Load = loaded
	if err != nil {
		color.Red("❌ Load aborted: %v", err)
		return report, err
	}

	color.Green("  ✅ transactions: %d inserted, %d already present", loaded.TransactionsInserted, loaded.TransactionsSkipped)
	color.Green("  ✅ transaction_items: %d inserted, %d already present", loaded.LinesInserted, loaded.LinesSkipped)
	if loaded.TransactionsMismatched > 0 {
		color.Yellow("  ⚠️  %d transaction ids already hold different transactions (another seed or day range); their %d lines were not written",
			loaded.TransactionsMismatched, loaded.LinesMismatched)
	}
	color.Green("\n✅ Seeding completed successfully!")
	return report, nil
}

// resolveTargets validates the requested targets and orders them.
func (s *Seeder) resolveTargets(names []string) ([]string, error) {
	if len(names) == 0 {
		names = []string{TargetStore, TargetStaff, TargetProduct, TargetTransaction}
	}

	s.graph = NewDependencyGraph()
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		t, ok := targets[name]
		if !ok {
			return nil, fmt.Errorf("unknown seed target %q (valid: store, staff, product, transaction)", name)
		}
		s.graph.AddTarget(t)
	}
	return s.graph.BuildInsertionOrder()
}

// checkDependencies fails when a target needs rows from a target that was
// not requested and has not been seeded before.
func (s *Seeder) checkDependencies(ctx context.Context) error {
	for _, dep := range s.graph.Missing() {
		for _, table := range targets[dep].Tables {
			n, err := s.adapter.CountRows(ctx, table)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("table %s is empty; add %q to the seed targets", table, dep)
			}
		}
	}
	return nil
}

func (s *Seeder) applySchema(ctx context.Context) error {
	files, err := s.config.GetSchemaFiles()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		color.Cyan("🔧 Applying built-in schema")
		return s.adapter.ApplySchema(ctx, common.DefaultSchema)
	}

	for _, file := range files {
		color.Cyan("🔧 Applying %s", file)
		ddl, err := s.readFile(file)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", file, err)
		}
		if err := common.ValidateSchema(ddl, filepath.Base(file)); err != nil {
			return err
		}
		if err := s.adapter.ApplySchema(ctx, ddl); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

// readReference loads stores, staff and products from the database, except
// for the parts marked in inMemory, which come from ds.
func (s *Seeder) readReference(ctx context.Context, ds *reference.Dataset, inMemory reference.Selection) (generator.Reference, error) {
	ref := generator.Reference{Staff: make(map[string][]types.StaffMember)}

	if s.adapter == nil && (!inMemory.Stores || !inMemory.Staff || !inMemory.Products) {
		return ref, fmt.Errorf("no database connection: seed store, staff and product together to generate from the built-in catalog")
	}

	if inMemory.Stores {
		ref.Stores = ds.Stores
	} else {
		stores, err := s.adapter.ListStores(ctx)
		if err != nil {
			return ref, err
		}
		ref.Stores = stores
	}

	if inMemory.Staff {
		for _, m := range ds.Staff {
			ref.Staff[m.StoreID] = append(ref.Staff[m.StoreID], m)
		}
	} else {
		for _, store := range ref.Stores {
			staff, err := s.adapter.ListStaff(ctx, store.ID)
			if err != nil {
				return ref, err
			}
			ref.Staff[store.ID] = staff
		}
	}

	if inMemory.Products {
		ref.Products = ds.Products
	} else {
		for _, t := range types.StoreTypes {
			products, err := s.adapter.ListProducts(ctx, t)
			if err != nil {
				return ref, err
			}
			ref.Products = append(ref.Products, products...)
		}
	}

	return ref, nil
}

func (s *Seeder) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

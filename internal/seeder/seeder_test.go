package seeder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/Rana718/ontoseed/internal/database/common"
	"github.com/Rana718/ontoseed/internal/database/sqlite"
	"github.com/Rana718/ontoseed/internal/generator"
	"github.com/Rana718/ontoseed/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestSeeder(t *testing.T) (*Seeder, *sqlite.Adapter) {
	t.Helper()
	a := sqlite.New()
	require.NoError(t, a.Connect(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "seed.db")))
	t.Cleanup(func() { a.Close() })

	cfg := config.DefaultConfig()
	cfg.SchemaDir = t.TempDir()
	cfg.Generation.Volume = map[string]int{"bakery": 10, "coffee_shop": 15}
	cfg.Generation.BatchSize = 40

	s, err := New(cfg, a)
	require.NoError(t, err)
	s.now = func() time.Time { return testNow }
	return s, a
}

func count(t *testing.T, a *sqlite.Adapter, table string) int64 {
	t.Helper()
	n, err := a.CountRows(context.Background(), table)
	require.NoError(t, err)
	return n
}

func TestSeedFullRun(t *testing.T) {
	s, a := newTestSeeder(t)

	report, err := s.Seed(context.Background(), SeedConfig{})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, []string{TargetProduct, TargetStore, TargetStaff, TargetTransaction}, report.Order)
	assert.Equal(t, 10, report.Stores)
	assert.Equal(t, 5*10+5*15, report.Generated)
	assert.Empty(t, report.Skipped)
	require.NotNil(t, report.Load)
	assert.Equal(t, int64(report.Generated), report.Load.TransactionsInserted)
	assert.Equal(t, int64(report.LinesGenerated), report.Load.LinesInserted)

	assert.Equal(t, int64(125), count(t, a, "transactions"))
	assert.Equal(t, int64(report.LinesGenerated), count(t, a, "transaction_items"))
	assert.Equal(t, int64(4), count(t, a, "payment_methods"))
}

func TestSeedIsIdempotent(t *testing.T) {
	s, a := newTestSeeder(t)
	ctx := context.Background()

	_, err := s.Seed(ctx, SeedConfig{})
	require.NoError(t, err)

	before := map[string]int64{}
	for _, table := range []string{"stores", "staff", "products", "transactions", "transaction_items"} {
		before[table] = count(t, a, table)
	}

	report, err := s.Seed(ctx, SeedConfig{})
	require.NoError(t, err)
	assert.Zero(t, report.Load.TransactionsInserted)
	assert.Equal(t, int64(report.Generated), report.Load.TransactionsSkipped)
	assert.Zero(t, report.Load.LinesInserted)
	for _, c := range report.Reference {
		assert.Zero(t, c.Inserted, c.Table)
	}

	for table, n := range before {
		assert.Equal(t, n, count(t, a, table), table)
	}
}

func TestSeedWithAnotherSeedKeepsStoredTotals(t *testing.T) {
	s, a := newTestSeeder(t)
	ctx := context.Background()

	s.config.Generation.Seed = 42
	_, err := s.Seed(ctx, SeedConfig{})
	require.NoError(t, err)
	lines := count(t, a, "transaction_items")

	s.config.Generation.Seed = 7
	report, err := s.Seed(ctx, SeedConfig{})
	require.NoError(t, err)
	assert.Zero(t, report.Load.TransactionsInserted)
	assert.NotZero(t, report.Load.TransactionsMismatched)
	assert.NotZero(t, report.Load.LinesMismatched)

	assert.Equal(t, int64(125), count(t, a, "transactions"))
	assert.Equal(t, lines+report.Load.LinesInserted, count(t, a, "transaction_items"))

	var unbalanced []string
	require.NoError(t, a.DB.SelectContext(ctx, &unbalanced, `
		SELECT t.transaction_id
		FROM transactions t
		LEFT JOIN transaction_items i ON i.transaction_id = t.transaction_id
		GROUP BY t.transaction_id, t.total_amount
		HAVING ABS(t.total_amount - COALESCE(SUM(i.item_total), 0)) > 0.005`))
	assert.Empty(t, unbalanced)
}

func TestSeedDryRunWritesNothing(t *testing.T) {
	s, a := newTestSeeder(t)
	ctx := context.Background()
	require.NoError(t, a.ApplySchema(ctx, common.DefaultSchema))

	report, err := s.Seed(ctx, SeedConfig{DryRun: true, Verbose: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 125, report.Generated)
	assert.Nil(t, report.Load)

	assert.Zero(t, count(t, a, "stores"))
	assert.Zero(t, count(t, a, "transactions"))
}

func TestSeedDryRunWithoutDatabase(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Generation.Volume = map[string]int{"bakery": 4, "coffee_shop": 6}
	s, err := New(cfg, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return testNow }
	defer s.Close()

	report, err := s.Seed(context.Background(), SeedConfig{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 50, report.Generated)

	_, err = s.Seed(context.Background(), SeedConfig{DryRun: true, Tables: []string{"transaction"}})
	assert.Error(t, err)
}

func TestSeedReferenceOnly(t *testing.T) {
	s, a := newTestSeeder(t)

	report, err := s.Seed(context.Background(), SeedConfig{Tables: []string{"store", "staff"}})
	require.NoError(t, err)
	assert.Equal(t, []string{TargetStore, TargetStaff}, report.Order)
	assert.Zero(t, report.Generated)

	assert.Equal(t, int64(10), count(t, a, "stores"))
	assert.NotZero(t, count(t, a, "staff"))
	assert.Zero(t, count(t, a, "products"))
}

func TestSeedTransactionsNeedReferenceRows(t *testing.T) {
	s, _ := newTestSeeder(t)

	_, err := s.Seed(context.Background(), SeedConfig{Tables: []string{"transaction"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table products is empty")
}

func TestSeedSkipsStoreWithoutStaff(t *testing.T) {
	s, a := newTestSeeder(t)
	ctx := context.Background()

	_, err := s.Seed(ctx, SeedConfig{Tables: []string{"store", "staff", "product"}})
	require.NoError(t, err)

	_, err = a.InsertStores(ctx, []types.Store{{
		ID: "BAK006", Name: "Fournil du Port", CategoryID: 1, RegionID: 5, DataSource: "bakery",
	}})
	require.NoError(t, err)

	report, err := s.Seed(ctx, SeedConfig{Tables: []string{"transaction"}})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "BAK006", report.Skipped[0].StoreID)
	assert.True(t, errors.Is(report.Skipped[0].Reason, generator.ErrNoStaffAvailable))
	assert.Equal(t, 125, report.Generated)
	assert.Equal(t, int64(125), count(t, a, "transactions"))
}

func TestSeedRejectsUnknownTarget(t *testing.T) {
	s, _ := newTestSeeder(t)
	_, err := s.Seed(context.Background(), SeedConfig{Tables: []string{"shift"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown seed target")
}

func TestDependencyGraph(t *testing.T) {
	g := NewDependencyGraph()
	g.AddTarget(targets[TargetTransaction])
	g.AddTarget(targets[TargetStore])
	g.AddTarget(targets[TargetStaff])

	order, err := g.BuildInsertionOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{TargetStore, TargetStaff, TargetTransaction}, order)
	assert.Equal(t, []string{TargetProduct}, g.Missing())
}

func TestDependencyGraphDetectsCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddTarget(&Target{Name: "a", Dependencies: []string{"b"}})
	g.AddTarget(&Target{Name: "b", Dependencies: []string{"a"}})

	_, err := g.BuildInsertionOrder()
	assert.Error(t, err)
}

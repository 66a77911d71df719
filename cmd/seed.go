package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Rana718/ontoseed/internal/config"
	"github.com/Rana718/ontoseed/internal/db"
	"github.com/Rana718/ontoseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	seedTables     []string
	seedDryRun     bool
	seedVerbose    bool
	seedSkipSchema bool
	seedBatch      int
	seedCount      map[string]int
	seedDays       int
	seedSeed       int64
	seedWait       int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data and synthetic transactions",
	Long: `Seed the database with stores, staff, products and generated sales.

Targets are store, staff, product and transaction; all are seeded by default.
Rows that already exist are left untouched, so seed can be re-run safely.

Examples:
  ontoseed seed
  ontoseed seed --tables store,staff,product
  ontoseed seed --tables transaction --days 7 --count bakery=50
  ontoseed seed --dry-run --verbose`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("days") {
			cfg.Generation.Days = seedDays
		}
		if cmd.Flags().Changed("seed") {
			cfg.Generation.Seed = seedSeed
		}
		for storeType, n := range seedCount {
			cfg.Generation.Volume[storeType] = n
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if seedWait > 0 && !seedDryRun {
			if err := waitForDatabase(ctx, cfg, seedWait); err != nil {
				return err
			}
		}

		var s *seeder.Seeder
		if seedDryRun {
			s, err = dryRunSeeder(cfg)
		} else {
			s, err = seeder.NewSeeder(cfg)
		}
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := s.Seed(ctx, seeder.SeedConfig{
			Tables:     seedTables,
			DryRun:     seedDryRun,
			Verbose:    seedVerbose,
			SkipSchema: seedSkipSchema,
			Batch:      seedBatch,
		})
		if err != nil {
			return err
		}

		if len(report.Skipped) > 0 {
			color.Yellow("⚠️  %d of %d stores skipped", len(report.Skipped), report.Stores)
		}
		return nil
	},
}

// dryRunSeeder connects when a database URL is configured so existing
// reference rows can be read, and otherwise works from the built-in catalog.
func dryRunSeeder(cfg *config.Config) (*seeder.Seeder, error) {
	if _, err := cfg.GetDatabaseURL(); err == nil {
		return seeder.NewSeeder(cfg)
	}
	color.Yellow("⚠️  No database configured; using the built-in catalog")
	return seeder.New(cfg, nil)
}

func waitForDatabase(ctx context.Context, cfg *config.Config, attempts int) error {
	conn, err := db.NewConnection(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Wait(ctx, db.WaitOptions{
		Attempts: attempts,
		Delay:    3 * time.Second,
		OnRetry: func(attempt int, err error) {
			color.Yellow("⏳ Waiting for database... attempt %d/%d", attempt, attempts)
		},
	})
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringSliceVar(&seedTables, "tables", nil, "Seed targets (store, staff, product, transaction)")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Generate and report without writing")
	seedCmd.Flags().BoolVar(&seedVerbose, "verbose", false, "Print a sample generated transaction")
	seedCmd.Flags().BoolVar(&seedSkipSchema, "skip-schema", false, "Do not create missing tables")
	seedCmd.Flags().IntVar(&seedBatch, "batch", 0, "Rows per insert statement (default from config)")
	seedCmd.Flags().StringToIntVar(&seedCount, "count", nil, "Transactions per store by type (e.g. bakery=100,coffee_shop=150)")
	seedCmd.Flags().IntVar(&seedDays, "days", 30, "Days of history to generate")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 42, "Random seed (0 = time based)")
	seedCmd.Flags().IntVar(&seedWait, "wait", 0, "Wait for the database, up to this many attempts")
}

package seeder

import (
	"github.com/Rana718/ontoseed/internal/generator"
	"github.com/Rana718/ontoseed/internal/loader"
	"github.com/Rana718/ontoseed/internal/reference"
)

// Seed targets accepted by --tables.
const (
	TargetStore       = "store"
	TargetStaff       = "staff"
	TargetProduct     = "product"
	TargetTransaction = "transaction"
)

type SeedConfig struct {
	Tables     []string // Seed targets; empty means all
	DryRun     bool     // Generate and report without writing
	Verbose    bool     // Dump a sample transaction
	SkipSchema bool     // Do not apply the bootstrap DDL
	Batch      int      // Rows per insert statement; 0 uses the config
}

// Target is one seedable group of tables and the targets it needs rows from.
type Target struct {
	Name         string
	Tables       []string
	Dependencies []string
}

var targets = map[string]*Target{
	TargetStore:       {Name: TargetStore, Tables: []string{"stores"}},
	TargetStaff:       {Name: TargetStaff, Tables: []string{"staff"}, Dependencies: []string{TargetStore}},
	TargetProduct:     {Name: TargetProduct, Tables: []string{"products"}},
	TargetTransaction: {Name: TargetTransaction, Tables: []string{"transactions", "transaction_items"}, Dependencies: []string{TargetStore, TargetStaff, TargetProduct}},
}

type Report struct {
	RunID     string
	DryRun    bool
	Order     []string
	Reference []reference.TableCount

	Stores         int
	Generated      int
	LinesGenerated int
	Skipped        []generator.SkippedStore

	Load *loader.Report
}

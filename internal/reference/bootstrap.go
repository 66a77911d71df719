package reference

import (
	"context"
	"fmt"

	"github.com/Rana718/ontoseed/internal/database"
)

// Selection picks which entity tables a bootstrap writes. Lookup tables
// (currencies, categories, regions, roles) are always ensured.
type Selection struct {
	Stores   bool
	Staff    bool
	Products bool
}

func All() Selection {
	return Selection{Stores: true, Staff: true, Products: true}
}

type TableCount struct {
	Table    string
	Rows     int
	Inserted int64
}

// Bootstrap writes the dataset with insert-if-absent semantics, lookup tables
// first. Running it again writes nothing.
func Bootstrap(ctx context.Context, w database.ReferenceWriter, ds *Dataset, sel Selection) ([]TableCount, error) {
	type step struct {
		table string
		rows  int
		on    bool
		write func() (int64, error)
	}
	steps := []step{
		{"currencies", len(ds.Currencies), true, func() (int64, error) { return w.InsertCurrencies(ctx, ds.Currencies) }},
		{"store_categories", len(ds.StoreCategories), true, func() (int64, error) { return w.InsertStoreCategories(ctx, ds.StoreCategories) }},
		{"regions", len(ds.Regions), true, func() (int64, error) { return w.InsertRegions(ctx, ds.Regions) }},
		{"staff_roles", len(ds.StaffRoles), true, func() (int64, error) { return w.InsertStaffRoles(ctx, ds.StaffRoles) }},
		{"product_categories", len(ds.ProductCategories), true, func() (int64, error) { return w.InsertProductCategories(ctx, ds.ProductCategories) }},
		{"stores", len(ds.Stores), sel.Stores, func() (int64, error) { return w.InsertStores(ctx, ds.Stores) }},
		{"staff", len(ds.Staff), sel.Staff, func() (int64, error) { return w.InsertStaff(ctx, ds.Staff) }},
		{"products", len(ds.Products), sel.Products, func() (int64, error) { return w.InsertProducts(ctx, ds.Products) }},
	}

	var counts []TableCount
	for _, s := range steps {
		if !s.on {
			continue
		}
		n, err := s.write()
		if err != nil {
			return counts, fmt.Errorf("failed to seed %s: %w", s.table, err)
		}
		counts = append(counts, TableCount{Table: s.table, Rows: s.rows, Inserted: n})
	}
	return counts, nil
}

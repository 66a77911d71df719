package reference

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Rana718/ontoseed/internal/database/common"
	"github.com/Rana718/ontoseed/internal/database/sqlite"
	"github.com/Rana718/ontoseed/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func buildDefault(t *testing.T, seed uint64) *Dataset {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	ds, err := Build(c, rand.New(rand.NewPCG(seed, seed)), testNow, "EUR")
	require.NoError(t, err)
	return ds
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Len(t, c.Stores, 10)
	assert.Len(t, c.Regions, 5)
	assert.Len(t, c.StaffRoles, 5)
	assert.Len(t, c.ProductCategories, 6)
	assert.Equal(t, "€", c.Currencies[0].Symbol)
}

func TestParseCatalogRejectsDanglingReferences(t *testing.T) {
	_, err := ParseCatalog([]byte(`
store_categories:
  - {id: 1, name: Bakery, store_type: bakery}
regions:
  - {id: 1, name: Paris, country: France}
stores:
  - {id: BAK001, name: X, category_id: 1, region_id: 9}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown region")

	_, err = ParseCatalog([]byte(`
staff_roles:
  - {id: 1, name: Cashier, hourly_rate: "12.50"}
staffing:
  bakery:
    - {role: Baker, min: 1, max: 2}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestBuildStores(t *testing.T) {
	ds := buildDefault(t, 42)

	require.Len(t, ds.Stores, 10)
	for _, s := range ds.Stores {
		switch {
		case strings.HasPrefix(s.ID, "BAK"):
			assert.Equal(t, types.StoreTypeBakery, s.Type)
			assert.Equal(t, "bakery", s.DataSource)
		case strings.HasPrefix(s.ID, "COF"):
			assert.Equal(t, types.StoreTypeCoffeeShop, s.Type)
			assert.Equal(t, "coffee_shop", s.DataSource)
		default:
			t.Errorf("unexpected store id %s", s.ID)
		}
	}
}

func TestBuildStaffMix(t *testing.T) {
	ds := buildDefault(t, 42)

	roleName := map[int]string{}
	for _, r := range ds.StaffRoles {
		roleName[r.ID] = r.Name
	}

	perStore := map[string]map[string]int{}
	names := map[string]bool{}
	for i, s := range ds.Staff {
		if perStore[s.StoreID] == nil {
			perStore[s.StoreID] = map[string]int{}
		}
		perStore[s.StoreID][roleName[s.RoleID]]++

		key := s.FirstName + " " + s.LastName
		assert.False(t, names[key], "duplicate staff name %s", key)
		names[key] = true

		assert.True(t, strings.HasPrefix(s.ID, s.StoreID+"-S"), s.ID)
		assert.NotContains(t, s.Email, "é")
		assert.True(t, strings.HasSuffix(s.Email, "@"+strings.ToLower(s.StoreID)+"."+EmailDomain), s.Email)

		hired, err := time.Parse(types.DateLayout, s.HireDate)
		require.NoError(t, err)
		assert.True(t, !hired.After(testNow.AddDate(0, 0, -30)), "staff %d hired too recently", i)
		assert.True(t, !hired.Before(testNow.AddDate(0, 0, -731)), "staff %d hired too early", i)
	}

	for storeID, roles := range perStore {
		if strings.HasPrefix(storeID, "BAK") {
			assert.True(t, roles["Cashier"] >= 2 && roles["Cashier"] <= 3, storeID)
			assert.True(t, roles["Baker"] >= 2 && roles["Baker"] <= 4, storeID)
			assert.Equal(t, 1, roles["Manager"], storeID)
			assert.Zero(t, roles["Barista"], storeID)
		} else {
			assert.True(t, roles["Cashier"] >= 1 && roles["Cashier"] <= 2, storeID)
			assert.True(t, roles["Barista"] >= 2 && roles["Barista"] <= 4, storeID)
			assert.Equal(t, 1, roles["Manager"], storeID)
			assert.LessOrEqual(t, roles["Assistant Manager"], 1, storeID)
		}
	}
	assert.Len(t, perStore, 10)
}

func TestBuildProducts(t *testing.T) {
	ds := buildDefault(t, 7)

	var bakery, coffee []types.Product
	for _, p := range ds.Products {
		switch p.DataSource {
		case "bakery":
			bakery = append(bakery, p)
		case "coffee_shop":
			coffee = append(coffee, p)
		}
		assert.Equal(t, "EUR", p.CurrencyCode)
		assert.True(t, p.IsActive)
	}
	require.Len(t, bakery, 48)
	require.Len(t, coffee, 24)

	assert.Equal(t, "B001", bakery[0].ID)
	assert.Equal(t, "Croissant: Croissant Variety 1", bakery[0].Name)
	assert.Equal(t, "C001", coffee[0].ID)
	assert.Equal(t, "Espresso: Small Espresso", coffee[0].Name)

	lo, hi := decimal.RequireFromString("1.50"), decimal.RequireFromString("8.00")
	for _, p := range bakery {
		assert.True(t, p.BasePrice.GreaterThanOrEqual(lo) && p.BasePrice.LessThanOrEqual(hi), "%s %s", p.ID, p.BasePrice)
	}

	// Small < Regular < Large for each drink.
	for i := 0; i < len(coffee); i += 3 {
		assert.True(t, coffee[i].BasePrice.LessThan(coffee[i+1].BasePrice), coffee[i].ID)
		assert.True(t, coffee[i+1].BasePrice.LessThan(coffee[i+2].BasePrice), coffee[i+1].ID)
	}
}

func TestBuildRejectsUnknownCurrency(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	_, err = Build(c, rand.New(rand.NewPCG(1, 1)), testNow, "GBP")
	assert.Error(t, err)
}

func TestBuildIsDeterministic(t *testing.T) {
	a := buildDefault(t, 99)
	b := buildDefault(t, 99)
	require.Equal(t, len(a.Staff), len(b.Staff))
	for i := range a.Staff {
		assert.Equal(t, a.Staff[i], b.Staff[i])
	}
	for i := range a.Products {
		assert.Equal(t, a.Products[i].ID, b.Products[i].ID)
		assert.True(t, a.Products[i].BasePrice.Equal(b.Products[i].BasePrice))
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "aurelie.lefebvre@bak003.ontoseed.example", Email("Aurélie", "Lefebvre", "BAK003"))
	assert.Equal(t, "theo.chevalier@cof001.ontoseed.example", Email("Théo", "Chevalier", "COF001"))
	assert.Equal(t, "Zoe", Fold("Zoé"))
}

func TestBootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()
	a := sqlite.New()
	require.NoError(t, a.Connect(ctx, "sqlite://"+filepath.Join(t.TempDir(), "ref.db")))
	defer a.Close()
	require.NoError(t, a.ApplySchema(ctx, common.DefaultSchema))

	ds := buildDefault(t, 42)

	counts, err := Bootstrap(ctx, a, ds, All())
	require.NoError(t, err)
	require.Len(t, counts, 8)
	for _, c := range counts {
		assert.Equal(t, int64(c.Rows), c.Inserted, c.Table)
	}

	counts, err = Bootstrap(ctx, a, ds, All())
	require.NoError(t, err)
	for _, c := range counts {
		assert.Zero(t, c.Inserted, c.Table)
	}

	n, err := a.CountRows(ctx, "staff")
	require.NoError(t, err)
	assert.Equal(t, int64(len(ds.Staff)), n)

	staff, err := a.ListStaff(ctx, "COF003")
	require.NoError(t, err)
	assert.NotEmpty(t, staff)
}

func TestBootstrapSelection(t *testing.T) {
	ctx := context.Background()
	a := sqlite.New()
	require.NoError(t, a.Connect(ctx, "sqlite://"+filepath.Join(t.TempDir(), "ref.db")))
	defer a.Close()
	require.NoError(t, a.ApplySchema(ctx, common.DefaultSchema))

	counts, err := Bootstrap(ctx, a, buildDefault(t, 42), Selection{Stores: true})
	require.NoError(t, err)

	var tables []string
	for _, c := range counts {
		tables = append(tables, c.Table)
	}
	assert.Equal(t, []string{"currencies", "store_categories", "regions", "staff_roles", "product_categories", "stores"}, tables)

	n, err := a.CountRows(ctx, "products")
	require.NoError(t, err)
	assert.Zero(t, n)
}

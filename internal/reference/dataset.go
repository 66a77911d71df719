package reference

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/Rana718/ontoseed/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const EmailDomain = "ontoseed.example"

// Dataset is every reference row a bootstrap writes, in insert order.
type Dataset struct {
	Currencies        []types.Currency
	StoreCategories   []types.StoreCategory
	Regions           []types.Region
	Stores            []types.Store
	StaffRoles        []types.StaffRole
	Staff             []types.StaffMember
	ProductCategories []types.ProductCategory
	Products          []types.Product
}

// Build expands the catalog into concrete rows. Staff rosters, hire dates
// and prices are drawn from r; identifiers depend only on the catalog.
func Build(c *Catalog, r *rand.Rand, now time.Time, currency string) (*Dataset, error) {
	if !c.hasCurrency(currency) {
		return nil, fmt.Errorf("currency %s is not in the catalog", currency)
	}

	ds := &Dataset{
		Currencies: c.Currencies,
		Regions:    c.Regions,
	}
	for _, sc := range c.StoreCategories {
		ds.StoreCategories = append(ds.StoreCategories, sc.StoreCategory)
	}
	for _, pc := range c.ProductCategories {
		ds.ProductCategories = append(ds.ProductCategories, pc.ProductCategory)
	}

	roleIDs := make(map[string]int, len(c.StaffRoles))
	for _, re := range c.StaffRoles {
		rate, err := decimal.NewFromString(re.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", re.Name, err)
		}
		ds.StaffRoles = append(ds.StaffRoles, types.StaffRole{ID: re.ID, Name: re.Name, HourlyRate: rate})
		roleIDs[re.Name] = re.ID
	}

	for _, se := range c.Stores {
		t := c.storeTypeOf(se.CategoryID)
		ds.Stores = append(ds.Stores, types.Store{
			ID:          se.ID,
			Name:        se.Name,
			CategoryID:  se.CategoryID,
			RegionID:    se.RegionID,
			Address:     se.Address,
			Phone:       se.Phone,
			OpeningDate: se.OpeningDate,
			DataSource:  t.String(),
			Type:        t,
		})
	}

	staff, err := buildStaff(c, ds.Stores, roleIDs, r, now)
	if err != nil {
		return nil, err
	}
	ds.Staff = staff

	products, err := buildProducts(c, r, currency)
	if err != nil {
		return nil, err
	}
	ds.Products = products

	return ds, nil
}

func buildStaff(c *Catalog, stores []types.Store, roleIDs map[string]int, r *rand.Rand, now time.Time) ([]types.StaffMember, error) {
	names := newNamePool(c.FirstNames, c.LastNames, r)

	var staff []types.StaffMember
	for _, store := range stores {
		seq := 0
		for _, h := range c.Staffing[store.Type.String()] {
			count := h.Min + r.IntN(h.Max-h.Min+1)
			for range count {
				first, last, err := names.next()
				if err != nil {
					return nil, err
				}
				seq++
				hired := now.AddDate(0, 0, -(30 + r.IntN(701)))
				staff = append(staff, types.StaffMember{
					ID:        StaffID(store.ID, seq),
					StoreID:   store.ID,
					RoleID:    roleIDs[h.Role],
					FirstName: first,
					LastName:  last,
					Email:     Email(first, last, store.ID),
					HireDate:  hired.Format(types.DateLayout),
				})
			}
		}
	}
	return staff, nil
}

func StaffID(storeID string, n int) string {
	return fmt.Sprintf("%s-S%02d", storeID, n)
}

// namePool hands out first/last name pairs without repeating one.
type namePool struct {
	first, last []string
	used        map[[2]string]bool
	r           *rand.Rand
}

func newNamePool(first, last []string, r *rand.Rand) *namePool {
	return &namePool{first: first, last: last, used: map[[2]string]bool{}, r: r}
}

func (p *namePool) next() (string, string, error) {
	if len(p.used) >= len(p.first)*len(p.last) {
		return "", "", fmt.Errorf("ran out of unique staff names after %d", len(p.used))
	}
	for {
		pair := [2]string{p.first[p.r.IntN(len(p.first))], p.last[p.r.IntN(len(p.last))]}
		if !p.used[pair] {
			p.used[pair] = true
			return pair[0], pair[1], nil
		}
	}
}

var nonEmailChars = regexp.MustCompile(`[^a-z0-9]+`)

// Fold strips diacritics so "Aurélie" becomes "Aurelie".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func Email(first, last, storeID string) string {
	local := func(s string) string {
		return nonEmailChars.ReplaceAllString(strings.ToLower(Fold(s)), "")
	}
	return fmt.Sprintf("%s.%s@%s.%s", local(first), local(last), strings.ToLower(storeID), EmailDomain)
}

func buildProducts(c *Catalog, r *rand.Rand, currency string) ([]types.Product, error) {
	bp := c.Pricing.Bakery
	bMin, bMax := decimal.RequireFromString(bp.Min), decimal.RequireFromString(bp.Max)
	cp := c.Pricing.CoffeeShop
	cMin, cMax := decimal.RequireFromString(cp.Min), decimal.RequireFromString(cp.Max)
	step := decimal.RequireFromString(cp.SizeStep)

	var products []types.Product
	bakeryType, coffeeType := 0, 0
	for _, pc := range c.ProductCategories {
		st, _ := types.ParseStoreType(pc.StoreType)
		for _, typeName := range pc.Types {
			switch st {
			case types.StoreTypeBakery:
				for j := 1; j <= bp.Varieties; j++ {
					detail := fmt.Sprintf("%s Variety %d", typeName, j)
					products = append(products, product(
						fmt.Sprintf("B%03d", bakeryType*bp.Varieties+j),
						typeName, detail, pc.ID, uniform(r, bMin, bMax), currency, st, r))
				}
				bakeryType++
			case types.StoreTypeCoffeeShop:
				base := uniform(r, cMin, cMax)
				for j, size := range cp.Sizes {
					detail := fmt.Sprintf("%s %s", size, typeName)
					price := base.Mul(decimal.NewFromInt(1).Add(step.Mul(decimal.NewFromInt(int64(j))))).Round(2)
					products = append(products, product(
						fmt.Sprintf("C%03d", coffeeType*len(cp.Sizes)+j+1),
						typeName, detail, pc.ID, price, currency, st, r))
				}
				coffeeType++
			default:
				return nil, fmt.Errorf("product category %s has no store type", pc.Name)
			}
		}
	}
	return products, nil
}

func product(id, typeName, detail string, categoryID int, price decimal.Decimal, currency string, st types.StoreType, r *rand.Rand) types.Product {
	return types.Product{
		ID:           id,
		Name:         typeName + ": " + detail,
		CategoryID:   categoryID,
		TypeName:     typeName,
		Detail:       detail,
		BasePrice:    price,
		CurrencyCode: currency,
		IsSeasonal:   r.Float64() < 0.1,
		IsActive:     true,
		DataSource:   st.String(),
	}
}

// uniform draws a price in [lo, hi] rounded to cents.
func uniform(r *rand.Rand, lo, hi decimal.Decimal) decimal.Decimal {
	span := hi.Sub(lo)
	return lo.Add(span.Mul(decimal.NewFromFloat(r.Float64()))).Round(2)
}

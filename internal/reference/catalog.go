package reference

import (
	_ "embed"
	"fmt"

	"github.com/Rana718/ontoseed/internal/types"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Currencies        []types.Currency       `yaml:"currencies"`
	StoreCategories   []StoreCategory        `yaml:"store_categories"`
	Regions           []types.Region         `yaml:"regions"`
	Stores            []StoreEntry           `yaml:"stores"`
	StaffRoles        []RoleEntry            `yaml:"staff_roles"`
	Staffing          map[string][]Headcount `yaml:"staffing"`
	FirstNames        []string               `yaml:"first_names"`
	LastNames         []string               `yaml:"last_names"`
	ProductCategories []ProductCategory      `yaml:"product_categories"`
	Pricing           Pricing                `yaml:"pricing"`
}

type StoreCategory struct {
	types.StoreCategory `yaml:",inline"`
	StoreType           string `yaml:"store_type"`
}

type StoreEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	CategoryID  int    `yaml:"category_id"`
	RegionID    int    `yaml:"region_id"`
	Address     string `yaml:"address"`
	Phone       string `yaml:"phone"`
	OpeningDate string `yaml:"opening_date"`
}

type RoleEntry struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name"`
	HourlyRate string `yaml:"hourly_rate"`
}

// Headcount is the inclusive range of staff a store employs in one role.
type Headcount struct {
	Role string `yaml:"role"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
}

type ProductCategory struct {
	types.ProductCategory `yaml:",inline"`
	StoreType             string   `yaml:"store_type"`
	Types                 []string `yaml:"types"`
}

type Pricing struct {
	Bakery struct {
		Varieties int    `yaml:"varieties"`
		Min       string `yaml:"min"`
		Max       string `yaml:"max"`
	} `yaml:"bakery"`
	CoffeeShop struct {
		Sizes    []string `yaml:"sizes"`
		Min      string   `yaml:"min"`
		Max      string   `yaml:"max"`
		SizeStep string   `yaml:"size_step"`
	} `yaml:"coffee_shop"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	categories := make(map[int]string, len(c.StoreCategories))
	for _, sc := range c.StoreCategories {
		if _, err := types.ParseStoreType(sc.StoreType); err != nil {
			return fmt.Errorf("store category %q: %w", sc.Name, err)
		}
		categories[sc.ID] = sc.StoreType
	}

	regions := make(map[int]bool, len(c.Regions))
	for _, r := range c.Regions {
		regions[r.ID] = true
	}

	seen := make(map[string]bool, len(c.Stores))
	for _, s := range c.Stores {
		if seen[s.ID] {
			return fmt.Errorf("duplicate store id %s", s.ID)
		}
		seen[s.ID] = true
		if _, ok := categories[s.CategoryID]; !ok {
			return fmt.Errorf("store %s references unknown category %d", s.ID, s.CategoryID)
		}
		if !regions[s.RegionID] {
			return fmt.Errorf("store %s references unknown region %d", s.ID, s.RegionID)
		}
	}

	roles := make(map[string]bool, len(c.StaffRoles))
	for _, r := range c.StaffRoles {
		if _, err := decimal.NewFromString(r.HourlyRate); err != nil {
			return fmt.Errorf("role %s has invalid hourly rate %q", r.Name, r.HourlyRate)
		}
		roles[r.Name] = true
	}
	for storeType, counts := range c.Staffing {
		if _, err := types.ParseStoreType(storeType); err != nil {
			return fmt.Errorf("staffing: %w", err)
		}
		for _, h := range counts {
			if !roles[h.Role] {
				return fmt.Errorf("staffing for %s references unknown role %q", storeType, h.Role)
			}
			if h.Min < 0 || h.Max < h.Min {
				return fmt.Errorf("staffing for %s role %s has invalid range [%d, %d]", storeType, h.Role, h.Min, h.Max)
			}
		}
	}

	if len(c.FirstNames) == 0 || len(c.LastNames) == 0 {
		return fmt.Errorf("catalog needs at least one first and last name")
	}

	for _, pc := range c.ProductCategories {
		if _, err := types.ParseStoreType(pc.StoreType); err != nil {
			return fmt.Errorf("product category %q: %w", pc.Name, err)
		}
	}

	for _, v := range []string{c.Pricing.Bakery.Min, c.Pricing.Bakery.Max, c.Pricing.CoffeeShop.Min, c.Pricing.CoffeeShop.Max, c.Pricing.CoffeeShop.SizeStep} {
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("invalid price %q in catalog pricing", v)
		}
	}
	if c.Pricing.Bakery.Varieties < 1 {
		return fmt.Errorf("bakery pricing needs at least one variety per type")
	}
	if len(c.Pricing.CoffeeShop.Sizes) == 0 {
		return fmt.Errorf("coffee shop pricing needs at least one size")
	}
	return nil
}

func (c *Catalog) hasCurrency(code string) bool {
	for _, cur := range c.Currencies {
		if cur.Code == code {
			return true
		}
	}
	return false
}

func (c *Catalog) storeTypeOf(categoryID int) types.StoreType {
	for _, sc := range c.StoreCategories {
		if sc.ID == categoryID {
			t, _ := types.ParseStoreType(sc.StoreType)
			return t
		}
	}
	return types.StoreTypeUnknown
}

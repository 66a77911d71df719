package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Rana718/ontoseed/internal/types"
	"github.com/spf13/viper"
)

const DefaultConfigFile = "ontoseed.config.json"

type Config struct {
	Version    string     `json:"version" mapstructure:"version"`
	SchemaDir  string     `json:"schema_dir" mapstructure:"schema_dir"`
	Database   Database   `json:"database" mapstructure:"database"`
	Generation Generation `json:"generation" mapstructure:"generation"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

// Generation drives a transaction generation run. Maps are keyed by the
// store type's data_source tag ("bakery", "coffee_shop").
type Generation struct {
	Days      int                    `json:"days" mapstructure:"days"`
	Seed      int64                  `json:"seed" mapstructure:"seed"`
	Currency  string                 `json:"currency" mapstructure:"currency"`
	BatchSize int                    `json:"batch_size" mapstructure:"batch_size"`
	Volume    map[string]int         `json:"volume" mapstructure:"volume"`
	Weights   Weights                `json:"weights" mapstructure:"weights"`
	Discount  Discount               `json:"discount" mapstructure:"discount"`
	Hours     map[string]HourProfile `json:"hours" mapstructure:"hours"`
}

type Weights struct {
	Payment   map[string]float64 `json:"payment" mapstructure:"payment"`
	ItemCount []float64          `json:"item_count" mapstructure:"item_count"` // index 0 => 1 item
	Quantity  []float64          `json:"quantity" mapstructure:"quantity"`     // index 0 => quantity 1
}

type Discount struct {
	Chance float64 `json:"chance" mapstructure:"chance"`
	Tiers  []int   `json:"tiers" mapstructure:"tiers"`
}

// HourProfile describes one store type's demand curve. Hours in [Open, Close]
// carry BaseWeight unless a peak window overrides them; every other hour is closed.
type HourProfile struct {
	Open       int          `json:"open" mapstructure:"open"`
	Close      int          `json:"close" mapstructure:"close"`
	BaseWeight float64      `json:"base_weight" mapstructure:"base_weight"`
	Peaks      []PeakWindow `json:"peaks" mapstructure:"peaks"`
}

type PeakWindow struct {
	From   int     `json:"from" mapstructure:"from"`
	To     int     `json:"to" mapstructure:"to"`
	Weight float64 `json:"weight" mapstructure:"weight"`
}

// MaxDiscountPercent bounds every configured discount tier.
const MaxDiscountPercent = 15

func DefaultConfig() *Config {
	return &Config{
		Version:   "1",
		SchemaDir: "db/schema",
		Database: Database{
			Provider: "postgresql",
			URLEnv:   "DATABASE_URL",
		},
		Generation: DefaultGeneration(),
	}
}

func DefaultGeneration() Generation {
	return Generation{
		Days:      30,
		Seed:      42,
		Currency:  "EUR",
		BatchSize: 100,
		Volume: map[string]int{
			types.StoreTypeBakery.String():     100,
			types.StoreTypeCoffeeShop.String(): 150,
		},
		Weights: Weights{
			Payment: map[string]float64{
				string(types.PaymentCash):          0.35,
				string(types.PaymentCreditCard):    0.30,
				string(types.PaymentDebitCard):     0.25,
				string(types.PaymentMobilePayment): 0.10,
			},
			ItemCount: []float64{0.4, 0.3, 0.2, 0.1},
			Quantity:  []float64{0.7, 0.2, 0.1},
		},
		Discount: Discount{
			Chance: 0.10,
			Tiers:  []int{5, 10, 15},
		},
		Hours: map[string]HourProfile{
			types.StoreTypeBakery.String(): {
				Open: 6, Close: 19, BaseWeight: 1,
				Peaks: []PeakWindow{
					{From: 6, To: 10, Weight: 10},
					{From: 11, To: 14, Weight: 7},
				},
			},
			types.StoreTypeCoffeeShop.String(): {
				Open: 6, Close: 20, BaseWeight: 1,
				Peaks: []PeakWindow{
					{From: 7, To: 11, Weight: 9},
					{From: 12, To: 15, Weight: 7},
					{From: 16, To: 18, Weight: 5},
				},
			},
		},
	}
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Version == "" {
		c.Version = def.Version
	}
	if c.SchemaDir == "" {
		c.SchemaDir = def.SchemaDir
	}
	if c.Database.Provider == "" {
		c.Database.Provider = def.Database.Provider
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = def.Database.URLEnv
	}

	g, d := &c.Generation, def.Generation
	if g.Days == 0 {
		g.Days = d.Days
	}
	if g.Seed == 0 && !viper.IsSet("generation.seed") {
		g.Seed = d.Seed
	}
	if g.Currency == "" {
		g.Currency = d.Currency
	}
	if g.BatchSize == 0 {
		g.BatchSize = d.BatchSize
	}
	if g.Volume == nil {
		g.Volume = map[string]int{}
	}
	for k, v := range d.Volume {
		if _, ok := g.Volume[k]; !ok {
			g.Volume[k] = v
		}
	}
	if len(g.Weights.Payment) == 0 {
		g.Weights.Payment = d.Weights.Payment
	}
	if len(g.Weights.ItemCount) == 0 {
		g.Weights.ItemCount = d.Weights.ItemCount
	}
	if len(g.Weights.Quantity) == 0 {
		g.Weights.Quantity = d.Weights.Quantity
	}
	if g.Discount.Chance == 0 && !viper.IsSet("generation.discount.chance") {
		g.Discount.Chance = d.Discount.Chance
	}
	if len(g.Discount.Tiers) == 0 {
		g.Discount.Tiers = d.Discount.Tiers
	}
	if g.Hours == nil {
		g.Hours = map[string]HourProfile{}
	}
	for k, v := range d.Hours {
		if _, ok := g.Hours[k]; !ok {
			g.Hours[k] = v
		}
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	return c.Generation.Validate()
}

func (g *Generation) Validate() error {
	if g.Days < 1 {
		return fmt.Errorf("generation.days must be at least 1, got %d", g.Days)
	}
	if g.BatchSize < 1 {
		return fmt.Errorf("generation.batch_size must be at least 1, got %d", g.BatchSize)
	}
	if strings.TrimSpace(g.Currency) == "" {
		return fmt.Errorf("generation.currency cannot be empty")
	}

	for name, n := range g.Volume {
		if _, err := types.ParseStoreType(name); err != nil {
			return fmt.Errorf("generation.volume: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("generation.volume.%s cannot be negative", name)
		}
	}

	if err := g.validatePayment(); err != nil {
		return err
	}
	if err := validateWeights("generation.weights.item_count", g.Weights.ItemCount); err != nil {
		return err
	}
	if len(g.Weights.ItemCount) > 4 {
		return fmt.Errorf("generation.weights.item_count supports at most 4 entries, got %d", len(g.Weights.ItemCount))
	}
	if err := validateWeights("generation.weights.quantity", g.Weights.Quantity); err != nil {
		return err
	}

	if g.Discount.Chance < 0 || g.Discount.Chance > 1 {
		return fmt.Errorf("generation.discount.chance must be within [0, 1], got %v", g.Discount.Chance)
	}
	if g.Discount.Chance > 0 && len(g.Discount.Tiers) == 0 {
		return fmt.Errorf("generation.discount.tiers cannot be empty when chance is positive")
	}
	for _, tier := range g.Discount.Tiers {
		if tier <= 0 || tier > MaxDiscountPercent {
			return fmt.Errorf("generation.discount.tiers: %d is outside (0, %d]", tier, MaxDiscountPercent)
		}
	}

	for _, t := range types.StoreTypes {
		profile, ok := g.Hours[t.String()]
		if !ok {
			return fmt.Errorf("generation.hours.%s is missing", t)
		}
		if err := profile.Validate(); err != nil {
			return fmt.Errorf("generation.hours.%s: %w", t, err)
		}
	}

	return nil
}

func (g *Generation) validatePayment() error {
	weights := make([]float64, len(types.PaymentMethods))
	for i, m := range types.PaymentMethods {
		w, ok := g.Weights.Payment[string(m)]
		if !ok {
			return fmt.Errorf("generation.weights.payment.%s is missing", m)
		}
		weights[i] = w
	}
	for name := range g.Weights.Payment {
		known := false
		for _, m := range types.PaymentMethods {
			if name == string(m) {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("generation.weights.payment: unknown payment method %q", name)
		}
	}
	if err := validateWeights("generation.weights.payment", weights); err != nil {
		return err
	}
	// cash >= credit >= debit > mobile
	if !(weights[0] >= weights[1] && weights[1] >= weights[2] && weights[2] > weights[3]) {
		return fmt.Errorf("generation.weights.payment must satisfy cash >= credit_card >= debit_card > mobile_payment, got %v", weights)
	}
	return nil
}

func validateWeights(name string, weights []float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%s cannot be empty", name)
	}
	var total float64
	for i, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s[%d] cannot be negative", name, i)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("%s must contain a positive weight", name)
	}
	return nil
}

func (p HourProfile) Validate() error {
	if p.Open < 0 || p.Close > 23 || p.Open > p.Close {
		return fmt.Errorf("open/close hours %d-%d must satisfy 0 <= open <= close <= 23", p.Open, p.Close)
	}
	if p.Open == 0 && p.Close == 23 {
		return fmt.Errorf("open/close hours %d-%d leave no closed period", p.Open, p.Close)
	}
	if p.BaseWeight < 0 {
		return fmt.Errorf("base_weight cannot be negative")
	}
	if len(p.Peaks) == 0 {
		return fmt.Errorf("at least one peak window is required")
	}
	for i, peak := range p.Peaks {
		if peak.From < p.Open || peak.To > p.Close || peak.From > peak.To {
			return fmt.Errorf("peak %d (%d-%d) must lie within open hours %d-%d", i, peak.From, peak.To, p.Open, p.Close)
		}
		if peak.Weight <= p.BaseWeight {
			return fmt.Errorf("peak %d weight %v must exceed base_weight %v", i, peak.Weight, p.BaseWeight)
		}
	}
	return nil
}

// VolumeFor returns the number of transactions to generate per store of type t.
func (g *Generation) VolumeFor(t types.StoreType) int {
	return g.Volume[t.String()]
}

func (c *Config) GetSchemaDir() string {
	return c.SchemaDir
}

// GetSchemaFiles returns all .sql files in the schema directory, sorted by name.
// A missing directory is not an error; callers fall back to the embedded DDL.
func (c *Config) GetSchemaFiles() ([]string, error) {
	schemaDir := c.GetSchemaDir()

	entries, err := os.ReadDir(schemaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read schema directory %s: %w", schemaDir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, filepath.Join(schemaDir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// WriteDefault writes the default configuration as indented JSON. It refuses
// to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

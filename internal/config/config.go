package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

// FileName is the project configuration file at the project root.
const FileName = "ledgerkit.yaml"

// Config represents the top-level ledgerkit.yaml configuration.
type Config struct {
	Entity   EntityConfig  `yaml:"entity"`
	Storage  StorageConfig `yaml:"storage"`
	VatRates []VatRate     `yaml:"vat_rates"`
}

// EntityConfig identifies the reporting entity all rows are scoped to.
type EntityConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// StorageConfig locates the sqlite book database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// VatRate declares one VAT code, its percentage rate and the control
// account that receives the tax portion of postings.
type VatRate struct {
	Code      string  `yaml:"code"`
	Name      string  `yaml:"name"`
	Rate      float64 `yaml:"rate"`
	AccountID int     `yaml:"account_id"`
}

// Load reads a ledgerkit.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(entityName, currency string) *Config {
	return &Config{
		Entity: EntityConfig{
			ID:       "main",
			Name:     entityName,
			Currency: currency,
		},
		Storage: StorageConfig{
			Path: "book.db",
		},
		VatRates: []VatRate{
			{Code: "Z", Name: "Zero Rated", Rate: 0, AccountID: 2210},
			{Code: "S", Name: "Standard Rate", Rate: 16, AccountID: 2210},
		},
	}
}

// Vats converts the configured rates to domain VAT records.
func (c *Config) Vats() []model.Vat {
	out := make([]model.Vat, 0, len(c.VatRates))
	for _, r := range c.VatRates {
		out = append(out, model.Vat{
			Code:      r.Code,
			Name:      r.Name,
			Rate:      decimal.NewFromFloat(r.Rate),
			AccountID: r.AccountID,
		})
	}
	return out
}

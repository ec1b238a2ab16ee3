package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the YAML pipeline profile. Only the keys present in the file
// override the environment.
type Profile struct {
	Sheet           string    `yaml:"sheet"`
	AccountColumn   string    `yaml:"account_column"`
	TotalColumn     *string   `yaml:"total_column"`
	DropColumns     *[]string `yaml:"drop_columns"`
	Sentinels       *[]string `yaml:"sentinels"`
	NetRevenueLabel string    `yaml:"net_revenue_label"`
	Classification  string    `yaml:"classification"`
	RevenueKeywords *[]string `yaml:"revenue_keywords"`
	ExpenseKeywords *[]string `yaml:"expense_keywords"`
	Locale          string    `yaml:"locale"`
}

// LoadProfile reads and decodes a profile file, rejecting unknown keys.
func LoadProfile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	var p Profile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return p, nil
}

// ApplyProfile loads ProfileFile, if set, over the current values.
func (c *Config) ApplyProfile() error {
	if c.ProfileFile == "" {
		return nil
	}
	p, err := LoadProfile(c.ProfileFile)
	if err != nil {
		return err
	}
	p.apply(c)
	return nil
}

func (p Profile) apply(c *Config) {
	if p.Sheet != "" {
		c.SheetName = p.Sheet
	}
	if p.AccountColumn != "" {
		c.AccountColumn = p.AccountColumn
	}
	if p.TotalColumn != nil {
		c.TotalColumn = *p.TotalColumn
	}
	if p.DropColumns != nil {
		c.DropColumns = *p.DropColumns
	}
	if p.Sentinels != nil {
		c.SentinelValues = *p.Sentinels
	}
	if p.NetRevenueLabel != "" {
		c.NetRevenueLabel = p.NetRevenueLabel
	}
	if p.Classification != "" {
		c.Classification = p.Classification
	}
	if p.RevenueKeywords != nil {
		c.RevenueKeywords = *p.RevenueKeywords
	}
	if p.ExpenseKeywords != nil {
		c.ExpenseKeywords = *p.ExpenseKeywords
	}
	if p.Locale != "" {
		c.CurrencyLocale = p.Locale
	}
}
